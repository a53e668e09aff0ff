// Package translate proxies machine translation with a shared cache.
package translate

import (
	"context"
	_ "embed"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nashikconnect/vyapaar/pkg/metrics"
)

const DefaultSource = "en"

//go:embed languages.json
var languagesJSON []byte

var (
	embeddedOnce      sync.Once
	embeddedLanguages []Language
)

// EmbeddedLanguages is the bundled list of supported languages.
func EmbeddedLanguages() []Language {
	embeddedOnce.Do(func() {
		if err := json.Unmarshal(languagesJSON, &embeddedLanguages); err != nil {
			zap.L().Error("decode embedded languages", zap.Error(err), zap.String("namespace", "translate"))
		}
	})
	return append([]Language(nil), embeddedLanguages...)
}

// Service translates UI and catalog strings. Failures never surface to the
// caller: the original text is returned instead.
type Service struct {
	client Client
	cache  *Cache
	group  singleflight.Group
}

func NewService(client Client, cache *Cache) *Service {
	return &Service{client: client, cache: cache}
}

func (s *Service) Cache() *Cache {
	return s.cache
}

// Translate returns one string per input, in input order.
func (s *Service) Translate(ctx context.Context, texts []string, to, from string) []string {
	if from == "" {
		from = DefaultSource
	}
	out := append([]string(nil), texts...)
	if to == "" || to == from || len(texts) == 0 {
		return out
	}

	var missing []string
	seen := map[string]bool{}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if v, ok := s.cache.Get(t, to); ok {
			metrics.Incr(metrics.MetricsTranslateHit)
			out[i] = v
			continue
		}
		metrics.Incr(metrics.MetricsTranslateMiss)
		if !seen[t] {
			seen[t] = true
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return out
	}

	translated, err := s.fetch(ctx, missing, to, from)
	if err != nil {
		zap.L().Warn("translation failed, returning originals",
			zap.String("to", to), zap.Int("texts", len(missing)), zap.Error(err),
			zap.String("namespace", "translate"))
		return out
	}
	for i, t := range texts {
		if v, ok := translated[t]; ok {
			out[i] = v
		}
	}
	return out
}

// fetch collapses identical concurrent requests into one backend call.
func (s *Service) fetch(ctx context.Context, texts []string, to, from string) (map[string]string, error) {
	key := from + "\x00" + to + "\x00" + strings.Join(texts, "\x1f")
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		result, err := s.client.Translate(ctx, texts, to, from)
		if err != nil {
			return nil, err
		}
		if len(result) != len(texts) {
			return nil, errors.Errorf("translator returned %d results for %d texts", len(result), len(texts))
		}
		m := make(map[string]string, len(texts))
		for i, t := range texts {
			m[t] = result[i]
			s.cache.Set(t, to, result[i])
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

// TranslateOne is Translate for a single string.
func (s *Service) TranslateOne(ctx context.Context, text, to string) string {
	return s.Translate(ctx, []string{text}, to, "")[0]
}

// Detect returns the language code of text, "en" when detection fails.
func (s *Service) Detect(ctx context.Context, text string) string {
	lang, err := s.client.Detect(ctx, text)
	if err != nil {
		zap.L().Debug("language detection failed", zap.Error(err), zap.String("namespace", "translate"))
		return DefaultSource
	}
	return lang
}

// Languages returns the backend's language list, or the bundled list.
func (s *Service) Languages(ctx context.Context) []Language {
	langs, err := s.client.Languages(ctx)
	if err != nil || len(langs) == 0 {
		return EmbeddedLanguages()
	}
	return langs
}

func (s *Service) ClearCache() error {
	return s.cache.Clear()
}

// Warm pre-translates texts into every language on a bounded worker pool.
func (s *Service) Warm(ctx context.Context, texts []string, langs []string) error {
	if len(texts) == 0 || len(langs) == 0 {
		return nil
	}
	size := len(langs)
	if size > 4 {
		size = 4
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return errors.Wrap(err, "create warm pool")
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		submitErr error
	)
	for _, lang := range langs {
		lang := lang
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			s.Translate(ctx, texts, lang, DefaultSource)
		})
		if err != nil {
			wg.Done()
			submitErr = errors.Wrap(err, "submit warm task")
			break
		}
	}
	wg.Wait()
	if submitErr != nil {
		return submitErr
	}
	return ctx.Err()
}
