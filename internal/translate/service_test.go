package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nashikconnect/vyapaar/config"
)

type fakeTranslator struct {
	calls  atomic.Int32
	status int
}

func (f *fakeTranslator) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/translate", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		assert.Equal(t, "3.0", r.URL.Query().Get("api-version"))
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "centralindia", r.Header.Get("Ocp-Apim-Subscription-Region"))
		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"code":401000,"message":"bad key"}}`))
			return
		}
		var body []struct{ Text string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		to := r.URL.Query().Get("to")
		var out []map[string]interface{}
		for _, item := range body {
			out = append(out, map[string]interface{}{
				"translations": []map[string]string{{"text": "[" + to + "] " + item.Text, "to": to}},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/detect", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"language":"mr","score":0.98}]`))
	})
	mux.HandleFunc("/languages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "translation", r.URL.Query().Get("scope"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translation":{"mr":{"name":"Marathi","nativeName":"मराठी","dir":"ltr"},"hi":{"name":"Hindi","nativeName":"हिन्दी","dir":"ltr"}}}`))
	})
	return mux
}

func newTestService(t *testing.T, f *fakeTranslator, key string) *Service {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	client := NewMicrosoftClient(config.TranslateConfig{
		Endpoint: srv.URL,
		Key:      key,
		Region:   "centralindia",
		Timeout:  5,
	})
	cache, err := NewCache(100, time.Hour, "")
	require.NoError(t, err)
	return NewService(client, cache)
}

type shortClient struct{}

func (shortClient) Translate(_ context.Context, texts []string, to, _ string) ([]string, error) {
	return []string{"[" + to + "] " + texts[0]}, nil
}

func (shortClient) Detect(context.Context, string) (string, error) { return "hi", nil }

func (shortClient) Languages(context.Context) ([]Language, error) { return nil, nil }

func TestTranslateShortResultFallsBackToOriginals(t *testing.T) {
	cache, err := NewCache(10, time.Hour, "")
	require.NoError(t, err)
	svc := NewService(shortClient{}, cache)

	texts := []string{"Welcome", "Parking", "Food"}
	assert.Equal(t, texts, svc.Translate(context.Background(), texts, "hi", ""))
	assert.Equal(t, 0, cache.Len())
}

func TestTranslateCachesResults(t *testing.T) {
	f := &fakeTranslator{}
	svc := newTestService(t, f, "test-key")
	ctx := context.Background()

	first := svc.Translate(ctx, []string{"Welcome", "Parking"}, "hi", "")
	assert.Equal(t, []string{"[hi] Welcome", "[hi] Parking"}, first)
	assert.Equal(t, int32(1), f.calls.Load())

	again := svc.Translate(ctx, []string{"Welcome"}, "hi", "en")
	assert.Equal(t, []string{"[hi] Welcome"}, again)
	assert.Equal(t, int32(1), f.calls.Load())

	mixed := svc.Translate(ctx, []string{"Parking", "Food", "Food"}, "hi", "en")
	assert.Equal(t, []string{"[hi] Parking", "[hi] Food", "[hi] Food"}, mixed)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestTranslateSameLanguageIsIdentity(t *testing.T) {
	f := &fakeTranslator{}
	svc := newTestService(t, f, "test-key")

	assert.Equal(t, []string{"Namaste"}, svc.Translate(context.Background(), []string{"Namaste"}, "en", ""))
	assert.Equal(t, []string{"Namaste"}, svc.Translate(context.Background(), []string{"Namaste"}, "", "en"))
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestTranslateFailureReturnsOriginals(t *testing.T) {
	f := &fakeTranslator{status: http.StatusUnauthorized}
	svc := newTestService(t, f, "test-key")

	out := svc.Translate(context.Background(), []string{"Ramkund", " "}, "mr", "")
	assert.Equal(t, []string{"Ramkund", " "}, out)
	assert.Equal(t, 0, svc.Cache().Len())
}

func TestTranslateWithoutKey(t *testing.T) {
	f := &fakeTranslator{}
	svc := newTestService(t, f, "")

	assert.Equal(t, "Ramkund", svc.TranslateOne(context.Background(), "Ramkund", "mr"))
	assert.Equal(t, int32(0), f.calls.Load())
	assert.Equal(t, DefaultSource, svc.Detect(context.Background(), "नमस्कार"))
}

func TestDetectAndLanguages(t *testing.T) {
	svc := newTestService(t, &fakeTranslator{}, "test-key")
	assert.Equal(t, "mr", svc.Detect(context.Background(), "नमस्कार"))

	langs := svc.Languages(context.Background())
	require.Len(t, langs, 2)
	assert.Equal(t, "hi", langs[0].Code)
	assert.Equal(t, "Marathi", langs[1].Name)
}

func TestLanguagesFallback(t *testing.T) {
	client := NewMicrosoftClient(config.TranslateConfig{Endpoint: "http://127.0.0.1:1", Timeout: 1})
	cache, err := NewCache(10, time.Minute, "")
	require.NoError(t, err)
	svc := NewService(client, cache)

	langs := svc.Languages(context.Background())
	assert.Greater(t, len(langs), 100)
	assert.Equal(t, "en", langs[0].Code)
	assert.Equal(t, "मराठी", langs[2].NativeName)
}

func TestClearCache(t *testing.T) {
	f := &fakeTranslator{}
	svc := newTestService(t, f, "test-key")
	ctx := context.Background()

	svc.TranslateOne(ctx, "Temple", "ta")
	require.NoError(t, svc.ClearCache())
	assert.Equal(t, 0, svc.Cache().Len())
	svc.TranslateOne(ctx, "Temple", "ta")
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestWarmFillsCache(t *testing.T) {
	f := &fakeTranslator{}
	svc := newTestService(t, f, "test-key")

	require.NoError(t, svc.Warm(context.Background(), []string{"Add Product", "Checkout"}, []string{"hi", "mr", "gu"}))
	assert.Equal(t, int32(3), f.calls.Load())
	assert.Equal(t, 6, svc.Cache().Len())

	got, ok := svc.Cache().Get("Checkout", "gu")
	assert.True(t, ok)
	assert.Equal(t, "[gu] Checkout", got)
}

func TestPersistentCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translate.db")

	cache, err := NewCache(10, time.Hour, path)
	require.NoError(t, err)
	cache.Set("Ghat", "hi", "घाट")
	require.NoError(t, cache.Close())

	reopened, err := NewCache(10, time.Hour, path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 0, reopened.Len())
	got, ok := reopened.Get("Ghat", "hi")
	assert.True(t, ok)
	assert.Equal(t, "घाट", got)
	assert.Equal(t, 1, reopened.Len())

	_, ok = reopened.Get("Ghat", "mr")
	assert.False(t, ok)

	removed, err := reopened.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestPurgeExpiredPersistentEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translate.db")
	cache, err := NewCache(10, time.Nanosecond, path)
	require.NoError(t, err)
	defer cache.Close()

	cache.Set("Kalaram", "hi", "कालाराम")
	_, ok := cache.Get("Kalaram", "hi")
	assert.False(t, ok)

	removed, err := cache.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestEmbeddedLanguagesIncludeIndian(t *testing.T) {
	var codes []string
	for _, l := range EmbeddedLanguages() {
		if l.Region == "India" {
			codes = append(codes, l.Code)
		}
	}
	assert.Subset(t, codes, []string{"hi", "mr", "gu", "ta", "te", "kn", "ml", "bn"})
	assert.True(t, strings.HasPrefix(string(languagesJSON), "["))
}
