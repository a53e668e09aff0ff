package translate

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/nashikconnect/vyapaar/config"
)

const apiVersion = "3.0"

var ErrNotConfigured = errors.New("translator subscription key is not configured")

// Language a supported translation target
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Region     string `json:"region,omitempty"`
	Dir        string `json:"dir,omitempty"`
}

// Client is a machine translation backend.
type Client interface {
	Translate(ctx context.Context, texts []string, to, from string) ([]string, error)
	Detect(ctx context.Context, text string) (string, error)
	Languages(ctx context.Context) ([]Language, error)
}

// MicrosoftClient talks to the Microsoft Translator v3 REST API.
type MicrosoftClient struct {
	endpoint string
	key      string
	region   string
	timeout  time.Duration
	client   *http.Client
}

func NewMicrosoftClient(cfg config.TranslateConfig) *MicrosoftClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MicrosoftClient{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		key:      cfg.Key,
		region:   cfg.Region,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

type textItem struct {
	Text string `json:"Text"`
}

type translateResult struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

type detectResult struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}

type languagesResult struct {
	Translation map[string]struct {
		Name       string `json:"name"`
		NativeName string `json:"nativeName"`
		Dir        string `json:"dir"`
	} `json:"translation"`
}

func (c *MicrosoftClient) headers() gout.H {
	return gout.H{
		"Ocp-Apim-Subscription-Key":    c.key,
		"Ocp-Apim-Subscription-Region": c.region,
	}
}

func (c *MicrosoftClient) Translate(ctx context.Context, texts []string, to, from string) ([]string, error) {
	if c.key == "" {
		return nil, ErrNotConfigured
	}
	body := make([]textItem, 0, len(texts))
	for _, t := range texts {
		body = append(body, textItem{Text: t})
	}

	var (
		result []translateResult
		code   int
	)
	err := gout.New(c.client).
		POST(c.endpoint + "/translate").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetQuery(gout.H{"api-version": apiVersion, "from": from, "to": to}).
		SetHeader(c.headers()).
		SetJSON(body).
		BindJSON(&result).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "translator request")
	}
	if code != http.StatusOK {
		return nil, errors.Errorf("translator returned status %d", code)
	}
	if len(result) != len(texts) {
		return nil, errors.Errorf("translator returned %d results for %d texts", len(result), len(texts))
	}

	out := make([]string, len(texts))
	for i, r := range result {
		if len(r.Translations) == 0 {
			return nil, errors.Errorf("translator returned no translation for item %d", i)
		}
		out[i] = r.Translations[0].Text
	}
	return out, nil
}

func (c *MicrosoftClient) Detect(ctx context.Context, text string) (string, error) {
	if c.key == "" {
		return "", ErrNotConfigured
	}
	var (
		result []detectResult
		code   int
	)
	err := gout.New(c.client).
		POST(c.endpoint + "/detect").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetQuery(gout.H{"api-version": apiVersion}).
		SetHeader(c.headers()).
		SetJSON([]textItem{{Text: text}}).
		BindJSON(&result).
		Code(&code).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "detect request")
	}
	if code != http.StatusOK || len(result) == 0 || result[0].Language == "" {
		return "", errors.Errorf("detect returned status %d", code)
	}
	return result[0].Language, nil
}

// Languages lists the translation scope, sorted by code. It needs no key.
func (c *MicrosoftClient) Languages(ctx context.Context) ([]Language, error) {
	var (
		result languagesResult
		code   int
	)
	err := gout.New(c.client).
		GET(c.endpoint + "/languages").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetQuery(gout.H{"api-version": apiVersion, "scope": "translation"}).
		BindJSON(&result).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "languages request")
	}
	if code != http.StatusOK {
		return nil, errors.Errorf("languages returned status %d", code)
	}
	langs := make([]Language, 0, len(result.Translation))
	for code, l := range result.Translation {
		langs = append(langs, Language{Code: code, Name: l.Name, NativeName: l.NativeName, Dir: l.Dir})
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })
	return langs, nil
}
