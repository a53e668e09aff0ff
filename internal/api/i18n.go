package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/translate"
	"github.com/nashikconnect/vyapaar/internal/webserver"
)

const (
	prefSession = "vyapaar"
	prefLangKey = "lang"
	maxTexts    = 100
)

type translatePayload struct {
	Texts []string `json:"texts" validate:"required,min=1"`
	To    string   `json:"to" validate:"required"`
	From  string   `json:"from"`
}

type detectPayload struct {
	Text string `json:"text" validate:"required"`
}

type preferencePayload struct {
	Lang string `json:"lang" validate:"required"`
}

func registerI18nRoutes() {
	webserver.ApiPOST("/i18n/translate", translateTexts)
	webserver.ApiPOST("/i18n/detect", detectLanguage)
	webserver.ApiGET("/i18n/languages", listLanguages)
	webserver.ApiGET("/i18n/preference", getPreference)
	webserver.ApiPUT("/i18n/preference", setPreference)
	webserver.ApiDELETE("/i18n/cache", clearTranslations, webserver.RequireRole(domain.RoleAdmin))
}

// requestLang picks the display language: ?lang, then the saved preference.
func requestLang(c echo.Context) string {
	if lang := strings.TrimSpace(c.QueryParam("lang")); lang != "" {
		return lang
	}
	sess, err := echosession.Get(prefSession, c)
	if err != nil {
		return translate.DefaultSource
	}
	if lang, _ := sess.Values[prefLangKey].(string); lang != "" {
		return lang
	}
	return translate.DefaultSource
}

// @Summary translate UI strings
// @Tags I18n
// @Param body body translatePayload true "texts"
// @Success 200 {object} Response
// @Router /i18n/translate [post]
func translateTexts(c echo.Context) error {
	var payload translatePayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Texts and target language are required", err.Error())
	}
	if len(payload.Texts) > maxTexts {
		return fail(c, http.StatusBadRequest, "TOO_MANY_TEXTS", "At most 100 texts per request", nil)
	}
	out := GetAppContext(c).Translator().Translate(c.Request().Context(), payload.Texts, payload.To, payload.From)
	return ok(c, map[string]interface{}{"translations": out, "to": payload.To})
}

func detectLanguage(c echo.Context) error {
	var payload detectPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Text is required", err.Error())
	}
	lang := GetAppContext(c).Translator().Detect(c.Request().Context(), payload.Text)
	return ok(c, map[string]string{"language": lang})
}

func listLanguages(c echo.Context) error {
	langs := GetAppContext(c).Translator().Languages(c.Request().Context())
	return c.JSON(http.StatusOK, ListResponse{Data: langs, Total: int64(len(langs)), Page: 1, PageSize: len(langs)})
}

func getPreference(c echo.Context) error {
	return ok(c, map[string]string{"lang": requestLang(c)})
}

func setPreference(c echo.Context) error {
	var payload preferencePayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Language is required", err.Error())
	}
	lang := strings.TrimSpace(payload.Lang)
	if !knownLanguage(lang) {
		return fail(c, http.StatusBadRequest, "UNKNOWN_LANGUAGE", "Unsupported language", lang)
	}
	sess, err := echosession.Get(prefSession, c)
	if err != nil {
		return serviceError(c, err, "Unable to save preference")
	}
	sess.Options = &sessions.Options{Path: "/", MaxAge: 86400 * 365, HttpOnly: true}
	sess.Values[prefLangKey] = lang
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return serviceError(c, err, "Unable to save preference")
	}
	return ok(c, map[string]string{"lang": lang})
}

func knownLanguage(code string) bool {
	for _, l := range translate.EmbeddedLanguages() {
		if strings.EqualFold(l.Code, code) {
			return true
		}
	}
	return false
}

func clearTranslations(c echo.Context) error {
	tr := GetAppContext(c).Translator()
	entries := tr.Cache().Len()
	if err := tr.ClearCache(); err != nil {
		return serviceError(c, err, "Failed to clear translation cache")
	}
	return ok(c, map[string]int{"cleared": entries})
}
