package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/webserver"
	"github.com/nashikconnect/vyapaar/pkg/metrics"
)

var metricNames = []string{
	metrics.MetricsProductCreated,
	metrics.MetricsProductVoice,
	metrics.MetricsStoreSaved,
	metrics.MetricsGuideEnrolled,
	metrics.MetricsInvoiceRendered,
	metrics.MetricsTranslateHit,
	metrics.MetricsTranslateMiss,
	metrics.MetricsSystemCpuUse,
	metrics.MetricsSystemMemUse,
	metrics.MetricsProcessCpuUse,
	metrics.MetricsProcessMemUse,
}

type metricSeries struct {
	Name    string          `json:"name"`
	Counter int64           `json:"counter"`
	Points  []metrics.Point `json:"points"`
}

func registerSystemRoutes() {
	admin := webserver.RequireRole(domain.RoleAdmin)
	webserver.ApiGET("/system/metrics", listMetrics, admin)
	webserver.ApiGET("/system/settings", listSettings, admin)
	webserver.ApiPUT("/system/settings", saveSettings, admin)
	webserver.ApiGET("/system/oprlogs", listOprLogs, admin)
}

// listMetrics returns the series named by ?name (all when empty) over
// ?window, a Go duration defaulting to one hour.
func listMetrics(c echo.Context) error {
	window := time.Hour
	if w := c.QueryParam("window"); w != "" {
		d, err := time.ParseDuration(w)
		if err != nil || d <= 0 {
			return fail(c, http.StatusBadRequest, "INVALID_WINDOW", "Invalid window", w)
		}
		window = d
	}
	names := metricNames
	if name := c.QueryParam("name"); name != "" {
		names = []string{name}
	}
	result := make([]metricSeries, 0, len(names))
	for _, name := range names {
		points, err := metrics.Query(name, window)
		if err != nil {
			return serviceError(c, err, "Failed to query metrics")
		}
		if points == nil {
			points = []metrics.Point{}
		}
		result = append(result, metricSeries{Name: name, Counter: metrics.Counter(name), Points: points})
	}
	return ok(c, result)
}

func listSettings(c echo.Context) error {
	mgr := GetAppContext(c).ConfigMgr()
	return ok(c, map[string]interface{}{
		"values":  mgr.All(),
		"schemas": mgr.Schemas(),
	})
}

func saveSettings(c echo.Context) error {
	var payload map[string]interface{}
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if len(payload) == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "No settings given", nil)
	}
	appCtx := GetAppContext(c)
	if err := appCtx.SaveSettings(payload); err != nil {
		return serviceError(c, err, "Failed to save settings")
	}
	return ok(c, appCtx.ConfigMgr().All())
}

func listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)
	logs, total, err := GetAppContext(c).Repos().OprLogs.List(c.Request().Context(), c.QueryParam("operator"), page, pageSize)
	if err != nil {
		return serviceError(c, err, "Failed to load operation logs")
	}
	return paged(c, logs, total, page, pageSize)
}
