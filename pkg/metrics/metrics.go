package metrics

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "asset_system"

var (
	AssetsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assets_registered_total",
		Help:      "Количество зарегистрированных активов.",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Переходы статусов операций, задач и закупок.",
	}, []string{"entity", "to"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP-запросы по маршруту и коду ответа.",
	}, []string{"method", "path", "code"})

	SnapshotAssets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "depreciation_snapshot_assets",
		Help:      "Количество активов в последнем снимке амортизации.",
	})
)

// Middleware считает запросы по шаблону маршрута (c.Path()), а не по сырому URL.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			code := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			}
			HTTPRequests.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(code)).Inc()
			return err
		}
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
