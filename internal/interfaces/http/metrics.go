package http

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ordenesCreadasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_ordenes_creadas_total",
		Help: "Total de órdenes de salida creadas",
	})

	ordenesConfirmadasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_ordenes_confirmadas_total",
		Help: "Total de órdenes confirmadas (pasan a EN_PICKING)",
	})

	ordenesCanceladasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_ordenes_canceladas_total",
		Help: "Total de órdenes canceladas",
	})

	picksRegistradosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_picks_registrados_total",
		Help: "Total de confirmaciones de pick registradas",
	})

	reservasFallidasTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wms_reservas_fallidas_total",
		Help: "Total de reservas de inventario fallidas",
	}, []string{"reason"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total de peticiones HTTP",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de las peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// MetricsMiddleware observa cada petición con método, ruta registrada y status.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		path := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		httpRequestsTotal.WithLabelValues(c.Method(), path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path, status).Observe(time.Since(start).Seconds())
		return err
	}
}

// MetricsHandler expone /metrics en formato Prometheus.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
