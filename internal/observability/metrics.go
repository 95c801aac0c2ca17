package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogo/internal"
)

type Metrics struct {
	registry *prometheus.Registry

	Loads          *prometheus.CounterVec
	Records        *prometheus.GaugeVec
	Searches       prometheus.Counter
	CartAdds       prometheus.Counter
	FilterDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_loads_total",
				Help: "Total de carregamentos do catálogo por resultado",
			},
			[]string{"result"},
		),
		Records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "catalog_records",
				Help: "Registros carregados por origem",
			},
			[]string{"origin"},
		),
		Searches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_searches_total",
				Help: "Total de consultas filtradas",
			},
		),
		CartAdds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cart_adds_total",
				Help: "Total de itens adicionados ao carrinho",
			},
		),
		FilterDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_filter_duration_seconds",
				Help:    "Tempo de filtro e paginação",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.Loads,
		m.Records,
		m.Searches,
		m.CartAdds,
		m.FilterDuration,
	)
	return m
}

// ObserveLoad records the outcome of a catalog load.
func (m *Metrics) ObserveLoad(cat *internal.Catalog, err error) {
	if err != nil {
		m.Loads.WithLabelValues("error").Inc()
		return
	}
	m.Loads.WithLabelValues("ok").Inc()
	for origin, n := range cat.Counts {
		m.Records.WithLabelValues(string(origin)).Set(float64(n))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
