package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScrapesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_scrapes_total",
			Help: "Product page scrapes by result (ok, invalid_url, fetch_error, no_product).",
		},
		[]string{"result"},
	)

	IngestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_ingests_total",
			Help: "Records ingested into the catalog.",
		},
	)

	BatchUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_batch_updates_total",
			Help: "Batch update product outcomes (updated, failed).",
		},
		[]string{"result"},
	)
)

func Register() {
	prometheus.MustRegister(ScrapesTotal, IngestsTotal, BatchUpdatesTotal)
}

// Handler serves the metrics endpoint; mounted on the service router.
func Handler() http.Handler {
	return promhttp.Handler()
}
