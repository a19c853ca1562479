package metrics

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PathMetrics is the path of the metrics endpoint
const PathMetrics = "/metrics"

// NewHandler returns HTTP handler serving metrics collected by gatherer,
// or by prometheus.DefaultGatherer if nil
func NewHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router := httprouter.New()
	router.Handler(http.MethodGet, PathMetrics, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return router
}
