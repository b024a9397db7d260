package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogd",
			Name:      "search_requests_total",
			Help:      "Total keyword search requests",
		},
		[]string{"status"}, // "ok" / "invalid" / "error"
	)

	SearchCategoryMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogd",
			Name:      "search_category_matches",
			Help:      "Matched entities per category and request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"category"},
	)

	RAGQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogd",
			Name:      "rag_queries_total",
			Help:      "Question answering requests by outcome",
		},
		[]string{"status"}, // "ok" / "cached" / "rate_limited" / "disabled" / "error"
	)

	RAGAnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogd",
			Name:      "rag_answer_cache_total",
			Help:      "Answer cache hits and misses",
		},
		[]string{"result"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and question answering metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchCategoryMatches)
	prometheus.MustRegister(RAGQueriesTotal)
	prometheus.MustRegister(RAGAnswerCacheTotal)
	searchMetricsRegistered = true
}

// SearchRecorder feeds per-category match counts into SearchCategoryMatches.
type SearchRecorder struct{}

// ObserveCategoryMatches records how many entities of a category matched one request.
func (SearchRecorder) ObserveCategoryMatches(category string, total int64) {
	SearchCategoryMatches.WithLabelValues(category).Observe(float64(total))
}
