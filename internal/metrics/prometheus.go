package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legilight_analyses_total",
			Help: "Total document analyses by outcome",
		},
		[]string{"status"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "legilight_analysis_duration_seconds",
			Help:    "End-to-end document analysis duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "legilight_ai_confidence",
			Help:    "Reported AI confidence per analysis",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	QuestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legilight_questions_total",
			Help: "Total Q&A calls by outcome",
		},
		[]string{"status"},
	)

	FallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "legilight_fallback_analyses_total",
			Help: "Analyses that fell back to pattern matching",
		},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legilight_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legilight_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legilight_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(ConfidenceScore)
	prometheus.MustRegister(QuestionsTotal)
	prometheus.MustRegister(FallbackTotal)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
