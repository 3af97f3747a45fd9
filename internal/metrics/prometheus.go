package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_chat_turns_total",
			Help: "Total chat turns processed",
		},
		[]string{"status"},
	)

	LLMRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatbot_llm_request_duration_seconds",
			Help:    "Language model request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_llm_tokens_used_total",
			Help: "Total language model tokens used",
		},
		[]string{"type"},
	)

	FeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_feedback_total",
			Help: "Total feedback submissions by value",
		},
		[]string{"value"},
	)

	CompaniesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatbot_companies_total",
			Help: "Number of companies in the profile store",
		},
	)

	InteractionsLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbot_interactions_logged_total",
			Help: "Total rows appended to the interaction log",
		},
	)

	AnalyticsRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_analytics_requests_total",
			Help: "Total analytics requests by view",
		},
		[]string{"view"},
	)

	WordcloudRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatbot_wordcloud_render_duration_seconds",
			Help:    "Word-cloud render duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5},
		},
	)
)

func Init() {
	prometheus.MustRegister(ChatTurns)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(FeedbackTotal)
	prometheus.MustRegister(CompaniesTotal)
	prometheus.MustRegister(InteractionsLogged)
	prometheus.MustRegister(AnalyticsRequests)
	prometheus.MustRegister(WordcloudRenderDuration)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
