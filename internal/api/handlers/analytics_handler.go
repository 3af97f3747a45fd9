package handlers

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/analytics"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/interaction"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/metrics"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/wordcloud"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

const dateLayout = "2006-01-02"

type AnalyticsHandler struct {
	service  *analytics.Service
	renderer *wordcloud.Renderer
	topK     int
}

func NewAnalyticsHandler(service *analytics.Service, renderer *wordcloud.Renderer, topK int) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:  service,
		renderer: renderer,
		topK:     topK,
	}
}

func (h *AnalyticsHandler) Interactions(c *fiber.Ctx) error {
	metrics.AnalyticsRequests.WithLabelValues("interactions").Inc()

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	records, err := h.service.Interactions(filter)
	if err != nil {
		return analyticsError(c, err)
	}

	return c.JSON(fiber.Map{
		"interactions": records,
		"count":        len(records),
	})
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	metrics.AnalyticsRequests.WithLabelValues("summary").Inc()

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.service.Summarize(filter)
	if err != nil {
		return analyticsError(c, err)
	}

	return c.JSON(summary)
}

func (h *AnalyticsHandler) TopTerms(c *fiber.Ctx) error {
	metrics.AnalyticsRequests.WithLabelValues("terms").Inc()

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	k := h.topK
	if raw := c.Query("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "k must be a positive integer",
			})
		}
	}

	terms, err := h.service.TopTerms(filter, k)
	if err != nil {
		return analyticsError(c, err)
	}

	return c.JSON(fiber.Map{
		"terms": terms,
	})
}

func (h *AnalyticsHandler) Wordcloud(c *fiber.Ctx) error {
	metrics.AnalyticsRequests.WithLabelValues("wordcloud").Inc()

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	table, err := h.service.TermFrequencies(filter)
	if err != nil {
		return analyticsError(c, err)
	}

	timer := prometheus.NewTimer(metrics.WordcloudRenderDuration)
	var buf bytes.Buffer
	err = h.renderer.RenderPNG(&buf, table.Counts())
	timer.ObserveDuration()

	if err != nil {
		if errors.Is(err, wordcloud.ErrNoTerms) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no terms in the selected range",
			})
		}
		logger.Error("Wordcloud render failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func (h *AnalyticsHandler) Export(c *fiber.Ctx) error {
	metrics.AnalyticsRequests.WithLabelValues("export").Inc()

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(&buf, filter); err != nil {
		return analyticsError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="interacciones.csv"`)
	return c.Send(buf.Bytes())
}

// parseFilter reads start, end and companies query parameters. Dates use
// the 2006-01-02 layout and both bounds are optional.
func parseFilter(c *fiber.Ctx) (analytics.Filter, error) {
	var f analytics.Filter

	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, errors.New("start must use the YYYY-MM-DD format")
		}
		f.Start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, errors.New("end must use the YYYY-MM-DD format")
		}
		f.End = t
	}
	if raw := c.Query("companies"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				f.Companies = append(f.Companies, name)
			}
		}
	}

	return f, nil
}

func analyticsError(c *fiber.Ctx, err error) error {
	if errors.Is(err, interaction.ErrInvalidRange) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	logger.Error("Analytics request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
