// Package analytics builds the dashboard views over the interaction
// log: filtered records, aggregate counts, ranked term tables and the
// word-cloud input. Every view is computed fresh from the log on
// request; nothing here is cached or persisted.
package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/interaction"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/textproc"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

// InteractionSource is the slice of the log the service reads.
type InteractionSource interface {
	Query(start, end time.Time, companies map[string]bool) ([]interaction.Record, error)
}

// Filter restricts views to a date range and company set. Zero times
// leave the range open; an empty company list matches all.
type Filter struct {
	Start     time.Time
	End       time.Time
	Companies []string
}

func (f Filter) companySet() map[string]bool {
	if len(f.Companies) == 0 {
		return nil
	}
	set := make(map[string]bool, len(f.Companies))
	for _, c := range f.Companies {
		set[c] = true
	}
	return set
}

// DayCount is one point of the daily interaction time series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary carries the aggregate counts behind the dashboard charts.
type Summary struct {
	Total             int                       `json:"total"`
	ByFeedback        map[string]int            `json:"by_feedback"`
	ByCompanyFeedback map[string]map[string]int `json:"by_company_feedback"`
	Daily             []DayCount                `json:"daily"`
}

type Service struct {
	source    InteractionSource
	stopwords textproc.StopwordSet
}

func NewService(source InteractionSource, stopwords textproc.StopwordSet) *Service {
	return &Service{source: source, stopwords: stopwords}
}

// Interactions returns the filtered records in log order.
func (s *Service) Interactions(f Filter) ([]interaction.Record, error) {
	return s.source.Query(f.Start, f.End, f.companySet())
}

// Summarize computes the feedback bar chart, the per-company stacked
// feedback chart and the daily time series for the filtered subset.
func (s *Service) Summarize(f Filter) (*Summary, error) {
	records, err := s.Interactions(f)
	if err != nil {
		return nil, err
	}

	byCompanyFeedback := make(map[string]map[string]int)
	for _, rec := range records {
		if byCompanyFeedback[rec.Company] == nil {
			byCompanyFeedback[rec.Company] = make(map[string]int)
		}
		byCompanyFeedback[rec.Company][rec.Feedback]++
	}

	dayCounts := interaction.AggregateBy(records, interaction.ByDay)
	daily := make([]DayCount, 0, len(dayCounts))
	for date, count := range dayCounts {
		daily = append(daily, DayCount{Date: date, Count: count})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	logger.Debug("Analytics summary computed",
		zap.Int("records", len(records)),
		zap.Int("days", len(daily)),
	)

	return &Summary{
		Total:             len(records),
		ByFeedback:        interaction.AggregateBy(records, interaction.ByFeedback),
		ByCompanyFeedback: byCompanyFeedback,
		Daily:             daily,
	}, nil
}

// TermFrequencies runs the filtered user messages through the text
// pipeline (normalize, drop stopwords, count) and returns the table.
// Built fresh on every call.
func (s *Service) TermFrequencies(f Filter) (*textproc.Table, error) {
	records, err := s.Interactions(f)
	if err != nil {
		return nil, err
	}

	var tokens []string
	for _, rec := range records {
		normalized := textproc.Normalize(rec.User)
		tokens = append(tokens, textproc.Filter(normalized, s.stopwords)...)
	}
	return textproc.Count(tokens), nil
}

// TopTerms returns the k highest-frequency terms of the filtered subset.
func (s *Service) TopTerms(f Filter, k int) ([]textproc.Entry, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top-k must be positive, got %d", k)
	}
	table, err := s.TermFrequencies(f)
	if err != nil {
		return nil, err
	}
	return table.TopK(k), nil
}

// ExportCSV writes the filtered subset in the log's own CSV format.
func (s *Service) ExportCSV(w io.Writer, f Filter) error {
	records, err := s.Interactions(f)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Company", "User", "Chatbot", "Feedback"}); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Timestamp.Format(interaction.TimeLayout),
			rec.Company,
			rec.User,
			rec.Chatbot,
			rec.Feedback,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
