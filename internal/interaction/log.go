// Package interaction persists chat turns to the append-only CSV log
// and answers filtered queries over it.
package interaction

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

// ErrInvalidRange is returned when a query's start date falls after its
// end date.
var ErrInvalidRange = errors.New("start date after end date")

// TimeLayout is the timestamp format used in the log file.
const TimeLayout = "2006-01-02 15:04:05"

var header = []string{"Timestamp", "Company", "User", "Chatbot", "Feedback"}

// Record is one logged chat turn.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Company   string    `json:"company"`
	User      string    `json:"user"`
	Chatbot   string    `json:"chatbot"`
	Feedback  string    `json:"feedback"`
}

// Log is the append-only CSV interaction log. Rows are never mutated or
// deleted; insertion order is chronological.
type Log struct {
	mu   sync.Mutex
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one row, creating the file with its header on first
// write. Storage failures surface directly to the caller.
func (l *Log) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	info, err := os.Stat(l.path)
	isNew := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening interaction log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing log header: %w", err)
		}
	}

	row := []string{
		rec.Timestamp.Format(TimeLayout),
		rec.Company,
		rec.User,
		rec.Chatbot,
		rec.Feedback,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing log row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing interaction log: %w", err)
	}

	logger.Debug("Interaction logged",
		zap.String("company", rec.Company),
		zap.String("feedback", rec.Feedback),
	)
	return nil
}

// Records reads the whole log in insertion order. Rows with malformed
// timestamps are skipped, matching how the analytics view drops
// unparseable dates. A missing file is an empty log.
func (l *Log) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening interaction log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading interaction log: %w", err)
	}

	var records []Record
	for i, row := range rows {
		if i == 0 && row[0] == header[0] {
			continue
		}
		ts, err := time.ParseInLocation(TimeLayout, row[0], time.Local)
		if err != nil {
			logger.Warn("Skipping log row with malformed timestamp",
				zap.Int("row", i),
				zap.String("value", row[0]),
			)
			continue
		}
		records = append(records, Record{
			Timestamp: ts,
			Company:   row[1],
			User:      row[2],
			Chatbot:   row[3],
			Feedback:  row[4],
		})
	}
	return records, nil
}

// Query returns records whose timestamp date falls inside the inclusive
// [start, end] range and whose company is in the given set. A zero
// start or end leaves that side unbounded; a nil or empty company set
// matches every company. Dates are compared as calendar days, ignoring
// each value's location, so bounds parsed in UTC match records stamped
// in local time.
func (l *Log) Query(start, end time.Time, companies map[string]bool) ([]Record, error) {
	startDay, endDay := dayOf(start), dayOf(end)
	if !start.IsZero() && !end.IsZero() && startDay > endDay {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, startDay, endDay)
	}

	records, err := l.Records()
	if err != nil {
		return nil, err
	}

	var out []Record
	for _, rec := range records {
		day := dayOf(rec.Timestamp)
		if !start.IsZero() && day < startDay {
			continue
		}
		if !end.IsZero() && day > endDay {
			continue
		}
		if len(companies) > 0 && !companies[rec.Company] {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func dayOf(t time.Time) string {
	return t.Format("2006-01-02")
}
