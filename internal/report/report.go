// Package report classifies per-record outcomes into the three result
// buckets, accumulates them into the final batch report and writes the two
// plain-text artifacts operators consume after a run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Report file names are a fixed convention shared with the operators who
// pick them up after a run.
const (
	NotFoundFile = "alunos_nao_encontrados.txt"
	ErrorsFile   = "alunos_erros_processamento.txt"
)

// Status tags a single record's terminal result.
type Status int

const (
	StatusSuccess Status = iota
	StatusNotFound
	StatusError
)

// Outcome is the terminal result of processing one student record. Exactly
// one is produced per record; it is never retried within a run.
type Outcome struct {
	Status  Status
	Message string
}

// Failure wraps an interaction error into an error outcome.
func Failure(err error) Outcome {
	return Outcome{Status: StatusError, Message: err.Error()}
}

// ErrorEntry pairs a student name with the failure that stopped its record.
type ErrorEntry struct {
	Name    string
	Message string
}

// Report is the aggregate result of one batch run. The three buckets
// partition the processed records: Success + len(NotFound) + len(Errors)
// always equals Total.
type Report struct {
	RunID    string
	Total    int
	Success  int
	NotFound []string
	Errors   []ErrorEntry
	Started  time.Time
	Elapsed  time.Duration
}

// Aggregator builds a Report incrementally. Not safe for concurrent use;
// the batch is strictly sequential so it never needs to be.
type Aggregator struct {
	runID    string
	started  time.Time
	total    int
	success  int
	notFound []string
	errs     []ErrorEntry
}

func NewAggregator(runID string) *Aggregator {
	return &Aggregator{runID: runID, started: time.Now()}
}

// Record files one outcome into its bucket. Every processed record passes
// through here exactly once, in source order.
func (a *Aggregator) Record(name string, o Outcome) {
	a.total++
	switch o.Status {
	case StatusSuccess:
		a.success++
	case StatusNotFound:
		a.notFound = append(a.notFound, name)
	case StatusError:
		a.errs = append(a.errs, ErrorEntry{Name: name, Message: o.Message})
	}
}

// Finalize renders the aggregate. Call once, after the last Record.
func (a *Aggregator) Finalize() *Report {
	return &Report{
		RunID:    a.runID,
		Total:    a.total,
		Success:  a.success,
		NotFound: a.notFound,
		Errors:   a.errs,
		Started:  a.started,
		Elapsed:  time.Since(a.started),
	}
}

// Write emits the report files under dir. Each file is written only when its
// bucket is non-empty, and a failure on one never blocks the other.
func (r *Report) Write(dir string, log *zap.Logger) {
	if len(r.NotFound) > 0 {
		writeListing(filepath.Join(dir, NotFoundFile), r.NotFound, log)
	}
	if len(r.Errors) > 0 {
		lines := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			lines = append(lines, fmt.Sprintf("%s: %s", e.Name, e.Message))
		}
		writeListing(filepath.Join(dir, ErrorsFile), lines, log)
	}
}

func writeListing(path string, lines []string, log *zap.Logger) {
	body := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		log.Error("write report file", zap.String("path", path), zap.Error(err))
		return
	}
	log.Info("report file written", zap.String("path", path), zap.Int("entries", len(lines)))
}

// LogSummary prints the console summary the operator reads after a run.
func (r *Report) LogSummary(log *zap.Logger) {
	log.Info("batch finished",
		zap.String("run_id", r.RunID),
		zap.Int("total", r.Total),
		zap.Int("success", r.Success),
		zap.Int("not_found", len(r.NotFound)),
		zap.Int("errors", len(r.Errors)),
		zap.Duration("elapsed", r.Elapsed),
	)
}
