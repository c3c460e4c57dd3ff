package batch

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alunosync/internal/records"
	"alunosync/internal/report"
)

// RecordProcessor is what the runner drives; Processor is the production
// implementation.
type RecordProcessor interface {
	Process(records.Student) report.Outcome
}

// Runner walks the ordered batch, one record at a time, against the single
// shared session. A per-record outcome never stops the loop; only fatal
// startup conditions (handled before Run is called) abort a run.
type Runner struct {
	proc   RecordProcessor
	settle time.Duration
	log    *zap.Logger
}

// NewRunner builds a runner. settle is the pause between records that lets
// the remote UI return to a navigable state before the next search.
func NewRunner(proc RecordProcessor, settle time.Duration, log *zap.Logger) *Runner {
	return &Runner{proc: proc, settle: settle, log: log}
}

// Run processes every student in source order and always yields a finalized
// report, even when the loop dies mid-batch.
func (r *Runner) Run(students []records.Student) (rep *report.Report) {
	agg := report.NewAggregator(uuid.NewString())
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("batch aborted mid-run", zap.Any("panic", p))
		}
		rep = agg.Finalize()
	}()

	r.log.Info("starting batch", zap.Int("total", len(students)))
	for i, st := range students {
		r.log.Info("processing student",
			zap.Int("index", i+1),
			zap.Int("total", len(students)),
			zap.String("name", st.Name))

		agg.Record(st.Name, r.proc.Process(st))

		if i < len(students)-1 && r.settle > 0 {
			time.Sleep(r.settle)
		}
	}
	return nil // rep is set by the deferred finalize
}
