// Package batch runs the reconciliation: a processor executing the
// per-record machine and a runner walking the whole source in order.
package batch

import (
	"fmt"

	"go.uber.org/zap"

	"alunosync/internal/browser"
	"alunosync/internal/pages"
	"alunosync/internal/records"
	"alunosync/internal/report"
	"alunosync/internal/validator"
)

// Processor executes the per-record machine against the shared UI session:
// search, locate, open edit, fill validated fields, save, confirm.
type Processor struct {
	driver  browser.Driver
	baseURL string
	log     *zap.Logger
}

func NewProcessor(d browser.Driver, baseURL string, log *zap.Logger) *Processor {
	return &Processor{driver: d, baseURL: baseURL, log: log}
}

// fields lays out the edit form's code inputs in fill order. The CPF input
// is masked and has to be typed keystroke by keystroke.
var fields = []struct {
	kind   validator.Kind
	masked bool
}{
	{validator.CPF, true},
	{validator.INEP, false},
	{validator.NIS, false},
}

// Process runs one student to a terminal outcome. Whether the batch
// continues afterwards is the runner's call, never this one's; every
// interaction failure is converted to an error outcome here and nothing
// propagates out.
func (p *Processor) Process(st records.Student) report.Outcome {
	if err := pages.OpenStudents(p.driver, p.baseURL); err != nil {
		return report.Failure(err)
	}
	if err := pages.Search(p.driver, st.Name); err != nil {
		return report.Failure(err)
	}
	if !pages.StudentVisible(p.driver, st.Name) {
		p.log.Warn("student not found", zap.String("name", st.Name))
		return report.Outcome{Status: report.StatusNotFound}
	}

	p.log.Info("student located, opening edit form", zap.String("name", st.Name))
	if err := pages.OpenRowActions(p.driver, st.Name); err != nil {
		return report.Failure(err)
	}
	if err := pages.OpenEditForm(p.driver); err != nil {
		return report.Failure(err)
	}

	if err := p.fillFields(st); err != nil {
		return report.Failure(err)
	}

	if err := pages.Save(p.driver); err != nil {
		return report.Failure(err)
	}
	if err := pages.ConfirmSave(p.driver); err != nil {
		return report.Failure(err)
	}

	p.log.Info("record saved", zap.String("name", st.Name))
	return report.Outcome{Status: report.StatusSuccess}
}

// fillFields walks CPF, INEP and NIS in form order. Absent fields are
// skipped silently, invalid ones are warned about and skipped; either way
// the input keeps whatever value the form already holds.
func (p *Processor) fillFields(st records.Student) error {
	raw := map[validator.Kind]string{
		validator.CPF:  st.CPF,
		validator.INEP: st.INEP,
		validator.NIS:  st.NIS,
	}
	for _, f := range fields {
		res := validator.Normalize(f.kind, raw[f.kind])
		switch res.Status {
		case validator.Absent:
			continue
		case validator.Rejected:
			p.log.Warn("field skipped",
				zap.String("name", st.Name),
				zap.String("reason", res.Reason))
			continue
		}
		if err := pages.FillField(p.driver, string(f.kind), res.Digits, f.masked); err != nil {
			return fmt.Errorf("fill %s: %w", f.kind, err)
		}
	}
	return nil
}
