package batch

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"alunosync/internal/browser/browserfake"
	"alunosync/internal/records"
	"alunosync/internal/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// listingFake returns a fake whose student listing shows the given names and
// whose edit menu works.
func listingFake(names ...string) *browserfake.Fake {
	f := browserfake.New()
	f.VisibleTexts["Alterar o Cadastro"] = true
	for _, n := range names {
		f.VisibleTexts[n] = true
	}
	return f
}

// fieldWrites collects fill/type calls that target form code inputs, keyed
// by the field name embedded in the selector.
func fieldWrites(f *browserfake.Fake, field string) []string {
	var out []string
	for _, c := range f.Calls {
		if c.Op != "fill" && c.Op != "type" {
			continue
		}
		if strings.Contains(c.Selector, `input[name="`+field+`"]`) {
			out = append(out, c.Value)
		}
	}
	return out
}

func TestProcessor_Process(t *testing.T) {
	log := zap.NewNop()

	t.Run("success fills the normalized CPF", func(t *testing.T) {
		f := listingFake("Ana Silva")
		p := NewProcessor(f, "https://portal.example", log)

		out := p.Process(records.Student{Name: "Ana Silva", CPF: "123.456.789-00"})
		assert.Equal(t, report.StatusSuccess, out.Status)

		writes := fieldWrites(f, "CPF")
		require.Len(t, writes, 1)
		assert.Equal(t, "12345678900", writes[0])

		// Save and confirm both happened, with the dialog handler armed.
		var clicked []string
		for _, c := range f.CallsTo("clicktext") {
			clicked = append(clicked, c.Value)
		}
		assert.Contains(t, clicked, "Salvar")
		assert.Contains(t, clicked, "SALVAR")
		assert.Equal(t, 1, f.DialogsArmed)
	})

	t.Run("absent field is left untouched and still succeeds", func(t *testing.T) {
		f := listingFake("Bruno X")
		p := NewProcessor(f, "https://portal.example", log)

		out := p.Process(records.Student{Name: "Bruno X", CPF: ""})
		assert.Equal(t, report.StatusSuccess, out.Status)
		assert.Empty(t, fieldWrites(f, "CPF"))
	})

	t.Run("rejected field is skipped without a record error", func(t *testing.T) {
		f := listingFake("Carla Z")
		p := NewProcessor(f, "https://portal.example", log)

		out := p.Process(records.Student{Name: "Carla Z", CPF: "999", NIS: "123.456.789-01"})
		assert.Equal(t, report.StatusSuccess, out.Status)
		assert.Empty(t, fieldWrites(f, "CPF"))
		// The valid NIS still went in.
		assert.Equal(t, []string{"12345678901"}, fieldWrites(f, "NIS"))
	})

	t.Run("missing student is not found, nothing else is attempted", func(t *testing.T) {
		f := listingFake() // empty listing
		p := NewProcessor(f, "https://portal.example", log)

		out := p.Process(records.Student{Name: "Carla Z", CPF: "123.456.789-00"})
		assert.Equal(t, report.StatusNotFound, out.Status)
		assert.Empty(t, f.CallsTo("clickx"))
		assert.Empty(t, fieldWrites(f, "CPF"))
	})

	t.Run("confirm failure becomes an error outcome with the reason", func(t *testing.T) {
		f := listingFake("Davi W")
		f.FailOn["clicktext:SALVAR"] = errors.New("dialog button detached")
		p := NewProcessor(f, "https://portal.example", log)

		out := p.Process(records.Student{Name: "Davi W"})
		assert.Equal(t, report.StatusError, out.Status)
		assert.Contains(t, out.Message, "dialog button detached")
	})

	t.Run("navigation failure becomes an error outcome", func(t *testing.T) {
		f := browserfake.New()
		f.FailOn["navigate"] = errors.New("net::ERR_CONNECTION_RESET")
		p := NewProcessor(f, "https://portal.example", log)

		out := p.Process(records.Student{Name: "Ana Silva"})
		assert.Equal(t, report.StatusError, out.Status)
		assert.Contains(t, out.Message, "ERR_CONNECTION_RESET")
	})
}

// scriptedProcessor returns canned outcomes per name.
type scriptedProcessor struct {
	outcomes map[string]report.Outcome
	panicOn  string
	seen     []string
}

func (s *scriptedProcessor) Process(st records.Student) report.Outcome {
	s.seen = append(s.seen, st.Name)
	if st.Name == s.panicOn {
		panic("driver connection lost")
	}
	return s.outcomes[st.Name]
}

func TestRunner_Run(t *testing.T) {
	log := zap.NewNop()
	students := []records.Student{
		{Name: "Ana Silva"}, {Name: "Bruno X"}, {Name: "Carla Z"}, {Name: "Davi W"},
	}

	t.Run("continues through not-found and errors", func(t *testing.T) {
		proc := &scriptedProcessor{outcomes: map[string]report.Outcome{
			"Ana Silva": {Status: report.StatusSuccess},
			"Bruno X":   {Status: report.StatusNotFound},
			"Carla Z":   {Status: report.StatusError, Message: "save timed out"},
			"Davi W":    {Status: report.StatusSuccess},
		}}

		rep := NewRunner(proc, 0, log).Run(students)

		assert.Equal(t, []string{"Ana Silva", "Bruno X", "Carla Z", "Davi W"}, proc.seen)
		assert.Equal(t, 4, rep.Total)
		assert.Equal(t, 2, rep.Success)
		assert.Equal(t, []string{"Bruno X"}, rep.NotFound)
		require.Len(t, rep.Errors, 1)
		assert.Equal(t, "Carla Z", rep.Errors[0].Name)

		// The buckets partition the batch.
		assert.Equal(t, rep.Total, rep.Success+len(rep.NotFound)+len(rep.Errors))
		assert.NotEmpty(t, rep.RunID)
	})

	t.Run("report survives a mid-batch panic", func(t *testing.T) {
		proc := &scriptedProcessor{
			outcomes: map[string]report.Outcome{"Ana Silva": {Status: report.StatusSuccess}},
			panicOn:  "Bruno X",
		}

		rep := NewRunner(proc, 0, log).Run(students)

		require.NotNil(t, rep)
		assert.Equal(t, 1, rep.Total)
		assert.Equal(t, 1, rep.Success)
		// Records after the abort were never reached.
		assert.Equal(t, []string{"Ana Silva", "Bruno X"}, proc.seen)
	})

	t.Run("empty batch yields an empty report", func(t *testing.T) {
		proc := &scriptedProcessor{}
		rep := NewRunner(proc, 0, log).Run(nil)
		assert.Zero(t, rep.Total)
		assert.Empty(t, proc.seen)
	})
}
