// Package browserfake provides an in-memory browser.Driver for tests. It
// records every interaction and answers visibility checks from configured
// page state, so session and batch logic can run without a browser.
package browserfake

import (
	"time"

	"alunosync/internal/browser"
)

// Call is one recorded driver interaction.
type Call struct {
	Op       string // navigate, fill, type, click, clicktext, clickx, waitvisible, waitvisibletext
	Selector string
	Value    string // fill/type value, clicked text, or navigated URL
}

// Fake implements browser.Driver against scripted state.
//
// Visibility defaults to "everything is visible": WaitVisible answers true
// unless the selector is in Hidden, WaitVisibleText answers VisibleTexts
// unless WaitVisibleTextFunc overrides it. Interactions succeed unless an
// entry in FailOn matches, keyed "op:target" (e.g. "clicktext:SALVAR") or
// just "op".
type Fake struct {
	Calls []Call

	// VisibleTexts maps text -> visible for WaitVisibleText checks.
	VisibleTexts map[string]bool
	// Hidden marks selectors that WaitVisible reports as not visible.
	Hidden map[string]bool
	// FailOn maps "op:target" or "op" to the error that interaction returns.
	FailOn map[string]error

	// WaitVisibleTextFunc, when set, overrides the VisibleTexts lookup.
	WaitVisibleTextFunc func(selector, text string) bool

	// CookieJar is what Cookies returns; Installed records SetCookie calls.
	CookieJar []browser.Cookie
	Installed []browser.Cookie

	// DialogsArmed counts AcceptNextDialog calls.
	DialogsArmed int
}

var _ browser.Driver = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		VisibleTexts: make(map[string]bool),
		Hidden:       make(map[string]bool),
		FailOn:       make(map[string]error),
	}
}

func (f *Fake) record(op, selector, value string) {
	f.Calls = append(f.Calls, Call{Op: op, Selector: selector, Value: value})
}

func (f *Fake) failure(op, target string) error {
	if err, ok := f.FailOn[op+":"+target]; ok {
		return err
	}
	return f.FailOn[op]
}

func (f *Fake) Navigate(url string) error {
	f.record("navigate", "", url)
	return f.failure("navigate", url)
}

func (f *Fake) Fill(selector, value string) error {
	f.record("fill", selector, value)
	return f.failure("fill", selector)
}

func (f *Fake) Type(selector, value string) error {
	f.record("type", selector, value)
	return f.failure("type", selector)
}

func (f *Fake) Click(selector string) error {
	f.record("click", selector, "")
	return f.failure("click", selector)
}

func (f *Fake) ClickText(selector, text string) error {
	f.record("clicktext", selector, text)
	return f.failure("clicktext", text)
}

func (f *Fake) ClickX(xpath string) error {
	f.record("clickx", xpath, "")
	return f.failure("clickx", xpath)
}

func (f *Fake) WaitVisible(selector string, _ time.Duration) bool {
	f.record("waitvisible", selector, "")
	return !f.Hidden[selector]
}

func (f *Fake) WaitVisibleText(selector, text string, _ time.Duration) bool {
	f.record("waitvisibletext", selector, text)
	if f.WaitVisibleTextFunc != nil {
		return f.WaitVisibleTextFunc(selector, text)
	}
	return f.VisibleTexts[text]
}

func (f *Fake) AcceptNextDialog() {
	f.DialogsArmed++
}

func (f *Fake) Cookies() ([]browser.Cookie, error) {
	if err := f.failure("cookies", ""); err != nil {
		return nil, err
	}
	return f.CookieJar, nil
}

func (f *Fake) SetCookie(c browser.Cookie) error {
	f.Installed = append(f.Installed, c)
	return f.failure("setcookie", c.Name)
}

func (f *Fake) Close() error { return nil }

// CallsTo returns the recorded calls for one op, in order.
func (f *Fake) CallsTo(op string) []Call {
	var out []Call
	for _, c := range f.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
