// Package pages holds the selector knowledge for the target application and
// the page flows built on it. Every flow is a plain function taking the
// browser capability; selectors live here and nowhere else.
package pages

import (
	"fmt"
	"strings"
	"time"

	"alunosync/internal/browser"
)

// Login portal.
const (
	accessText  = "Acessar o Sistema"
	accessSel   = "a, button"
	selEmail    = `input[name="email"]`
	selPassword = `input[name="password"]`
	selSubmit   = `button[type="submit"]`
	submitText  = "ENTRAR"
)

// Authenticated landing view. The heading is the only element that reliably
// marks a live session.
const (
	dashboardPath    = "/dashboard"
	dashboardHeading = "h5"
	dashboardText    = "Matriculados"
)

// Student listing and edit form.
const (
	studentsPath    = "/dashboard/turmas/alunos"
	selSearch       = `input[type="search"]`
	selNameSpan     = "span.whitespace-normal"
	selEditMenuItem = "a.dropdown-item"
	editMenuText    = "Alterar o Cadastro"
	saveText        = "Salvar"
	confirmSel      = "button"
	confirmText     = "SALVAR"
)

// Bounds for the individual waits, tuned against the live application.
const (
	visibleTimeout = 10 * time.Second
	locateTimeout  = 5 * time.Second
	fieldTimeout   = 15 * time.Second
)

// DashboardURL returns the authenticated landing view address.
func DashboardURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + dashboardPath
}

// OpenLoginPortal navigates to the public landing page and waits for the
// entry link that reveals the login form.
func OpenLoginPortal(d browser.Driver, baseURL string) error {
	if err := d.Navigate(baseURL); err != nil {
		return fmt.Errorf("open login portal: %w", err)
	}
	if !d.WaitVisibleText(accessSel, accessText, visibleTimeout) {
		return fmt.Errorf("login portal: %q never became visible", accessText)
	}
	return nil
}

// RevealLoginForm clicks through to the credential form.
func RevealLoginForm(d browser.Driver) error {
	if err := d.ClickText(accessSel, accessText); err != nil {
		return fmt.Errorf("reveal login form: %w", err)
	}
	if !d.WaitVisible(selEmail, visibleTimeout) || !d.WaitVisible(selPassword, visibleTimeout) {
		return fmt.Errorf("login form inputs never became visible")
	}
	return nil
}

// SubmitCredentials fills the revealed form and submits it.
func SubmitCredentials(d browser.Driver, email, senha string) error {
	if err := d.Fill(selEmail, email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := d.Fill(selPassword, senha); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := d.ClickText(selSubmit, submitText); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	return nil
}

// DashboardVisible reports whether the authenticated landing view loaded
// within the bound.
func DashboardVisible(d browser.Driver) bool {
	return d.WaitVisibleText(dashboardHeading, dashboardText, visibleTimeout)
}

// OpenStudents navigates to the record listing and waits for its search box.
func OpenStudents(d browser.Driver, baseURL string) error {
	url := strings.TrimRight(baseURL, "/") + studentsPath
	if err := d.Navigate(url); err != nil {
		return fmt.Errorf("open students page: %w", err)
	}
	if !d.WaitVisible(selSearch, visibleTimeout) {
		return fmt.Errorf("students page: search input never became visible")
	}
	return nil
}

// Search types the student name into the listing filter.
func Search(d browser.Driver, name string) error {
	if err := d.Fill(selSearch, name); err != nil {
		return fmt.Errorf("search %q: %w", name, err)
	}
	return nil
}

// StudentVisible reports whether the searched name showed up in the result
// list within the locate bound.
func StudentVisible(d browser.Driver, name string) bool {
	return d.WaitVisibleText(selNameSpan, name, locateTimeout)
}

// OpenRowActions opens the gear dropdown on the row holding name.
func OpenRowActions(d browser.Driver, name string) error {
	if err := d.ClickX(rowActionsXPath(name)); err != nil {
		return fmt.Errorf("open row actions for %q: %w", name, err)
	}
	if !d.WaitVisibleText(selEditMenuItem, editMenuText, visibleTimeout) {
		return fmt.Errorf("row actions for %q: edit entry never became visible", name)
	}
	return nil
}

// OpenEditForm follows the edit entry into the record form.
func OpenEditForm(d browser.Driver) error {
	if err := d.ClickText(selEditMenuItem, editMenuText); err != nil {
		return fmt.Errorf("open edit form: %w", err)
	}
	return nil
}

// FieldSelector returns the form input for one of the code fields. The field
// name doubles as the input's name attribute.
func FieldSelector(field string) string {
	return fmt.Sprintf("input[name=%q], textarea[name=%q]", field, field)
}

// FillField writes a normalized value into the named input. Masked inputs
// are typed rune by rune so the mask can re-format between keystrokes.
func FillField(d browser.Driver, field, value string, masked bool) error {
	sel := FieldSelector(field)
	if !d.WaitVisible(sel, fieldTimeout) {
		return fmt.Errorf("field %s never became visible", field)
	}
	if masked {
		if err := d.Type(sel, value); err != nil {
			return fmt.Errorf("type field %s: %w", field, err)
		}
		return nil
	}
	if err := d.Fill(sel, value); err != nil {
		return fmt.Errorf("fill field %s: %w", field, err)
	}
	return nil
}

// Save submits the edit form.
func Save(d browser.Driver) error {
	if err := d.ClickText(selSubmit, saveText); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// ConfirmSave accepts the native confirmation the save raises. The dialog
// handler is armed before the confirming click so the acceptance cannot
// race the dialog.
func ConfirmSave(d browser.Driver) error {
	d.AcceptNextDialog()
	if err := d.ClickText(confirmSel, confirmText); err != nil {
		return fmt.Errorf("confirm save: %w", err)
	}
	return nil
}

// rowActionsXPath walks from the span holding the student name up to its
// table row and back down to the row's dropdown toggle.
func rowActionsXPath(name string) string {
	return fmt.Sprintf(
		`//span[contains(@class,"whitespace-normal")][contains(normalize-space(.),%s)]/ancestor::tr//button[@data-toggle="dropdown"]`,
		xpathString(name),
	)
}

// xpathString quotes s as an XPath string literal. Names with double quotes
// need the concat() form, XPath has no escaping.
func xpathString(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		quoted = append(quoted, `"`+p+`"`)
	}
	return "concat(" + strings.Join(quoted, ",") + ")"
}
