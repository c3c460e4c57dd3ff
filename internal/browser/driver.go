// Package browser provides the UI automation capability the reconciliation
// core drives. The Driver interface is the only surface the rest of the code
// sees; Rod below is the one production implementation.
package browser

import "time"

// Cookie is a transport-level session cookie in the shape the credential
// file has always stored it.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Driver is the automation capability: navigation, element interaction with
// bounded waits, native dialog acceptance and cookie access. Implementations
// are not safe for concurrent use; the core is strictly sequential, so they
// never need to be.
type Driver interface {
	// Navigate loads url and waits for the document to load.
	Navigate(url string) error
	// Fill replaces the content of the first element matching selector.
	Fill(selector, value string) error
	// Type enters value rune by rune, for inputs whose mask re-formats as
	// it receives keystrokes.
	Type(selector, value string) error
	// Click clicks the first element matching selector.
	Click(selector string) error
	// ClickText clicks the first selector match whose text contains text.
	ClickText(selector, text string) error
	// ClickX clicks the first element matching the XPath expression.
	ClickX(xpath string) error
	// WaitVisible reports whether selector became visible within timeout.
	WaitVisible(selector string, timeout time.Duration) bool
	// WaitVisibleText reports whether a selector match containing text
	// became visible within timeout.
	WaitVisibleText(selector, text string, timeout time.Duration) bool
	// AcceptNextDialog arms a one-shot handler that accepts the next native
	// dialog. It must be called before the interaction that triggers it.
	AcceptNextDialog()
	// Cookies returns the cookies of the current browsing context.
	Cookies() ([]Cookie, error)
	// SetCookie installs a cookie into the browsing context.
	SetCookie(c Cookie) error
	// Close shuts the page and the underlying browser down.
	Close() error
}
