package browser

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Options configures the rod driver.
type Options struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	// NavTimeout bounds navigation and document load.
	NavTimeout time.Duration
	// ActionTimeout bounds element lookup for fill/click interactions.
	ActionTimeout time.Duration
	// TypeDelay is the pause between keystrokes on masked inputs.
	TypeDelay time.Duration
}

func (o *Options) defaults() {
	if o.ViewportWidth == 0 {
		o.ViewportWidth = 1920
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = 1080
	}
	if o.NavTimeout == 0 {
		o.NavTimeout = 30 * time.Second
	}
	if o.ActionTimeout == 0 {
		o.ActionTimeout = 15 * time.Second
	}
	if o.TypeDelay == 0 {
		o.TypeDelay = 100 * time.Millisecond
	}
}

// Rod drives a single Chrome page over the DevTools protocol. The whole run
// shares this one page: the session manager authenticates on it, then the
// batch processor edits records on it, never both at once.
type Rod struct {
	opts     Options
	log      *zap.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// NewRod launches Chrome, connects and opens the shared page.
func NewRod(ctx context.Context, opts Options, log *zap.Logger) (*Rod, error) {
	opts.defaults()

	l := launcher.New().Headless(opts.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("open page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.ViewportWidth,
		Height:            opts.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		log.Warn("set viewport", zap.Error(err))
	}

	log.Debug("browser ready", zap.Bool("headless", opts.Headless))
	return &Rod{opts: opts, log: log, launcher: l, browser: b, page: page}, nil
}

// Navigate loads url and waits for the document to load.
func (r *Rod) Navigate(url string) error {
	r.log.Debug("navigate", zap.String("url", url))
	p := r.page.Timeout(r.opts.NavTimeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("load %s: %w", url, err)
	}
	return nil
}

// element finds selector within the action bound, waits for visibility and
// scrolls it into view.
func (r *Rod) element(selector string) (*rod.Element, error) {
	el, err := r.page.Timeout(r.opts.ActionTimeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	if err := el.ScrollIntoView(); err != nil {
		return nil, fmt.Errorf("scroll to %q: %w", selector, err)
	}
	return el, nil
}

// Fill replaces the element's current content with value.
func (r *Rod) Fill(selector, value string) error {
	el, err := r.element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text in %q: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	return nil
}

// Type enters value one rune at a time so input masks can re-format between
// keystrokes.
func (r *Rod) Type(selector, value string) error {
	el, err := r.element(selector)
	if err != nil {
		return err
	}
	for _, ch := range value {
		if err := el.Input(string(ch)); err != nil {
			return fmt.Errorf("type into %q: %w", selector, err)
		}
		time.Sleep(r.opts.TypeDelay)
	}
	return nil
}

// Click clicks the first element matching selector.
func (r *Rod) Click(selector string) error {
	el, err := r.element(selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

// ClickText clicks the first selector match whose text contains text.
func (r *Rod) ClickText(selector, text string) error {
	el, err := r.page.Timeout(r.opts.ActionTimeout).ElementR(selector, regexp.QuoteMeta(text))
	if err != nil {
		return fmt.Errorf("find %q with text %q: %w", selector, text, err)
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll to %q: %w", text, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", text, err)
	}
	return nil
}

// ClickX clicks the first element matching the XPath expression.
func (r *Rod) ClickX(xpath string) error {
	el, err := r.page.Timeout(r.opts.ActionTimeout).ElementX(xpath)
	if err != nil {
		return fmt.Errorf("find xpath %q: %w", xpath, err)
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll to xpath %q: %w", xpath, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click xpath %q: %w", xpath, err)
	}
	return nil
}

// WaitVisible reports whether selector became visible within timeout.
func (r *Rod) WaitVisible(selector string, timeout time.Duration) bool {
	el, err := r.page.Timeout(timeout).Element(selector)
	if err != nil {
		return false
	}
	return el.WaitVisible() == nil
}

// WaitVisibleText reports whether a selector match containing text became
// visible within timeout.
func (r *Rod) WaitVisibleText(selector, text string, timeout time.Duration) bool {
	el, err := r.page.Timeout(timeout).ElementR(selector, regexp.QuoteMeta(text))
	if err != nil {
		return false
	}
	return el.WaitVisible() == nil
}

// AcceptNextDialog arms a one-shot handler for the next native dialog. The
// handler has to be in place before the click that raises the dialog or the
// acceptance races the dialog itself.
func (r *Rod) AcceptNextDialog() {
	wait, handle := r.page.HandleDialog()
	go func() {
		info := wait()
		r.log.Debug("dialog raised", zap.String("message", info.Message))
		if err := handle(&proto.PageHandleJavaScriptDialog{Accept: true}); err != nil {
			r.log.Warn("accept dialog", zap.Error(err))
		}
	}()
}

// Cookies returns the cookies of the current browsing context.
func (r *Rod) Cookies() ([]Cookie, error) {
	raw, err := r.page.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return cookies, nil
}

// SetCookie installs a cookie into the browsing context.
func (r *Rod) SetCookie(c Cookie) error {
	param := &proto.NetworkCookieParam{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		HTTPOnly: c.HTTPOnly,
		Secure:   c.Secure,
	}
	if c.Expires != 0 {
		param.Expires = proto.TimeSinceEpoch(c.Expires)
	}
	if c.SameSite != "" {
		param.SameSite = proto.NetworkCookieSameSite(c.SameSite)
	}
	if err := r.page.SetCookies([]*proto.NetworkCookieParam{param}); err != nil {
		return fmt.Errorf("install cookie %s: %w", c.Name, err)
	}
	return nil
}

// Close shuts the page and browser down and cleans the launcher up.
func (r *Rod) Close() error {
	if r.page != nil {
		_ = r.page.Close()
	}
	var err error
	if r.browser != nil {
		err = r.browser.Close()
	}
	if r.launcher != nil {
		r.launcher.Cleanup()
	}
	return err
}

var _ Driver = (*Rod)(nil)
