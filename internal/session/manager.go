package session

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alunosync/internal/browser"
	"alunosync/internal/pages"
)

// ErrLoginFailed signals that a fresh login did not reach the authenticated
// landing view. It is fatal: nothing is processed after it.
var ErrLoginFailed = errors.New("login did not reach the dashboard")

// sessionCookieMarkers identify the cookie the target issues on login.
var sessionCookieMarkers = []string{"laravel", "session"}

// Manager decides between reusing a stored session cookie and performing
// the full login interaction. It is the only writer of the credential store
// and the only user of the driver until the batch starts.
type Manager struct {
	driver  browser.Driver
	store   *Store
	baseURL string
	login   string
	senha   string
	log     *zap.Logger
}

func NewManager(d browser.Driver, store *Store, baseURL, login, senha string, log *zap.Logger) *Manager {
	return &Manager{
		driver:  d,
		store:   store,
		baseURL: baseURL,
		login:   login,
		senha:   senha,
		log:     log,
	}
}

// Ensure leaves the browser on the authenticated dashboard, restoring the
// stored cookie when it is still alive and logging in from scratch
// otherwise.
func (m *Manager) Ensure() error {
	if m.TryRestore() {
		return nil
	}
	return m.Login()
}

// TryRestore installs the stored cookie and checks it against the dashboard.
// A dead cookie is invalidated in the store so the next run goes straight to
// a fresh login instead of retrying it.
func (m *Manager) TryRestore() bool {
	cred, err := m.store.Load()
	if err != nil {
		m.log.Warn("credential file unreadable, falling back to login", zap.Error(err))
		return false
	}
	if cred == nil || cred.AuthCookie == nil {
		return false
	}

	m.log.Info("restoring stored session", zap.String("cookie", cred.AuthCookie.Name))
	if err := m.driver.SetCookie(*cred.AuthCookie); err != nil {
		m.log.Warn("install stored cookie", zap.Error(err))
		return false
	}
	if err := m.driver.Navigate(pages.DashboardURL(m.baseURL)); err != nil {
		m.log.Warn("navigate to dashboard", zap.Error(err))
		return false
	}
	if pages.DashboardVisible(m.driver) {
		m.log.Info("session restored")
		return true
	}

	m.log.Warn("stored session expired, invalidating cookie")
	cred.AuthCookie = nil
	if err := m.store.Save(cred); err != nil {
		m.log.Warn("persist cookie invalidation", zap.Error(err))
	}
	return false
}

// Login drives the full interactive flow and persists the freshly issued
// session cookie on success.
func (m *Manager) Login() error {
	m.log.Info("performing full login", zap.String("login", m.login))
	if err := pages.OpenLoginPortal(m.driver, m.baseURL); err != nil {
		return err
	}
	if err := pages.RevealLoginForm(m.driver); err != nil {
		return err
	}
	if err := pages.SubmitCredentials(m.driver, m.login, m.senha); err != nil {
		return err
	}
	if !pages.DashboardVisible(m.driver) {
		return fmt.Errorf("%w: check credentials for %s", ErrLoginFailed, m.login)
	}
	m.persistFreshCookie()
	m.log.Info("login complete")
	return nil
}

func (m *Manager) persistFreshCookie() {
	cookies, err := m.driver.Cookies()
	if err != nil {
		m.log.Warn("read cookies after login", zap.Error(err))
	}
	cred := &Credential{Login: m.login, Senha: m.senha, AuthCookie: findSessionCookie(cookies)}
	if cred.AuthCookie == nil {
		m.log.Warn("no session cookie found after login, next run will log in again")
	}
	if err := m.store.Save(cred); err != nil {
		m.log.Warn("persist fresh credential", zap.Error(err))
	}
}

// findSessionCookie picks the cookie issued by the target's session layer.
func findSessionCookie(cookies []browser.Cookie) *browser.Cookie {
	for i := range cookies {
		name := strings.ToLower(cookies[i].Name)
		for _, marker := range sessionCookieMarkers {
			if strings.Contains(name, marker) {
				return &cookies[i]
			}
		}
	}
	return nil
}
