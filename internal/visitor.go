package internal

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tripmux/tripmux/pkg/cookie"
)

// Default visitor cookie configuration.
const (
	defaultVisitorCookieName = "__tmv"
	defaultVisitorMaxAge     = 86400 * 365
)

// VisitorManager identifies anonymous visitors with a random UUID kept in
// a cookie. The cookie is signed when the cookie manager has a secret and
// plain otherwise. Preferences are stored per visitor ID, the server-side
// counterpart of browser storage scoped to one origin.
type VisitorManager struct {
	cookies    *cookie.Manager
	logger     *slog.Logger
	cookieName string
	maxAge     int
}

// VisitorOption configures the VisitorManager.
type VisitorOption func(*VisitorManager)

func NewVisitorManager(cookies *cookie.Manager, opts ...VisitorOption) *VisitorManager {
	vm := &VisitorManager{
		cookies:    cookies,
		logger:     slog.New(slog.DiscardHandler),
		cookieName: defaultVisitorCookieName,
		maxAge:     defaultVisitorMaxAge,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// WithVisitorCookieName sets the cookie name. Default: "__tmv".
func WithVisitorCookieName(name string) VisitorOption {
	return func(vm *VisitorManager) {
		if name != "" {
			vm.cookieName = name
		}
	}
}

// WithVisitorMaxAge sets the cookie lifetime in seconds. Default: one year.
func WithVisitorMaxAge(seconds int) VisitorOption {
	return func(vm *VisitorManager) {
		if seconds > 0 {
			vm.maxAge = seconds
		}
	}
}

// SetLogger replaces the logger. The App injects its own.
func (vm *VisitorManager) SetLogger(l *slog.Logger) {
	if l != nil {
		vm.logger = l
	}
}

// CookieName returns the name of the visitor cookie.
func (vm *VisitorManager) CookieName() string { return vm.cookieName }

// Resolve returns the visitor ID carried by r. When there is none, or the
// cookie is malformed or tampered with, a new ID is issued and written to
// w; issued is then true.
func (vm *VisitorManager) Resolve(w http.ResponseWriter, r *http.Request) (id string, issued bool) {
	if id, ok := vm.read(r); ok {
		return id, false
	}

	id = uuid.NewString()
	if vm.cookies.CanSign() {
		if err := vm.cookies.SetSigned(w, vm.cookieName, id, vm.maxAge); err != nil {
			vm.logger.ErrorContext(r.Context(), "set visitor cookie", slog.Any("error", err))
		}
	} else {
		vm.cookies.Set(w, vm.cookieName, id, vm.maxAge)
	}
	return id, true
}

// Forget expires the visitor cookie.
func (vm *VisitorManager) Forget(w http.ResponseWriter) {
	vm.cookies.Delete(w, vm.cookieName)
}

func (vm *VisitorManager) read(r *http.Request) (string, bool) {
	var (
		raw string
		err error
	)
	if vm.cookies.CanSign() {
		raw, err = vm.cookies.GetSigned(r, vm.cookieName)
	} else {
		raw, err = vm.cookies.Get(r, vm.cookieName)
	}
	if err != nil {
		return "", false
	}
	parsed, err := uuid.Parse(raw)
	if err != nil || parsed.Version() != 4 {
		vm.logger.WarnContext(r.Context(), "rejected visitor cookie")
		return "", false
	}
	return parsed.String(), true
}
