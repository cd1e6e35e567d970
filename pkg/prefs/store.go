package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/i18n"
	"github.com/tripmux/tripmux/pkg/kv"
)

// Persisted keys.
const (
	KeyLanguage     = "tripmux_lang"
	KeyCurrency     = "tripmux.currency"
	KeyAutoResolved = "tripmux.currency.autoResolved"
)

// State of the currency resolution machine.
type State int

const (
	Idle State = iota
	ResolvingAuto
)

func (s State) String() string {
	if s == ResolvingAuto {
		return "resolving_auto"
	}
	return "idle"
}

// Snapshot is the full preference state handed to listeners.
type Snapshot struct {
	Language string
	Mode     currency.Mode
	Currency currency.Code
	// Resolving marks the pending notification of a switch to Auto.
	// Currency still holds the previous value.
	Resolving bool
}

// Listener observes committed changes.
type Listener func(Snapshot)

type subscription struct {
	fn Listener
	id uint64
}

// Store is safe for concurrent use.
type Store struct {
	storage   kv.Store
	suggester currency.Suggester
	dict      *i18n.I18n
	detector  Detector
	document  Document
	logger    *slog.Logger

	// initMu serializes Initialize so a concurrent second call waits
	// for the first and then does nothing.
	initMu sync.Mutex

	// writeMu is held from a state change until it is persisted, so
	// storage sees mutations in the order they were applied.
	writeMu sync.Mutex

	mu          sync.RWMutex
	lang        string
	mode        currency.Mode
	effective   currency.Code
	state       State
	generation  uint64
	initialized bool

	subMu  sync.Mutex
	subs   []subscription
	nextID uint64
}

// New creates a Store holding defaults until Initialize runs.
func New(storage kv.Store, suggester currency.Suggester, dict *i18n.I18n, opts ...Option) *Store {
	s := &Store{
		storage:   storage,
		suggester: suggester,
		dict:      dict,
		logger:    slog.New(slog.DiscardHandler),
		lang:      dict.DefaultLanguage(),
		mode:      currency.Auto,
		effective: currency.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.detector == nil {
		s.detector = HeuristicDetector(dict)
	}
	return s
}

// Initialize resolves language and currency, applies the language to the
// document and notifies listeners once. Later calls do nothing.
func (s *Store) Initialize(ctx context.Context, env Environment) {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.mu.RLock()
	done := s.initialized
	s.mu.RUnlock()
	if done {
		return
	}

	s.writeMu.Lock()
	lang := s.resolveLanguage(ctx, env)

	mode, ok := currency.ParseMode(s.read(ctx, KeyCurrency))
	if !ok {
		mode = currency.Auto
		s.write(ctx, KeyCurrency, string(mode))
	}

	effective, concrete := mode.Code()
	if !concrete {
		effective = s.suggest(ctx)
		// informational only, never read back as the effective currency
		s.write(ctx, KeyAutoResolved, string(effective))
	}

	s.mu.Lock()
	s.lang = lang
	s.mode = mode
	s.effective = effective
	s.state = Idle
	s.initialized = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.logger.DebugContext(ctx, "preferences initialized",
		slog.String("language", lang),
		slog.String("mode", string(mode)),
		slog.String("currency", string(effective)),
	)

	s.applyDocument(lang)
	s.notify(snap)
}

// resolveLanguage picks the URL override, then the stored override, then
// the heuristic. Only the URL override is persisted.
func (s *Store) resolveLanguage(ctx context.Context, env Environment) string {
	if s.supported(env.QueryLanguage) {
		s.write(ctx, KeyLanguage, env.QueryLanguage)
		return env.QueryLanguage
	}
	if stored := s.read(ctx, KeyLanguage); s.supported(stored) {
		return stored
	}
	if guess := s.detector.Detect(env); s.supported(guess) {
		return guess
	}
	return s.dict.DefaultLanguage()
}

// SetLanguage switches language and persists it as the visitor's override.
// Unsupported languages are logged and ignored.
func (s *Store) SetLanguage(ctx context.Context, lang string) {
	if !s.supported(lang) {
		s.logger.WarnContext(ctx, "unsupported language ignored", slog.String("language", lang))
		return
	}

	s.writeMu.Lock()
	s.mu.Lock()
	s.lang = lang
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.write(ctx, KeyLanguage, lang)
	s.writeMu.Unlock()

	s.applyDocument(lang)
	s.notify(snap)
}

// SetCurrencyMode persists mode and re-derives the effective currency.
// A concrete code applies at once. Auto returns after the suggestion has
// been resolved; listeners first get a Resolving snapshot, then the final one.
// If another mode is set while Auto is resolving, the late suggestion is dropped.
func (s *Store) SetCurrencyMode(ctx context.Context, mode currency.Mode) {
	if !mode.Valid() {
		s.logger.WarnContext(ctx, "invalid currency mode ignored", slog.String("mode", string(mode)))
		return
	}

	code, concrete := mode.Code()

	s.writeMu.Lock()
	s.mu.Lock()
	s.mode = mode
	s.generation++
	gen := s.generation
	if concrete {
		s.effective = code
		s.state = Idle
	} else {
		s.state = ResolvingAuto
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, KeyCurrency, string(mode))
	if concrete {
		s.remove(ctx, KeyAutoResolved)
	}
	s.writeMu.Unlock()

	s.notify(snap)
	if concrete {
		return
	}

	resolved := s.suggest(context.WithoutCancel(ctx))

	s.writeMu.Lock()
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		s.writeMu.Unlock()
		s.logger.DebugContext(ctx, "stale currency resolution dropped", slog.String("currency", string(resolved)))
		return
	}
	s.effective = resolved
	s.state = Idle
	snap = s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, KeyAutoResolved, string(resolved))
	s.writeMu.Unlock()

	s.notify(snap)
}

// OnChange registers fn and returns a function removing it.
// Listeners run in registration order after each committed change.
func (s *Store) OnChange(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		s.call(sub, snap)
	}
}

// call runs one listener; a panic is logged and does not reach the others.
func (s *Store) call(sub subscription, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("preference listener failed",
				slog.Uint64("listener", sub.id),
				slog.Any("panic", r),
			)
		}
	}()
	sub.fn(snap)
}

// Language returns the active language.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Mode returns the selected currency mode.
func (s *Store) Mode() currency.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Currency returns the effective currency. It is never Auto.
func (s *Store) Currency() currency.Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effective
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Languages lists the selectable languages.
func (s *Store) Languages() []string {
	return s.dict.Languages()
}

// Translate looks key up in the active language, then the default one,
// and returns key itself when both miss.
func (s *Store) Translate(key string, vars ...i18n.M) string {
	return s.dict.T(s.Language(), key, vars...)
}

// TranslatePlural is Translate for keys with one/other forms.
func (s *Store) TranslatePlural(key string, n int, vars ...i18n.M) string {
	return s.dict.Tn(s.Language(), key, n, vars...)
}

// Translator returns a translator bound to the active language.
func (s *Store) Translator() *i18n.Translator {
	return i18n.NewTranslator(s.dict, s.Language())
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Language:  s.lang,
		Mode:      s.mode,
		Currency:  s.effective,
		Resolving: s.state == ResolvingAuto,
	}
}

func (s *Store) supported(lang string) bool {
	return lang != "" && s.dict.Has(lang)
}

func (s *Store) suggest(ctx context.Context) currency.Code {
	code := s.suggester.Suggest(ctx)
	if !code.Valid() {
		s.logger.WarnContext(ctx, "suggester returned unsupported currency",
			slog.String("currency", string(code)),
		)
		return currency.Default
	}
	return code
}

func (s *Store) applyDocument(lang string) {
	if s.document != nil {
		s.document.SetLang(lang)
	}
}

// read treats every storage failure as a missing value.
func (s *Store) read(ctx context.Context, key string) string {
	v, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.WarnContext(ctx, "preference read failed", slog.String("key", key), slog.Any("error", err))
		}
		return ""
	}
	return v
}

func (s *Store) write(ctx context.Context, key, value string) {
	if err := s.storage.Set(ctx, key, value); err != nil {
		s.logger.WarnContext(ctx, "preference write failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.storage.Remove(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "preference remove failed", slog.String("key", key), slog.Any("error", err))
	}
}

// String is used in debug logs.
func (s Snapshot) String() string {
	return fmt.Sprintf("lang=%s mode=%s currency=%s resolving=%t", s.Language, s.Mode, s.Currency, s.Resolving)
}
