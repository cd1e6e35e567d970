package prefs

import "log/slog"

// Document receives the active language, like the lang attribute of a page.
type Document interface {
	SetLang(lang string)
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithDocument registers the document whose language follows the store.
func WithDocument(d Document) Option {
	return func(s *Store) {
		s.document = d
	}
}

// WithDetector replaces the heuristic language detector.
func WithDetector(d Detector) Option {
	return func(s *Store) {
		s.detector = d
	}
}
