package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripmux/tripmux/locales"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/i18n"
	"github.com/tripmux/tripmux/pkg/kv"
	"github.com/tripmux/tripmux/pkg/logger"
	"github.com/tripmux/tripmux/pkg/prefs"
	"github.com/tripmux/tripmux/pkg/widget"
)

const cliHTTPTimeout = 20 * time.Second

// session is a terminal widget backed by the profile file.
type session struct {
	Widget *widget.Widget
	Dict   *i18n.I18n
	Fares  *fares.Client

	registry *widget.Registry
}

func (c *cli) open(ctx context.Context, lang string) (*session, error) {
	dict, err := i18n.New(i18n.WithYAMLDir(locales.FS))
	if err != nil {
		return nil, fmt.Errorf("locales: %w", err)
	}

	log := logger.New(c.cfg.Logger).With(slog.String("component", "cli"))
	client := fares.NewClient(c.cfg.APIBaseURL, faresOptions(c.cfg, log, nil, cliHTTPTimeout)...)

	registry := widget.NewRegistry(widget.Deps{
		Storage:    kv.NewFile(c.profile),
		Suggester:  suggestionClient(c.cfg, log, client),
		Dictionary: dict,
		Fares:      client,
		Places:     client,
	},
		widget.WithLogger(log),
		widget.WithAutocompleteDebounce(time.Millisecond),
	)

	w, err := registry.Open(ctx, cliVisitor, prefs.Environment{QueryLanguage: lang})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &session{Widget: w, Dict: dict, Fares: client, registry: registry}, nil
}

func (s *session) Close() {
	_ = s.registry.Close()
	_ = s.Fares.Close()
}
