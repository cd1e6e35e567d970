// Package prefs owns a visitor's language, currency selection mode and
// effective currency.
//
// A Store resolves the three values once in Initialize, persists them in a
// kv.Store and fans every committed change out to its listeners:
//
//	store := prefs.New(kv.Scope(storage, visitorID), suggester, dictionaries,
//	    prefs.WithLogger(log),
//	    prefs.WithDocument(page),
//	)
//	store.Initialize(ctx, prefs.Environment{QueryLanguage: r.URL.Query().Get("lang")})
//	unsubscribe := store.OnChange(func(s prefs.Snapshot) { ... })
//
// Switching to currency.Auto is two-phase: the mode is committed and
// announced with Snapshot.Resolving set, then the effective currency follows
// once the suggestion service answers. Readers between the phases see the
// new mode with the previous effective currency.
package prefs
