package members

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Options configures the builder and cache. The zero value is usable: public
// members only, automatic strategy, caching enabled, no gate.
type Options struct {
	// IncludeProtected exposes protected members.
	IncludeProtected bool
	// IncludePrivate exposes every member and opens non-public ones.
	IncludePrivate bool
	// Strategy overrides the automatically selected access strategy.
	Strategy Strategy
	// Gate rejects types that must not be visible to scripts.
	Gate VisibilityGate

	Coercer    Coercer
	Wrapper    Wrapper
	Dispatcher Dispatcher

	// Reporter formats error messages; defaults to the catalog for Language.
	Reporter Reporter
	Language language.Tag

	Logger *zap.Logger

	// Store backs the cache; defaults to an unbounded MapStore.
	Store Store
	// RootType is the last resort of the access-denied fallback walk for
	// interface types.
	RootType hosttype.Type
	// CachingDisabled skips publication of built tables.
	CachingDisabled bool
}

// env holds the collaborators a built table needs at get/put time.
type env struct {
	coercer    Coercer
	wrapper    Wrapper
	dispatcher Dispatcher
	reporter   Reporter
}

func (o Options) withDefaults() Options {
	if o.Strategy == nil {
		o.Strategy = SelectStrategy(ModeAuto, nil)
	}
	if o.Coercer == nil {
		o.Coercer = passthrough{}
	}
	if o.Wrapper == nil {
		o.Wrapper = passthrough{}
	}
	if o.Reporter == nil {
		tag := o.Language
		if tag == language.Und {
			tag = language.English
		}
		o.Reporter = NewReporter(tag)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Store == nil {
		o.Store = NewMapStore()
	}
	return o
}
