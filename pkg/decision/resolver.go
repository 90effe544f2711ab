package decision

import (
	"sort"
	"sync"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/entry"
	"mercator-hq/callisto/pkg/pattern"
)

// Resolver resolves and memoizes interception decisions. Overrides and
// exclusions are registered during the single-threaded warm-up phase; after
// that the resolver only ever reads, so lookups are safe for unlimited
// concurrent callers.
type Resolver struct {
	cfg *config.Config

	// overrides and exclusions are keyed by Identity.String(). Written
	// during warm-up only.
	overrides  map[string]*Decision
	exclusions map[string]bool

	// wildcardPatterns holds the non-exact service patterns, longest
	// first so the most specific pattern wins.
	wildcardPatterns []string

	// cache memoizes resolved decisions per method identity. A nil value
	// is memoized too: bypass lookups stay O(1) after first encounter.
	cache sync.Map
}

// NewResolver creates a resolver over a loaded configuration.
func NewResolver(cfg *config.Config) *Resolver {
	r := &Resolver{
		cfg:        cfg,
		overrides:  make(map[string]*Decision),
		exclusions: make(map[string]bool),
	}

	for p := range cfg.Services {
		if pattern.IsWildcard(p) {
			r.wildcardPatterns = append(r.wildcardPatterns, p)
		}
	}
	sort.Slice(r.wildcardPatterns, func(i, j int) bool {
		pi, pj := r.wildcardPatterns[i], r.wildcardPatterns[j]
		if len(pi) != len(pj) {
			return len(pi) > len(pj)
		}
		return pi < pj
	})

	return r
}

// RegisterOverride installs an explicit per-method decision. It wins over
// every configured rule. Warm-up phase only; not safe once Resolve is being
// called concurrently.
func (r *Resolver) RegisterOverride(id Identity, d Decision) {
	r.applyDefaults(&d)
	r.overrides[id.String()] = &d
}

// RegisterExclusion marks a method as never instrumented, winning over
// overrides and configuration alike. Warm-up phase only.
func (r *Resolver) RegisterExclusion(id Identity) {
	r.exclusions[id.String()] = true
}

// Resolve returns the interception decision for a method, or nil when the
// method is not instrumented. The first resolution per identity is computed
// and memoized; later calls are a single lock-free map read.
func (r *Resolver) Resolve(id Identity) *Decision {
	key := id.String()
	if cached, ok := r.cache.Load(key); ok {
		d, _ := cached.(*Decision)
		return d
	}

	d := r.compute(id)
	actual, _ := r.cache.LoadOrStore(key, d)
	resolved, _ := actual.(*Decision)
	return resolved
}

// Reset drops all memoized decisions. Test isolation only.
func (r *Resolver) Reset() {
	r.cache.Range(func(k, _ any) bool {
		r.cache.Delete(k)
		return true
	})
}

// compute applies the resolution order from scratch.
func (r *Resolver) compute(id Identity) *Decision {
	if r.exclusions[id.String()] {
		return nil
	}
	if d, ok := r.overrides[id.String()]; ok {
		return d
	}

	if rule, ok := r.cfg.Services[id.TypeName]; ok {
		return r.fromRule(rule, id)
	}

	for _, p := range r.wildcardPatterns {
		if pattern.Match(p, id.TypeName) {
			rule := r.cfg.Services[p]
			return r.fromRule(rule, id)
		}
	}

	return r.fromGlobalDefault()
}

// fromRule builds a decision from a matched service rule, or nil when the
// method is excluded or the rule logs nothing.
func (r *Resolver) fromRule(rule config.ServiceRule, id Identity) *Decision {
	if pattern.MatchAny(rule.ExcludeMethods, id.MethodName) {
		return nil
	}

	behavior := behaviorOf(rule.LogInput, rule.LogOutput)
	if behavior == None {
		return nil
	}

	d := &Decision{
		Behavior:        behavior,
		Level:           entry.Level(rule.Level),
		ExceptionLevel:  entry.Level(rule.ExceptionLevel),
		Target:          rule.Target,
		Formatter:       rule.Formatter,
		Template:        rule.Template,
		MaskParameters:  rule.MaskParameters,
		MaskReplacement: rule.MaskReplacement,
	}
	r.applyDefaults(d)
	return d
}

// fromGlobalDefault builds a decision from the global defaults, or nil when
// defaults enable nothing.
func (r *Resolver) fromGlobalDefault() *Decision {
	behavior := behaviorOf(r.cfg.Defaults.LogInput, r.cfg.Defaults.LogOutput)
	if behavior == None {
		return nil
	}

	d := &Decision{Behavior: behavior}
	r.applyDefaults(d)
	return d
}

// applyDefaults fills unset decision fields from the global defaults.
func (r *Resolver) applyDefaults(d *Decision) {
	if d.Level == "" {
		d.Level = entry.Level(r.cfg.Defaults.Level)
	}
	if d.ExceptionLevel == "" {
		d.ExceptionLevel = entry.Level(r.cfg.Defaults.ExceptionLevel)
	}
	if d.Target == "" {
		d.Target = r.cfg.Defaults.Target
	}
	if d.Formatter == "" {
		d.Formatter = r.cfg.Defaults.Formatter
	}
}

func behaviorOf(logInput, logOutput bool) Behavior {
	b := None
	if logInput {
		b |= LogInput
	}
	if logOutput {
		b |= LogOutput
	}
	return b
}
