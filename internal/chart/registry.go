package chart

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Target displays figures. React always receives the complete figure and must
// replace, not patch, whatever it showed for that kind.
type Target interface {
	React(kind Kind, fig Figure) error
}

// Registry holds one rendering target per chart kind and remembers the last
// figure sent to each kind.
type Registry struct {
	mu       sync.RWMutex
	targets  map[Kind]Target
	fallback Target
	figures  map[Kind]Figure
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[Kind]Target),
		figures: make(map[Kind]Figure),
	}
}

// Register binds a target to a kind, replacing any previous binding.
func (r *Registry) Register(kind Kind, target Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[kind] = target
}

// SetFallback sets the target used for kinds without their own binding,
// e.g. metric mini-charts whose names come from the backend.
func (r *Registry) SetFallback(target Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = target
}

// Target returns the target bound to kind.
func (r *Registry) Target(kind Kind) (Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[kind]
	return t, ok
}

// React replaces the figure for kind and pushes it to the kind's target.
// Kinds with no target and no fallback are only recorded.
func (r *Registry) React(kind Kind, fig Figure) error {
	fig = fig.Clone()

	r.mu.Lock()
	r.figures[kind] = fig
	target, ok := r.targets[kind]
	if !ok {
		target = r.fallback
	}
	r.mu.Unlock()

	if target == nil {
		return nil
	}
	if err := target.React(kind, fig.Clone()); err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	return nil
}

// Figure returns a copy of the last figure sent to kind.
func (r *Registry) Figure(kind Kind) (Figure, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fig, ok := r.figures[kind]
	if !ok {
		return Figure{}, false
	}
	return fig.Clone(), true
}

// Kinds lists every kind that has received a figure, sorted.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.figures))
	for k := range r.figures {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Reset forgets every recorded figure. Target bindings are kept.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.figures = make(map[Kind]Figure)
}

// Targets fans one figure out to several targets. Every target is updated
// even when an earlier one fails; the errors are joined.
type Targets []Target

// React implements Target.
func (ts Targets) React(kind Kind, fig Figure) error {
	var errs []error
	for _, t := range ts {
		if err := t.React(kind, fig.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
