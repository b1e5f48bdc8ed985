package scraper

import (
	"github.com/cockroachdb/errors"
)

// Registry selects the adapter for a source row by its source type
type Registry struct {
	adapters map[SourceType]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[SourceType]Adapter)}
}

// Register binds an adapter to one or more source types, replacing any previous binding
func (r *Registry) Register(a Adapter, types ...SourceType) {
	for _, t := range types {
		r.adapters[t] = a
	}
}

func (r *Registry) Lookup(t SourceType) (Adapter, error) {
	a, ok := r.adapters[t]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSourceType, "no adapter registered for %q", t)
	}
	return a, nil
}
