package session

import (
	"errors"
	"fmt"

	"github.com/askpane/askpane/internal/models"
)

// ErrUnknownModel is returned by Resolve when the requested id is not in the catalog.
// A correctly constrained presentation layer only ever submits catalog ids, so hitting
// this error indicates a programming mistake rather than a recoverable user condition.
var ErrUnknownModel = errors.New("unknown model")

// Registry holds the fixed catalog of selectable model options. The catalog is
// provided once at startup and never changes afterwards.
type Registry struct {
	options []models.ModelOption
	index   map[string]int
}

// NewRegistry builds a registry from the given catalog. The catalog must contain at
// least one entry and no duplicate ids.
func NewRegistry(options []models.ModelOption) (*Registry, error) {
	if len(options) == 0 {
		return nil, errors.New("model catalog must not be empty")
	}

	index := make(map[string]int, len(options))
	for i, opt := range options {
		if opt.ID == "" {
			return nil, fmt.Errorf("model at index %d has empty id", i)
		}
		if _, ok := index[opt.ID]; ok {
			return nil, fmt.Errorf("duplicate model id %q", opt.ID)
		}
		index[opt.ID] = i
	}

	opts := make([]models.ModelOption, len(options))
	copy(opts, options)

	return &Registry{options: opts, index: index}, nil
}

// Resolve returns the catalog entry for id, or ErrUnknownModel if no such entry
// exists.
func (r *Registry) Resolve(id string) (models.ModelOption, error) {
	i, ok := r.index[id]
	if !ok {
		return models.ModelOption{}, fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	return r.options[i], nil
}

// Options returns a copy of the catalog in registration order.
func (r *Registry) Options() []models.ModelOption {
	out := make([]models.ModelOption, len(r.options))
	copy(out, r.options)
	return out
}

// Default returns the first catalog entry.
func (r *Registry) Default() models.ModelOption {
	return r.options[0]
}
