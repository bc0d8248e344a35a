package store

import (
	"github.com/cockroachdb/errors"

	"github.com/airwave-net/airwave/pkg/model"
	"github.com/airwave-net/airwave/pkg/serializer"
)

// Resolver adapts a Store to the serializer's RefResolver interface,
// translating store misses into errors the serializer recognises as
// dangling references.
type Resolver struct {
	store Store
}

// NewResolver returns a Resolver backed by s.
func NewResolver(s Store) *Resolver {
	return &Resolver{store: s}
}

var _ serializer.RefResolver = (*Resolver)(nil)

// VLAN resolves a VLAN by id.
func (r *Resolver) VLAN(id int64) (*model.VLAN, error) {
	v, err := r.store.VLANs().Get(id)
	if err != nil {
		return nil, markNotFound(err)
	}
	return v, nil
}

// Interface resolves an Interface by id.
func (r *Resolver) Interface(id int64) (*model.Interface, error) {
	i, err := r.store.Interfaces().Get(id)
	if err != nil {
		return nil, markNotFound(err)
	}
	return i, nil
}

func markNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return errors.Mark(err, serializer.ErrReferenceNotFound)
	}
	return err
}
