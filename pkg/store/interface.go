// Package store defines the persistence interfaces for the Airwave
// management plane. Implementations include an in-memory store (dev/testing),
// an etcd-backed store, and a PostgreSQL-backed store.
package store

import (
	"errors"

	"github.com/airwave-net/airwave/pkg/model"
)

// ErrNotFound is wrapped by all backends when a lookup misses.
var ErrNotFound = errors.New("not found")

// ErrConflict is wrapped by all backends when a write collides with existing
// state, e.g. deleting a VLAN that a wireless LAN still references.
var ErrConflict = errors.New("conflict")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err wraps ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// VLANStore provides CRUD operations for VLAN records. Create assigns the
// next identifier and writes it back to the passed record. Delete fails with
// ErrConflict while any wireless LAN still references the VLAN.
type VLANStore interface {
	List() ([]model.VLAN, error)
	Get(id int64) (*model.VLAN, error)
	Create(v *model.VLAN) error
	Update(v *model.VLAN) error
	Delete(id int64) error
}

// InterfaceStore provides CRUD operations for Interface records. Delete
// fails with ErrConflict while any wireless link still terminates on the
// interface.
type InterfaceStore interface {
	List() ([]model.Interface, error)
	Get(id int64) (*model.Interface, error)
	Create(i *model.Interface) error
	Update(i *model.Interface) error
	Delete(id int64) error
}

// WirelessLANStore provides CRUD operations for WirelessLAN records.
type WirelessLANStore interface {
	List() ([]model.WirelessLAN, error)
	Get(id int64) (*model.WirelessLAN, error)
	Create(lan *model.WirelessLAN) error
	Update(lan *model.WirelessLAN) error
	Delete(id int64) error
}

// WirelessLinkStore provides CRUD operations for WirelessLink records.
type WirelessLinkStore interface {
	List() ([]model.WirelessLink, error)
	Get(id int64) (*model.WirelessLink, error)
	Create(link *model.WirelessLink) error
	Update(link *model.WirelessLink) error
	Delete(id int64) error
}

// Store aggregates all sub-stores into a single handle.
type Store interface {
	VLANs() VLANStore
	Interfaces() InterfaceStore
	WirelessLANs() WirelessLANStore
	WirelessLinks() WirelessLinkStore
}
