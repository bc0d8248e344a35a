package store

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/airwave-net/airwave/pkg/model"
)

// MemoryStore is an in-memory implementation of Store backed by maps and
// read/write mutexes. Suitable for development, testing, and single-node
// deployments.
type MemoryStore struct {
	vlans      *memoryVLANStore
	interfaces *memoryInterfaceStore
	lans       *memoryWirelessLANStore
	links      *memoryWirelessLinkStore
}

// NewMemoryStore returns a fully initialised MemoryStore. The VLAN and
// interface stores hold references to the LAN and link stores so their
// deletes can refuse to orphan relational references.
func NewMemoryStore() *MemoryStore {
	lans := &memoryWirelessLANStore{data: make(map[int64]model.WirelessLAN)}
	links := &memoryWirelessLinkStore{data: make(map[int64]model.WirelessLink)}
	return &MemoryStore{
		vlans:      &memoryVLANStore{data: make(map[int64]model.VLAN), lans: lans},
		interfaces: &memoryInterfaceStore{data: make(map[int64]model.Interface), links: links},
		lans:       lans,
		links:      links,
	}
}

func (m *MemoryStore) VLANs() VLANStore                 { return m.vlans }
func (m *MemoryStore) Interfaces() InterfaceStore       { return m.interfaces }
func (m *MemoryStore) WirelessLANs() WirelessLANStore   { return m.lans }
func (m *MemoryStore) WirelessLinks() WirelessLinkStore { return m.links }

// ---------------------------------------------------------------------------
// VLAN store
// ---------------------------------------------------------------------------

type memoryVLANStore struct {
	mu   sync.RWMutex
	seq  atomic.Int64
	data map[int64]model.VLAN
	lans *memoryWirelessLANStore
}

func (s *memoryVLANStore) List() ([]model.VLAN, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.VLAN, 0, len(s.data))
	for _, v := range s.data {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryVLANStore) Get(id int64) (*model.VLAN, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("vlan %d: %w", id, ErrNotFound)
	}
	return &v, nil
}

func (s *memoryVLANStore) Create(v *model.VLAN) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.seq.Add(1)
	s.data[v.ID] = *v
	return nil
}

func (s *memoryVLANStore) Update(v *model.VLAN) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[v.ID]; !exists {
		return fmt.Errorf("vlan %d: %w", v.ID, ErrNotFound)
	}
	s.data[v.ID] = *v
	return nil
}

// Delete removes the VLAN unless a wireless LAN still references it. The
// VLAN lock is held across the reference check, so a concurrent create of a
// referencing LAN and the delete serialise against each other.
func (s *memoryVLANStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[id]; !exists {
		return fmt.Errorf("vlan %d: %w", id, ErrNotFound)
	}
	if lanID, referenced := s.lans.referencesVLAN(id); referenced {
		return fmt.Errorf("vlan %d is referenced by wireless lan %d: %w", id, lanID, ErrConflict)
	}
	delete(s.data, id)
	return nil
}

// ---------------------------------------------------------------------------
// Interface store
// ---------------------------------------------------------------------------

type memoryInterfaceStore struct {
	mu    sync.RWMutex
	seq   atomic.Int64
	data  map[int64]model.Interface
	links *memoryWirelessLinkStore
}

func (s *memoryInterfaceStore) List() ([]model.Interface, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Interface, 0, len(s.data))
	for _, i := range s.data {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryInterfaceStore) Get(id int64) (*model.Interface, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("interface %d: %w", id, ErrNotFound)
	}
	return &i, nil
}

func (s *memoryInterfaceStore) Create(i *model.Interface) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i.ID = s.seq.Add(1)
	s.data[i.ID] = *i
	return nil
}

func (s *memoryInterfaceStore) Update(i *model.Interface) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[i.ID]; !exists {
		return fmt.Errorf("interface %d: %w", i.ID, ErrNotFound)
	}
	s.data[i.ID] = *i
	return nil
}

// Delete removes the interface unless a wireless link still terminates on it.
func (s *memoryInterfaceStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[id]; !exists {
		return fmt.Errorf("interface %d: %w", id, ErrNotFound)
	}
	if linkID, referenced := s.links.referencesInterface(id); referenced {
		return fmt.Errorf("interface %d is referenced by wireless link %d: %w", id, linkID, ErrConflict)
	}
	delete(s.data, id)
	return nil
}

// ---------------------------------------------------------------------------
// Wireless LAN store
// ---------------------------------------------------------------------------

type memoryWirelessLANStore struct {
	mu   sync.RWMutex
	seq  atomic.Int64
	data map[int64]model.WirelessLAN
}

func (s *memoryWirelessLANStore) List() ([]model.WirelessLAN, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WirelessLAN, 0, len(s.data))
	for _, lan := range s.data {
		out = append(out, lan)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryWirelessLANStore) Get(id int64) (*model.WirelessLAN, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lan, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("wireless lan %d: %w", id, ErrNotFound)
	}
	return &lan, nil
}

func (s *memoryWirelessLANStore) Create(lan *model.WirelessLAN) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lan.ID = s.seq.Add(1)
	s.data[lan.ID] = *lan
	return nil
}

func (s *memoryWirelessLANStore) Update(lan *model.WirelessLAN) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[lan.ID]; !exists {
		return fmt.Errorf("wireless lan %d: %w", lan.ID, ErrNotFound)
	}
	s.data[lan.ID] = *lan
	return nil
}

func (s *memoryWirelessLANStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[id]; !exists {
		return fmt.Errorf("wireless lan %d: %w", id, ErrNotFound)
	}
	delete(s.data, id)
	return nil
}

// referencesVLAN reports whether any LAN references the given VLAN, and if
// so, the id of one such LAN.
func (s *memoryWirelessLANStore) referencesVLAN(vlanID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, lan := range s.data {
		if lan.VLANID != nil && *lan.VLANID == vlanID {
			return lan.ID, true
		}
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Wireless link store
// ---------------------------------------------------------------------------

type memoryWirelessLinkStore struct {
	mu   sync.RWMutex
	seq  atomic.Int64
	data map[int64]model.WirelessLink
}

func (s *memoryWirelessLinkStore) List() ([]model.WirelessLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WirelessLink, 0, len(s.data))
	for _, l := range s.data {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryWirelessLinkStore) Get(id int64) (*model.WirelessLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("wireless link %d: %w", id, ErrNotFound)
	}
	return &l, nil
}

func (s *memoryWirelessLinkStore) Create(link *model.WirelessLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link.ID = s.seq.Add(1)
	s.data[link.ID] = *link
	return nil
}

func (s *memoryWirelessLinkStore) Update(link *model.WirelessLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[link.ID]; !exists {
		return fmt.Errorf("wireless link %d: %w", link.ID, ErrNotFound)
	}
	s.data[link.ID] = *link
	return nil
}

func (s *memoryWirelessLinkStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[id]; !exists {
		return fmt.Errorf("wireless link %d: %w", id, ErrNotFound)
	}
	delete(s.data, id)
	return nil
}

// referencesInterface reports whether any link terminates on the given
// interface, and if so, the id of one such link.
func (s *memoryWirelessLinkStore) referencesInterface(ifaceID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, link := range s.data {
		if link.InterfaceAID == ifaceID || link.InterfaceBID == ifaceID {
			return link.ID, true
		}
	}
	return 0, false
}
