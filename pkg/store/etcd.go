package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/airwave-net/airwave/pkg/model"
)

// Key-space constants. All Airwave keys live under /airwave/v1/ to avoid
// collisions with other etcd tenants.
const keyPrefix = "/airwave/v1"

// key builds a fully-qualified etcd key for the given store type and ID.
func key(storeType string, id int64) string {
	return fmt.Sprintf("%s/%s/%d", keyPrefix, storeType, id)
}

// prefix builds the etcd key prefix for listing all items of a store type.
func prefix(storeType string) string {
	return fmt.Sprintf("%s/%s/", keyPrefix, storeType)
}

// seqKey builds the etcd key holding the id sequence for a store type.
func seqKey(storeType string) string {
	return fmt.Sprintf("%s/seq/%s", keyPrefix, storeType)
}

// ---------------------------------------------------------------------------
// EtcdStore
// ---------------------------------------------------------------------------

// EtcdStore is an etcd-backed implementation of the Store interface suitable
// for deployments where several API replicas share state. All operations are
// serialised through etcd's linearisable reads/writes; concurrent accesses
// from multiple replicas are therefore safe, including id assignment.
type EtcdStore struct {
	client     *clientv3.Client
	vlans      *etcdVLANStore
	interfaces *etcdInterfaceStore
	lans       *etcdWirelessLANStore
	links      *etcdWirelessLinkStore
}

// NewEtcdStore dials the etcd cluster at endpoints and returns a ready
// EtcdStore. The caller must call Close when finished.
func NewEtcdStore(endpoints []string) (*EtcdStore, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("etcd dial: %w", err)
	}
	return &EtcdStore{
		client:     client,
		vlans:      &etcdVLANStore{client: client},
		interfaces: &etcdInterfaceStore{client: client},
		lans:       &etcdWirelessLANStore{client: client},
		links:      &etcdWirelessLinkStore{client: client},
	}, nil
}

func (s *EtcdStore) VLANs() VLANStore                 { return s.vlans }
func (s *EtcdStore) Interfaces() InterfaceStore       { return s.interfaces }
func (s *EtcdStore) WirelessLANs() WirelessLANStore   { return s.lans }
func (s *EtcdStore) WirelessLinks() WirelessLinkStore { return s.links }

// Close releases the underlying etcd client connection.
func (s *EtcdStore) Close() error {
	return s.client.Close()
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// etcdOpTimeout bounds a single store operation so a cluster outage surfaces
// as an error instead of a wedged request handler.
var etcdOpTimeout = 5 * time.Second

// opContext returns a deadline-bounded context for one store operation.
func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), etcdOpTimeout)
}

// etcdPut serialises v as JSON and writes it to the given key.
func etcdPut(ctx context.Context, client *clientv3.Client, k string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := client.Put(ctx, k, string(data)); err != nil {
		return fmt.Errorf("etcd put %q: %w", k, err)
	}
	return nil
}

// etcdGet retrieves the value at key k and deserialises it into v.
// Returns (false, nil) if the key does not exist.
func etcdGet(ctx context.Context, client *clientv3.Client, k string, v any) (bool, error) {
	resp, err := client.Get(ctx, k)
	if err != nil {
		return false, fmt.Errorf("etcd get %q: %w", k, err)
	}
	if len(resp.Kvs) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(resp.Kvs[0].Value, v); err != nil {
		return false, fmt.Errorf("unmarshal %q: %w", k, err)
	}
	return true, nil
}

// etcdList retrieves all key-value pairs with the given prefix and returns
// the decoded objects.
func etcdList[T any](ctx context.Context, client *clientv3.Client, pfx string) ([]T, error) {
	out, _, err := etcdListRev[T](ctx, client, pfx)
	return out, err
}

// etcdListRev is etcdList plus the store revision the read was served at.
func etcdListRev[T any](ctx context.Context, client *clientv3.Client, pfx string) ([]T, int64, error) {
	resp, err := client.Get(ctx, pfx, clientv3.WithPrefix())
	if err != nil {
		return nil, 0, fmt.Errorf("etcd list %q: %w", pfx, err)
	}
	out := make([]T, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var item T
		if err := json.Unmarshal(kv.Value, &item); err != nil {
			return nil, 0, fmt.Errorf("unmarshal %q: %w", string(kv.Key), err)
		}
		out = append(out, item)
	}
	return out, resp.Header.Revision, nil
}

// etcdNextID atomically advances the id sequence for a store type and returns
// the newly assigned id. Uses a compare-and-set loop so concurrent replicas
// never hand out the same id.
func etcdNextID(ctx context.Context, client *clientv3.Client, storeType string) (int64, error) {
	k := seqKey(storeType)
	for {
		resp, err := client.Get(ctx, k)
		if err != nil {
			return 0, fmt.Errorf("etcd get seq %q: %w", k, err)
		}
		var current int64
		cmp := clientv3.Compare(clientv3.Version(k), "=", 0)
		if len(resp.Kvs) > 0 {
			current, err = strconv.ParseInt(string(resp.Kvs[0].Value), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("parse seq %q: %w", k, err)
			}
			cmp = clientv3.Compare(clientv3.Value(k), "=", string(resp.Kvs[0].Value))
		}
		next := current + 1
		txn, err := client.Txn(ctx).
			If(cmp).
			Then(clientv3.OpPut(k, strconv.FormatInt(next, 10))).
			Commit()
		if err != nil {
			return 0, fmt.Errorf("etcd txn seq %q: %w", k, err)
		}
		if txn.Succeeded {
			return next, nil
		}
		// Lost the race against another replica; retry with fresh state.
	}
}

// etcdDelete removes key k. Returns ErrNotFound if the key is not present.
func etcdDelete(ctx context.Context, client *clientv3.Client, k string) error {
	resp, err := client.Delete(ctx, k)
	if err != nil {
		return fmt.Errorf("etcd delete %q: %w", k, err)
	}
	if resp.Deleted == 0 {
		return fmt.Errorf("%q: %w", k, ErrNotFound)
	}
	return nil
}

// etcdGuardedDelete deletes k only if no key under guardPrefix was modified
// after rev. Returns the number of keys deleted and whether the guard held;
// a false guard means the caller must re-read and retry.
func etcdGuardedDelete(ctx context.Context, client *clientv3.Client, guardPrefix string, rev int64, k string) (int64, bool, error) {
	txn, err := client.Txn(ctx).
		If(clientv3.Compare(clientv3.ModRevision(guardPrefix), "<", rev+1).WithPrefix()).
		Then(clientv3.OpDelete(k)).
		Commit()
	if err != nil {
		return 0, false, fmt.Errorf("etcd txn delete %q: %w", k, err)
	}
	if !txn.Succeeded {
		return 0, false, nil
	}
	return txn.Responses[0].GetResponseDeleteRange().Deleted, true, nil
}

// ---------------------------------------------------------------------------
// etcdVLANStore
// ---------------------------------------------------------------------------

type etcdVLANStore struct {
	client *clientv3.Client
}

func (s *etcdVLANStore) List() ([]model.VLAN, error) {
	ctx, cancel := opContext()
	defer cancel()
	return etcdList[model.VLAN](ctx, s.client, prefix("vlans"))
}

func (s *etcdVLANStore) Get(id int64) (*model.VLAN, error) {
	ctx, cancel := opContext()
	defer cancel()
	var v model.VLAN
	found, err := etcdGet(ctx, s.client, key("vlans", id), &v)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("vlan %d: %w", id, ErrNotFound)
	}
	return &v, nil
}

func (s *etcdVLANStore) Create(v *model.VLAN) error {
	ctx, cancel := opContext()
	defer cancel()
	id, err := etcdNextID(ctx, s.client, "vlans")
	if err != nil {
		return err
	}
	v.ID = id
	return etcdPut(ctx, s.client, key("vlans", id), v)
}

func (s *etcdVLANStore) Update(v *model.VLAN) error {
	if _, err := s.Get(v.ID); err != nil {
		return err
	}
	ctx, cancel := opContext()
	defer cancel()
	return etcdPut(ctx, s.client, key("vlans", v.ID), v)
}

// Delete removes the VLAN unless a wireless LAN still references it. The
// reference scan and the delete run as one guarded transaction: if the LAN
// set changes between the scan and the commit, the scan is redone.
func (s *etcdVLANStore) Delete(id int64) error {
	ctx, cancel := opContext()
	defer cancel()
	for {
		lans, rev, err := etcdListRev[model.WirelessLAN](ctx, s.client, prefix("wireless-lans"))
		if err != nil {
			return fmt.Errorf("vlan %d: %w", id, err)
		}
		for _, lan := range lans {
			if lan.VLANID != nil && *lan.VLANID == id {
				return fmt.Errorf("vlan %d is referenced by wireless lan %d: %w", id, lan.ID, ErrConflict)
			}
		}
		deleted, held, err := etcdGuardedDelete(ctx, s.client, prefix("wireless-lans"), rev, key("vlans", id))
		if err != nil {
			return fmt.Errorf("vlan %d: %w", id, err)
		}
		if !held {
			continue
		}
		if deleted == 0 {
			return fmt.Errorf("vlan %d: %w", id, ErrNotFound)
		}
		return nil
	}
}

// ---------------------------------------------------------------------------
// etcdInterfaceStore
// ---------------------------------------------------------------------------

type etcdInterfaceStore struct {
	client *clientv3.Client
}

func (s *etcdInterfaceStore) List() ([]model.Interface, error) {
	ctx, cancel := opContext()
	defer cancel()
	return etcdList[model.Interface](ctx, s.client, prefix("interfaces"))
}

func (s *etcdInterfaceStore) Get(id int64) (*model.Interface, error) {
	ctx, cancel := opContext()
	defer cancel()
	var i model.Interface
	found, err := etcdGet(ctx, s.client, key("interfaces", id), &i)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("interface %d: %w", id, ErrNotFound)
	}
	return &i, nil
}

func (s *etcdInterfaceStore) Create(i *model.Interface) error {
	ctx, cancel := opContext()
	defer cancel()
	id, err := etcdNextID(ctx, s.client, "interfaces")
	if err != nil {
		return err
	}
	i.ID = id
	return etcdPut(ctx, s.client, key("interfaces", id), i)
}

func (s *etcdInterfaceStore) Update(i *model.Interface) error {
	if _, err := s.Get(i.ID); err != nil {
		return err
	}
	ctx, cancel := opContext()
	defer cancel()
	return etcdPut(ctx, s.client, key("interfaces", i.ID), i)
}

// Delete removes the interface unless a wireless link still terminates on
// it, using the same guarded-transaction scheme as the VLAN store.
func (s *etcdInterfaceStore) Delete(id int64) error {
	ctx, cancel := opContext()
	defer cancel()
	for {
		links, rev, err := etcdListRev[model.WirelessLink](ctx, s.client, prefix("wireless-links"))
		if err != nil {
			return fmt.Errorf("interface %d: %w", id, err)
		}
		for _, link := range links {
			if link.InterfaceAID == id || link.InterfaceBID == id {
				return fmt.Errorf("interface %d is referenced by wireless link %d: %w", id, link.ID, ErrConflict)
			}
		}
		deleted, held, err := etcdGuardedDelete(ctx, s.client, prefix("wireless-links"), rev, key("interfaces", id))
		if err != nil {
			return fmt.Errorf("interface %d: %w", id, err)
		}
		if !held {
			continue
		}
		if deleted == 0 {
			return fmt.Errorf("interface %d: %w", id, ErrNotFound)
		}
		return nil
	}
}

// ---------------------------------------------------------------------------
// etcdWirelessLANStore
// ---------------------------------------------------------------------------

type etcdWirelessLANStore struct {
	client *clientv3.Client
}

func (s *etcdWirelessLANStore) List() ([]model.WirelessLAN, error) {
	ctx, cancel := opContext()
	defer cancel()
	return etcdList[model.WirelessLAN](ctx, s.client, prefix("wireless-lans"))
}

func (s *etcdWirelessLANStore) Get(id int64) (*model.WirelessLAN, error) {
	ctx, cancel := opContext()
	defer cancel()
	var lan model.WirelessLAN
	found, err := etcdGet(ctx, s.client, key("wireless-lans", id), &lan)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("wireless lan %d: %w", id, ErrNotFound)
	}
	return &lan, nil
}

func (s *etcdWirelessLANStore) Create(lan *model.WirelessLAN) error {
	ctx, cancel := opContext()
	defer cancel()
	id, err := etcdNextID(ctx, s.client, "wireless-lans")
	if err != nil {
		return err
	}
	lan.ID = id
	return etcdPut(ctx, s.client, key("wireless-lans", id), lan)
}

func (s *etcdWirelessLANStore) Update(lan *model.WirelessLAN) error {
	if _, err := s.Get(lan.ID); err != nil {
		return err
	}
	ctx, cancel := opContext()
	defer cancel()
	return etcdPut(ctx, s.client, key("wireless-lans", lan.ID), lan)
}

func (s *etcdWirelessLANStore) Delete(id int64) error {
	ctx, cancel := opContext()
	defer cancel()
	if err := etcdDelete(ctx, s.client, key("wireless-lans", id)); err != nil {
		return fmt.Errorf("wireless lan %d: %w", id, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// etcdWirelessLinkStore
// ---------------------------------------------------------------------------

type etcdWirelessLinkStore struct {
	client *clientv3.Client
}

func (s *etcdWirelessLinkStore) List() ([]model.WirelessLink, error) {
	ctx, cancel := opContext()
	defer cancel()
	return etcdList[model.WirelessLink](ctx, s.client, prefix("wireless-links"))
}

func (s *etcdWirelessLinkStore) Get(id int64) (*model.WirelessLink, error) {
	ctx, cancel := opContext()
	defer cancel()
	var link model.WirelessLink
	found, err := etcdGet(ctx, s.client, key("wireless-links", id), &link)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("wireless link %d: %w", id, ErrNotFound)
	}
	return &link, nil
}

func (s *etcdWirelessLinkStore) Create(link *model.WirelessLink) error {
	ctx, cancel := opContext()
	defer cancel()
	id, err := etcdNextID(ctx, s.client, "wireless-links")
	if err != nil {
		return err
	}
	link.ID = id
	return etcdPut(ctx, s.client, key("wireless-links", id), link)
}

func (s *etcdWirelessLinkStore) Update(link *model.WirelessLink) error {
	if _, err := s.Get(link.ID); err != nil {
		return err
	}
	ctx, cancel := opContext()
	defer cancel()
	return etcdPut(ctx, s.client, key("wireless-links", link.ID), link)
}

func (s *etcdWirelessLinkStore) Delete(id int64) error {
	ctx, cancel := opContext()
	defer cancel()
	if err := etcdDelete(ctx, s.client, key("wireless-links", id)); err != nil {
		return fmt.Errorf("wireless link %d: %w", id, err)
	}
	return nil
}
