package store

import (
	"testing"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// unreachableClient returns a client pointed at a port nothing listens on.
// The client dials lazily, so construction succeeds; operations fail once
// the per-operation deadline expires.
func unreachableClient(t *testing.T) *clientv3.Client {
	t.Helper()
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   []string{"127.0.0.1:1"},
		DialTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func shortOpTimeout(t *testing.T) {
	t.Helper()
	prev := etcdOpTimeout
	etcdOpTimeout = 200 * time.Millisecond
	t.Cleanup(func() { etcdOpTimeout = prev })
}

func TestEtcdDelete_TransportFailureIsNotClassified(t *testing.T) {
	shortOpTimeout(t)
	s := &etcdVLANStore{client: unreachableClient(t)}

	err := s.Delete(42)
	if err == nil {
		t.Fatal("expected an error against an unreachable cluster")
	}
	if IsNotFound(err) {
		t.Fatalf("transport failure misclassified as not found: %v", err)
	}
	if IsConflict(err) {
		t.Fatalf("transport failure misclassified as conflict: %v", err)
	}
}

func TestEtcdLinkDelete_TransportFailureIsNotClassified(t *testing.T) {
	shortOpTimeout(t)
	s := &etcdWirelessLinkStore{client: unreachableClient(t)}

	err := s.Delete(7)
	if err == nil {
		t.Fatal("expected an error against an unreachable cluster")
	}
	if IsNotFound(err) || IsConflict(err) {
		t.Fatalf("transport failure misclassified: %v", err)
	}
}

func TestEtcdGet_TransportFailureBoundedByDeadline(t *testing.T) {
	shortOpTimeout(t)
	s := &etcdInterfaceStore{client: unreachableClient(t)}

	start := time.Now()
	_, err := s.Get(1)
	if err == nil {
		t.Fatal("expected an error against an unreachable cluster")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("operation should fail within the deadline, took %s", elapsed)
	}
	if IsNotFound(err) {
		t.Fatalf("transport failure misclassified as not found: %v", err)
	}
}
