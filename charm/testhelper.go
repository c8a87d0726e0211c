// ABOUTME: Test utilities for creating isolated charm clients
// ABOUTME: Backs the client with a temporary Badger database instead of a charm server

package charm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// badgerKV satisfies kvStore with a plain local Badger database.
type badgerKV struct {
	db *badger.DB
}

func (b *badgerKV) Get(key []byte) ([]byte, error) {
	var result []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	return result, err
}

func (b *badgerKV) Set(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *badgerKV) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (b *badgerKV) Keys() ([][]byte, error) {
	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (b *badgerKV) Sync() error { return nil }

func (b *badgerKV) Reset() error {
	return b.db.DropAll()
}

// NewTestClient returns a client on a temporary Badger database. The
// database and its directory are removed when the test finishes.
func NewTestClient(t *testing.T) *Client {
	t.Helper()

	dir, err := os.MkdirTemp("", "officecrm-charm-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(filepath.Join(dir, AppName)).WithLogger(nil))
	if err != nil {
		_ = os.RemoveAll(dir)
		t.Fatalf("Failed to open badger: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("Warning: failed to remove temp directory %s: %v", dir, err)
		}
	})

	return &Client{
		kv:     &badgerKV{db: db},
		config: &Config{Host: "localhost", AutoSync: false},
	}
}
