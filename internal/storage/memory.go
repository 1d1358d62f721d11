package storage

import (
	"sync"

	"github.com/google/btree"
)

var _ Engine = &MemoryStore{}

// MemoryStore implements Engine.
type MemoryStore struct {
	mu sync.Mutex

	// Committed data, ordered by key.
	tree *btree.BTree

	// Writes of the open transaction. Empty while Idle.
	pending map[string]int64
	state   State
}

// Entry is a committed key/value pair.
type Entry struct {
	Key   string
	Value int64
}

type item struct {
	key   string
	value int64
}

func (i *item) Less(than btree.Item) bool {
	return i.key < than.(*item).key
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tree:    btree.New(32),
		pending: make(map[string]int64),
		state:   StateIdle,
	}
}

// Get returns the pending value for key if a transaction has written it,
// otherwise the committed value. Unknown keys read as 0.
func (s *MemoryStore) Get(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateInTransaction {
		if v, ok := s.pending[key]; ok {
			return v
		}
	}

	v, ok := s.lookupCommitted(key)
	if !ok {
		return 0
	}
	return v
}

// lookupCommitted (assumes lock held)
func (s *MemoryStore) lookupCommitted(key string) (int64, bool) {
	it := s.tree.Get(&item{key: key})
	if it == nil {
		return 0, false
	}
	return it.(*item).value, true
}

// Put records key -> value in the open transaction.
func (s *MemoryStore) Put(key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInTransaction {
		return misuse("put", s.state, ErrNoActiveTransaction)
	}
	s.pending[key] = value
	return nil
}

// Begin opens a transaction with an empty overlay.
func (s *MemoryStore) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateInTransaction {
		return misuse("begin", s.state, ErrTransactionAlreadyActive)
	}
	s.state = StateInTransaction
	clear(s.pending)
	return nil
}

// Commit applies every pending write to the committed tree and closes the
// transaction. The whole overlay is applied under one lock hold.
func (s *MemoryStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInTransaction {
		return misuse("commit", s.state, ErrNoActiveTransaction)
	}

	for k, v := range s.pending {
		s.tree.ReplaceOrInsert(&item{key: k, value: v})
	}
	s.closeTxnLocked()
	return nil
}

// Rollback discards pending writes. The committed tree is untouched.
func (s *MemoryStore) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInTransaction {
		return misuse("rollback", s.state, ErrNoActiveTransaction)
	}
	s.closeTxnLocked()
	return nil
}

func (s *MemoryStore) closeTxnLocked() {
	clear(s.pending)
	s.state = StateIdle
}

// State returns the current lifecycle state.
func (s *MemoryStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *MemoryStore) InTransaction() bool {
	return s.State() == StateInTransaction
}

// Pending returns the number of keys written by the open transaction.
func (s *MemoryStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Snapshot copies the committed data in key order. Pending writes are not included.
func (s *MemoryStore) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, s.tree.Len())
	s.tree.Ascend(func(i btree.Item) bool {
		it := i.(*item)
		entries = append(entries, Entry{Key: it.key, Value: it.value})
		return true
	})
	return entries
}
