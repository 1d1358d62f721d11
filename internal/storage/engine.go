package storage

// Engine defines the interface for the transactional storage engine.
// At most one transaction is open at a time.
type Engine interface {
	// Get returns the value for key. Inside a transaction the transaction's
	// own uncommitted writes are visible. Keys never written read as 0.
	Get(key string) int64

	// Put writes key into the open transaction.
	Put(key string, value int64) error

	// Transaction lifecycle
	Begin() error    // Idle -> InTransaction
	Commit() error   // Apply pending writes, -> Idle
	Rollback() error // Discard pending writes, -> Idle
}

// State is the transaction lifecycle state of a store.
type State int

const (
	StateIdle          State = 0
	StateInTransaction State = 1
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInTransaction:
		return "in-transaction"
	default:
		return "unknown"
	}
}
