package storage

import (
	"errors"
	"fmt"
)

// Misuse errors. Every failed operation leaves the store unchanged.
var (
	ErrNoActiveTransaction      = errors.New("no active transaction")
	ErrTransactionAlreadyActive = errors.New("transaction already active")
)

// TxnError records which operation was rejected and the state it was called in.
type TxnError struct {
	Op    string // "put", "begin", "commit", "rollback"
	State State
	Err   error
}

func (e *TxnError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.State, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *TxnError) Unwrap() error {
	return e.Err
}

func misuse(op string, state State, err error) error {
	return &TxnError{Op: op, State: state, Err: err}
}
