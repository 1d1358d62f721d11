package sql

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/myuser/txkv/internal/metrics"
	"github.com/myuser/txkv/internal/storage"
)

// MaxStatementSize bounds a single script line.
const MaxStatementSize = 16 << 20

// Result is the outcome of one executed statement.
type Result struct {
	Line  int
	Stmt  string
	Plan  PlanNode
	TxnID string // transaction the statement ran in, if any
	Value int64  // set for GET
	Err   error  // engine misuse; the session keeps going
}

func (r Result) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("ERROR %v", r.Err)
	case r.Plan != nil && r.Plan.Type() == NodeGet:
		return fmt.Sprintf("%d", r.Value)
	default:
		return "OK"
	}
}

// Session runs statements against one engine and tracks the open
// transaction's ID.
type Session struct {
	engine storage.Engine
	txnID  string
}

func NewSession(engine storage.Engine) *Session {
	return &Session{engine: engine}
}

// TxnID returns the ID of the open transaction, or "" while idle.
func (s *Session) TxnID() string {
	return s.txnID
}

// Execute runs a single plan.
func (s *Session) Execute(plan PlanNode) Result {
	res := Result{Plan: plan, TxnID: s.txnID}
	if plan == nil {
		res.Err = fmt.Errorf("%w: nil plan", ErrUnsupported)
		return res
	}

	switch n := plan.(type) {
	case *BeginNode:
		res.Err = s.engine.Begin()
		if res.Err == nil {
			s.txnID = uuid.NewString()
			res.TxnID = s.txnID
		}
	case *CommitNode:
		res.Err = s.engine.Commit()
		if res.Err == nil {
			s.txnID = ""
		}
	case *RollbackNode:
		res.Err = s.engine.Rollback()
		if res.Err == nil {
			s.txnID = ""
		}
	case *PutNode:
		res.Err = s.engine.Put(n.Key, n.Value)
	case *GetNode:
		res.Value = s.engine.Get(n.Key)
	default:
		res.Err = fmt.Errorf("%w: plan %T", ErrUnsupported, plan)
	}

	metrics.Observe(strings.ToLower(plan.Type().String()), res.Err)
	return res
}

// ExecuteString parses and runs one statement.
func (s *Session) ExecuteString(stmt string) (Result, error) {
	plan, err := ParseToPlan(stmt)
	if err != nil {
		return Result{Stmt: stmt}, err
	}
	res := s.Execute(plan)
	res.Stmt = strings.TrimSpace(stmt)
	return res, nil
}

// Run executes a script, one statement per line, calling handler with each
// result. Engine errors are reported through the result and do not stop the
// script; a statement that fails to parse does.
func (s *Session) Run(r io.Reader, handler func(Result)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxStatementSize)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "--") || strings.HasPrefix(text, "#") {
			continue
		}

		res, err := s.ExecuteString(text)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = line
				return pe
			}
			return fmt.Errorf("line %d: %w", line, err)
		}
		res.Line = line
		if handler != nil {
			handler(res)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("line %d: %w", line+1, err)
	}
	return nil
}
