package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

var (
	ErrUnsupported = errors.New("unsupported statement")
	ErrNoKey       = errors.New("missing key")
	ErrBadValue    = errors.New("value is not an integer")
)

// ParseError reports a statement that could not be planned.
type ParseError struct {
	Line int // 1-based; 0 when parsing a single statement
	Stmt string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Stmt, e.Err)
	}
	return fmt.Sprintf("%q: %v", e.Stmt, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseToPlan parses one statement and returns its plan.
// Transaction control is recognised before the SQL parser runs.
func ParseToPlan(stmt string) (PlanNode, error) {
	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))

	switch strings.ToUpper(text) {
	case "BEGIN", "BEGIN TRANSACTION", "START TRANSACTION":
		return &BeginNode{}, nil
	case "COMMIT":
		return &CommitNode{}, nil
	case "ROLLBACK":
		return &RollbackNode{}, nil
	}

	parsed, err := sqlparser.Parse(text)
	if err != nil {
		return nil, &ParseError{Stmt: text, Err: err}
	}

	var node PlanNode
	switch s := parsed.(type) {
	case *sqlparser.Insert:
		node, err = buildPutPlan(s)
	case *sqlparser.Select:
		node, err = buildGetPlan(s)
	default:
		err = fmt.Errorf("%w: %T", ErrUnsupported, parsed)
	}
	if err != nil {
		return nil, &ParseError{Stmt: text, Err: err}
	}
	return node, nil
}

// buildPutPlan expects INSERT INTO t VALUES ('key', value).
// Any column list is ignored: the first value is the key, the second the value.
func buildPutPlan(stmt *sqlparser.Insert) (PlanNode, error) {
	rows, ok := stmt.Rows.(sqlparser.Values)
	if !ok {
		return nil, fmt.Errorf("%w: INSERT from SELECT", ErrUnsupported)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("%w: %d rows, want 1", ErrUnsupported, len(rows))
	}

	row := rows[0]
	if len(row) != 2 {
		return nil, fmt.Errorf("%w: %d values, want key and value", ErrUnsupported, len(row))
	}

	key, err := keyOf(row[0])
	if err != nil {
		return nil, err
	}
	value, err := intOf(row[1])
	if err != nil {
		return nil, err
	}

	return &PutNode{
		Table: sqlparser.String(stmt.Table),
		Key:   key,
		Value: value,
	}, nil
}

// buildGetPlan expects SELECT ... FROM t WHERE col = 'key'.
func buildGetPlan(stmt *sqlparser.Select) (PlanNode, error) {
	if len(stmt.From) == 0 {
		return nil, fmt.Errorf("%w: SELECT without FROM", ErrUnsupported)
	}
	aliasedTable, ok := stmt.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, fmt.Errorf("%w: complex FROM clause", ErrUnsupported)
	}
	table := sqlparser.String(aliasedTable.Expr)

	if stmt.Where == nil {
		return nil, fmt.Errorf("%w: SELECT needs WHERE <col> = '<key>'", ErrNoKey)
	}

	var key string
	found := false
	sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		if found {
			return false, nil
		}
		cmp, ok := node.(*sqlparser.ComparisonExpr)
		if !ok || cmp.Operator != sqlparser.EqualStr {
			return true, nil
		}
		if _, ok := cmp.Left.(*sqlparser.ColName); !ok {
			return true, nil
		}
		if k, err := keyOf(cmp.Right); err == nil {
			key = k
			found = true
			return false, nil
		}
		return true, nil
	}, stmt.Where)

	if !found {
		return nil, fmt.Errorf("%w: no <col> = '<key>' in WHERE", ErrNoKey)
	}

	return &GetNode{Table: table, Key: key}, nil
}

func keyOf(expr sqlparser.Expr) (string, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.StrVal {
		return "", fmt.Errorf("%w: key must be a string literal, got %s", ErrNoKey, sqlparser.String(expr))
	}
	return string(val.Val), nil
}

// intOf accepts integer literals, optionally signed. Quoted strings and
// floats are rejected.
func intOf(expr sqlparser.Expr) (int64, error) {
	sign := ""
	if u, ok := expr.(*sqlparser.UnaryExpr); ok {
		switch u.Operator {
		case sqlparser.UMinusStr:
			sign = "-"
		case sqlparser.UPlusStr:
		default:
			return 0, fmt.Errorf("%w: %s", ErrBadValue, sqlparser.String(expr))
		}
		expr = u.Expr
	}

	val, ok := expr.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.IntVal {
		return 0, fmt.Errorf("%w: %s", ErrBadValue, sqlparser.String(expr))
	}
	raw := sign + string(val.Val)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadValue, raw)
	}
	return n, nil
}
