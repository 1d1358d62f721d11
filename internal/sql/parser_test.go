package sql

import (
	"errors"
	"testing"
)

func TestParseTransactionControl(t *testing.T) {
	tests := []struct {
		stmt string
		want NodeType
	}{
		{"BEGIN", NodeBegin},
		{"begin;", NodeBegin},
		{"  Start Transaction ", NodeBegin},
		{"COMMIT", NodeCommit},
		{"commit ;", NodeCommit},
		{"ROLLBACK", NodeRollback},
	}

	for _, tt := range tests {
		plan, err := ParseToPlan(tt.stmt)
		if err != nil {
			t.Fatalf("%q: parse failed: %v", tt.stmt, err)
		}
		if plan.Type() != tt.want {
			t.Errorf("%q: want %s, got %s", tt.stmt, tt.want, plan.Type())
		}
	}
}

func TestParseInsert(t *testing.T) {
	tests := []struct {
		sql   string
		key   string
		value int64
	}{
		{"INSERT INTO kv VALUES ('A', 5)", "A", 5},
		{"insert into kv (k, v) values ('B', 10);", "B", 10},
		{"INSERT INTO kv VALUES ('neg', -7)", "neg", -7},
		{"INSERT INTO kv VALUES ('zero', 0)", "zero", 0},
		{"INSERT INTO kv VALUES ('pos', +3)", "pos", 3},
		{"INSERT INTO kv VALUES ('min', -9223372036854775808)", "min", -9223372036854775808},
	}

	for _, tt := range tests {
		plan, err := ParseToPlan(tt.sql)
		if err != nil {
			t.Fatalf("%q: parse failed: %v", tt.sql, err)
		}
		put, ok := plan.(*PutNode)
		if !ok {
			t.Fatalf("%q: expected PutNode, got %T", tt.sql, plan)
		}
		if put.Table != "kv" {
			t.Errorf("%q: expected table 'kv', got '%s'", tt.sql, put.Table)
		}
		if put.Key != tt.key || put.Value != tt.value {
			t.Errorf("%q: want (%s, %d), got (%s, %d)", tt.sql, tt.key, tt.value, put.Key, put.Value)
		}
	}
}

func TestParseSelect(t *testing.T) {
	plan, err := ParseToPlan("SELECT v FROM kv WHERE k = 'A'")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	get, ok := plan.(*GetNode)
	if !ok {
		t.Fatalf("Expected GetNode, got %T", plan)
	}
	if get.Table != "kv" || get.Key != "A" {
		t.Errorf("Expected Get(kv, A), got %+v", get)
	}
	if get.String() != "Get(A)" {
		t.Errorf("Unexpected String(): %s", get.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		sql  string
		want error
	}{
		{"SELECT v FROM kv", ErrNoKey},
		{"SELECT v FROM kv WHERE k > 'A'", ErrNoKey},
		{"INSERT INTO kv VALUES (5, 5)", ErrNoKey},
		{"INSERT INTO kv VALUES ('A', 'x')", ErrBadValue},
		{"INSERT INTO kv VALUES ('A', 1.5)", ErrBadValue},
		{"INSERT INTO kv VALUES ('A', '1 2')", ErrBadValue},
		{"INSERT INTO kv VALUES ('A', '42')", ErrBadValue},
		{"INSERT INTO kv VALUES ('A', -'42')", ErrBadValue},
		{"INSERT INTO kv VALUES ('A', 99999999999999999999)", ErrBadValue},
		{"INSERT INTO kv VALUES ('A')", ErrUnsupported},
		{"INSERT INTO kv VALUES ('A', 1), ('B', 2)", ErrUnsupported},
		{"DELETE FROM kv WHERE k = 'A'", ErrUnsupported},
	}

	for _, tt := range tests {
		_, err := ParseToPlan(tt.sql)
		if err == nil {
			t.Errorf("%q: expected error", tt.sql)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%q: expected *ParseError, got %T", tt.sql, err)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: want %v, got %v", tt.sql, tt.want, err)
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := ParseToPlan("NOT SQL AT ALL")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 0 {
		t.Errorf("single statement should have no line, got %d", pe.Line)
	}
}
