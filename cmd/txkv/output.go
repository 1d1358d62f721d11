package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/myuser/txkv/internal/sql"
	"github.com/myuser/txkv/internal/storage"
)

type printer interface {
	Result(r sql.Result)
	Dump(entries []storage.Entry)
	Stats(counters map[string]float64)
	// Err returns the first write error, if any.
	Err() error
}

func newPrinter(format string, w io.Writer) printer {
	if format == "json" {
		return &jsonPrinter{enc: json.NewEncoder(w)}
	}
	return &textPrinter{w: w}
}

type textPrinter struct {
	w   io.Writer
	err error
}

func (p *textPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *textPrinter) Err() error { return p.err }

func (p *textPrinter) Result(r sql.Result) {
	p.printf("%-36s -> %s\n", r.Stmt, r)
}

func (p *textPrinter) Dump(entries []storage.Entry) {
	p.printf("committed (%d keys):\n", len(entries))
	for _, e := range entries {
		p.printf("  %s = %d\n", e.Key, e.Value)
	}
}

func (p *textPrinter) Stats(counters map[string]float64) {
	p.printf("operations:\n")
	for _, k := range sortedKeys(counters) {
		p.printf("  %-16s %.0f\n", k, counters[k])
	}
}

type jsonPrinter struct {
	enc *json.Encoder
	err error
}

func (p *jsonPrinter) encode(v any) {
	if p.err != nil {
		return
	}
	p.err = p.enc.Encode(v)
}

func (p *jsonPrinter) Err() error { return p.err }

type jsonResult struct {
	Line  int    `json:"line"`
	Stmt  string `json:"stmt"`
	Txn   string `json:"txn,omitempty"`
	Value *int64 `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

func (p *jsonPrinter) Result(r sql.Result) {
	out := jsonResult{Line: r.Line, Stmt: r.Stmt, Txn: r.TxnID}
	if r.Err != nil {
		out.Error = r.Err.Error()
	} else if r.Plan != nil && r.Plan.Type() == sql.NodeGet {
		v := r.Value
		out.Value = &v
	}
	p.encode(out)
}

func (p *jsonPrinter) Dump(entries []storage.Entry) {
	committed := make(map[string]int64, len(entries))
	for _, e := range entries {
		committed[e.Key] = e.Value
	}
	p.encode(map[string]any{"committed": committed})
}

func (p *jsonPrinter) Stats(counters map[string]float64) {
	p.encode(map[string]any{"operations": counters})
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
