package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/myuser/txkv/internal/config"
	"github.com/myuser/txkv/internal/metrics"
	"github.com/myuser/txkv/internal/sql"
	"github.com/myuser/txkv/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "txkv: ", log.LstdFlags|log.Lmsgprefix)

	fs := flag.NewFlagSet("txkv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	script := fs.String("script", "", "Statement script to execute (default: built-in demo)")
	output := fs.String("output", "", "Result format: text or json")
	stats := fs.Bool("stats", false, "Print operation counters at exit")
	dump := fs.Bool("dump", false, "Print committed data at exit")
	quiet := fs.Bool("quiet", false, "Suppress informational logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Printf("%v", err)
			return 1
		}
		cfg = loaded
	}

	// Explicit flags override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "script":
			cfg.Script = *script
		case "output":
			cfg.Output = *output
		case "stats":
			cfg.Stats = *stats
		case "dump":
			cfg.Dump = *dump
		case "quiet":
			cfg.Quiet = *quiet
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Printf("%v", err)
		return 1
	}
	if cfg.Quiet {
		logger.SetOutput(io.Discard)
	}

	var src io.Reader = strings.NewReader(demoScript)
	name := "demo"
	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			logger.Printf("open script: %v", err)
			return 1
		}
		defer f.Close()
		src = f
		name = cfg.Script
	}

	metrics.Reset()
	store := storage.NewMemoryStore()
	session := sql.NewSession(store)
	out := newPrinter(cfg.Output, stdout)

	logger.Printf("running %s", name)
	rejected := 0
	err := session.Run(src, func(r sql.Result) {
		if r.Err != nil {
			rejected++
		}
		out.Result(r)
	})
	if err != nil {
		logger.Printf("%s: %v", name, err)
		return 1
	}

	if store.InTransaction() {
		logger.Printf("transaction %s left open with %d pending writes, rolling back", session.TxnID(), store.Pending())
		if err := store.Rollback(); err != nil {
			logger.Printf("rollback: %v", err)
		}
	}

	if cfg.Dump {
		out.Dump(store.Snapshot())
	}
	if cfg.Stats {
		counters, err := metrics.Snapshot()
		if err != nil {
			logger.Printf("metrics: %v", err)
			return 1
		}
		out.Stats(counters)
	}

	if err := out.Err(); err != nil {
		logger.Printf("write output: %v", err)
		return 1
	}

	logger.Printf("%s finished, %d operations rejected", name, rejected)
	return 0
}
