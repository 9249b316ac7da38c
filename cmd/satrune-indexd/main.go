package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runestone-project/satrune/crypto"
	"github.com/runestone-project/satrune/index"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := DefaultConfig()
	cfg := defaults

	fs := flag.NewFlagSet("satrune-indexd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.DataDir, "datadir", defaults.DataDir, "index data directory")
	fs.StringVar(&cfg.ChainIDHex, "chain-id", defaults.ChainIDHex, "hex-encoded chain identifier")
	fs.StringVar(&cfg.BlocksDir, "blocks-dir", defaults.BlocksDir, "directory of \"<height>.blk\" serialized blocks")
	fs.BoolVar(&cfg.IndexSats, "index-sats", defaults.IndexSats, "maintain the sat-to-outpoint reverse index")
	fs.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "log level: debug|info|warn|error")
	stopHeight := fs.Int64("stop-height", -1, "stop after indexing this height (-1 = run until blocks are exhausted)")
	dryRun := fs.Bool("dry-run", false, "print effective config and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := ValidateConfig(cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}

	if err := printConfig(stdout, cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "config encode failed: %v\n", err)
		return 1
	}
	if *dryRun {
		return 0
	}

	hasher := crypto.StdHasher{}
	db, err := index.Open(cfg.DataDir, cfg.ChainIDHex, index.Options{IndexSats: cfg.IndexSats})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "index open failed: %v\n", err)
		return 2
	}
	defer func() { _ = db.Close() }()

	source := index.NewFileBlockSource(cfg.BlocksDir, hasher)

	startHeight := uint64(0)
	prevHash := [32]byte{}
	if h, ok := db.Height(); ok {
		startHeight = h + 1
		prevHash, _, err = db.BlockHash(h)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "tip lookup failed: %v\n", err)
			return 2
		}
	}

	indexed, code := ingest(db, source, hasher, startHeight, prevHash, *stopHeight, stdout, stderr)
	if code != 0 {
		return code
	}
	if tip, ok := db.Height(); ok {
		_, _ = fmt.Fprintf(stdout, "indexed %d block(s), tip height %d\n", indexed, tip)
	} else {
		_, _ = fmt.Fprintf(stdout, "indexed %d block(s), index empty\n", indexed)
	}
	return 0
}

// ingest drives one pass of block-by-block indexing starting at
// startHeight, stopping when the block source runs dry or, if stopHeight
// is non-negative, once that height has been committed.
func ingest(db *index.DB, source index.BlockSource, hasher crypto.Hasher, startHeight uint64, prevHash [32]byte, stopHeight int64, stdout, stderr io.Writer) (indexed uint64, exitCode int) {
	height := startHeight
	for stopHeight < 0 || int64(height) <= stopHeight {
		hash, ok, err := source.BlockHash(height)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "block hash lookup failed at height %d: %v\n", height, err)
			return indexed, 2
		}
		if !ok {
			return indexed, 0
		}
		block, err := source.Block(hash)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "block fetch failed at height %d: %v\n", height, err)
			return indexed, 2
		}

		prior, err := db.ResolvePrior(block)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "prior range lookup failed at height %d: %v\n", height, err)
			return indexed, 2
		}
		update, err := index.BuildBlockUpdate(hasher, height, hash, prevHash, block, prior)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "build update failed at height %d: %v\n", height, err)
			return indexed, 2
		}
		if err := db.CommitBlock(hasher, update); err != nil {
			_, _ = fmt.Fprintf(stderr, "commit failed at height %d: %v\n", height, err)
			return indexed, 2
		}
		_, _ = fmt.Fprintf(stdout, "committed height=%d hash=%x tx_count=%d\n", height, hash, len(block.Transactions))

		indexed++
		prevHash = hash
		height++
	}
	return indexed, 0
}

func printConfig(w io.Writer, cfg Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
