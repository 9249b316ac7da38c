package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/sat"
)

func coinbaseBlock(value uint64) *chain.Block {
	return &chain.Block{
		Transactions: []chain.Tx{
			{
				Inputs:  []chain.TxIn{{PrevOut: chain.OutPoint{Vout: ^uint32(0)}}},
				Outputs: []chain.TxOut{{Value: value}},
			},
		},
	}
}

func TestRunDryRunPrintsConfigAndExits(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := run([]string{"--dry-run", "--datadir", dir}, &out, &errOut)
	if code != 0 {
		t.Fatalf("code=%d, stderr=%s", code, errOut.String())
	}
	if out.Len() == 0 {
		t.Fatalf("expected config output")
	}
}

func TestRunRejectsInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := run([]string{"--datadir", dir, "--log-level", "loud"}, &out, &errOut)
	if code != 2 {
		t.Fatalf("code=%d, want 2", code)
	}
	if errOut.Len() == 0 {
		t.Fatalf("expected stderr output")
	}
}

func TestRunIndexesGenesisBlock(t *testing.T) {
	dir := t.TempDir()
	blocksDir := filepath.Join(dir, "blocks")
	if err := os.MkdirAll(blocksDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	block := coinbaseBlock(sat.InitialSubsidy)
	if err := os.WriteFile(filepath.Join(blocksDir, "0.blk"), chain.MarshalBlock(block), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var out, errOut bytes.Buffer
	code := run([]string{"--datadir", dir, "--blocks-dir", blocksDir, "--stop-height", "0"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("code=%d, stderr=%s", code, errOut.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("committed height=0")) {
		t.Fatalf("expected committed height=0 in output, got %s", out.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("tip height 0")) {
		t.Fatalf("expected tip height 0 in output, got %s", out.String())
	}
}

func TestRunStopsWhenNoBlocksPresent(t *testing.T) {
	dir := t.TempDir()
	blocksDir := filepath.Join(dir, "blocks")
	var out, errOut bytes.Buffer
	code := run([]string{"--datadir", dir, "--blocks-dir", blocksDir}, &out, &errOut)
	if code != 0 {
		t.Fatalf("code=%d, stderr=%s", code, errOut.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("index empty")) {
		t.Fatalf("expected empty-index message, got %s", out.String())
	}
}

func TestRunResumesFromExistingTip(t *testing.T) {
	dir := t.TempDir()
	blocksDir := filepath.Join(dir, "blocks")
	if err := os.MkdirAll(blocksDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(blocksDir, "0.blk"), chain.MarshalBlock(coinbaseBlock(sat.InitialSubsidy)), 0o644); err != nil {
		t.Fatalf("write fixture 0: %v", err)
	}

	var out1, errOut1 bytes.Buffer
	if code := run([]string{"--datadir", dir, "--blocks-dir", blocksDir, "--stop-height", "0"}, &out1, &errOut1); code != 0 {
		t.Fatalf("first run failed: code=%d stderr=%s", code, errOut1.String())
	}

	if err := os.WriteFile(filepath.Join(blocksDir, "1.blk"), chain.MarshalBlock(coinbaseBlock(sat.InitialSubsidy)), 0o644); err != nil {
		t.Fatalf("write fixture 1: %v", err)
	}

	var out2, errOut2 bytes.Buffer
	code := run([]string{"--datadir", dir, "--blocks-dir", blocksDir, "--stop-height", "1"}, &out2, &errOut2)
	if code != 0 {
		t.Fatalf("second run failed: code=%d stderr=%s", code, errOut2.String())
	}
	if !bytes.Contains(out2.Bytes(), []byte("committed height=1")) {
		t.Fatalf("expected committed height=1 in output, got %s", out2.String())
	}
	if !bytes.Contains(out2.Bytes(), []byte("tip height 1")) {
		t.Fatalf("expected tip height 1, got %s", out2.String())
	}
}
