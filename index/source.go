package index

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/crypto"
)

// BlockSource is the external collaborator the range index consumes blocks
// from: block-by-block iteration by height, then lookup by the hash that
// iteration returned. This module never implements the transport itself
// (Bitcoin Core RPC, a p2p client) — callers adapt whatever collaborator
// they have to this interface.
type BlockSource interface {
	BlockHash(height uint64) (hash [32]byte, ok bool, err error)
	Block(hash [32]byte) (*chain.Block, error)
}

// FileBlockSource reads raw, wire-serialized blocks from a flat directory,
// one file per height named "<height>.blk". It is meant for local
// development and the conformance-fixture style testing the teacher's
// cmd/gen-conformance-fixtures uses, not as a production transport.
type FileBlockSource struct {
	Dir    string
	Hasher crypto.Hasher

	byHash map[[32]byte]*chain.Block
}

func NewFileBlockSource(dir string, h crypto.Hasher) *FileBlockSource {
	return &FileBlockSource{Dir: dir, Hasher: h, byHash: map[[32]byte]*chain.Block{}}
}

func (s *FileBlockSource) blockPath(height uint64) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%d.blk", height))
}

func (s *FileBlockSource) BlockHash(height uint64) ([32]byte, bool, error) {
	b, ok, err := s.loadAndCache(height)
	if err != nil || !ok {
		return [32]byte{}, ok, err
	}
	return chain.HeaderHash(s.Hasher, b.Header), true, nil
}

func (s *FileBlockSource) Block(hash [32]byte) (*chain.Block, error) {
	if b, ok := s.byHash[hash]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("index: block %x not loaded (call BlockHash(height) first)", hash)
}

func (s *FileBlockSource) loadAndCache(height uint64) (*chain.Block, bool, error) {
	raw, err := os.ReadFile(s.blockPath(height))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("index: read block %d: %w", height, err)
	}
	block, err := chain.ParseBlockBytes(raw)
	if err != nil {
		return nil, false, fmt.Errorf("index: parse block %d: %w", height, err)
	}
	hash := chain.HeaderHash(s.Hasher, block.Header)
	s.byHash[hash] = block
	return block, true, nil
}
