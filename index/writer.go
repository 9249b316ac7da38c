package index

import (
	"fmt"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/crypto"

	bolt "go.etcd.io/bbolt"
)

// ErrReorg is returned by CommitBlock when the block being committed does
// not chain onto the index's current tip: the caller must disconnect back
// to the fork point (DisconnectTip, repeatedly) before retrying.
var ErrReorg = fmt.Errorf("index: block does not extend current tip")

// BlockUpdate is the full set of range-index mutations one block produces,
// assembled by the per-block ingest algorithm in update.go and applied here
// as a single bbolt transaction: the index commits a whole block atomically
// or not at all.
type BlockUpdate struct {
	Height   uint64
	Hash     [32]byte
	PrevHash [32]byte

	// Put holds the final range list for every outpoint created or left
	// unspent by this block's transactions, keyed by outpoint. Ranges under
	// chain.UnboundOutPoint are appended to the list already stored there.
	Put map[chain.OutPoint]OutputRanges
	// Spend lists outpoints consumed as inputs in this block; their range
	// lists are removed from the index and kept in the height's undo
	// record, from which DisconnectTip restores them.
	Spend []chain.OutPoint
}

// CommitBlock applies u as a single atomic transaction, writing an undo
// record that lets DisconnectTip exactly reverse it.
func (d *DB) CommitBlock(h crypto.Hasher, u BlockUpdate) error {
	if u.Height > 0 {
		prev, ok, err := d.BlockHash(u.Height - 1)
		if err != nil {
			return err
		}
		if !ok || prev != u.PrevHash {
			return ErrReorg
		}
	}

	undo := UndoRecord{}

	err := d.db.Update(func(tx *bolt.Tx) error {
		ranges := tx.Bucket(bucketRanges)
		var satIdx *bolt.Bucket
		if d.keepSatToOp {
			satIdx = tx.Bucket(bucketSatToOut)
		}

		for _, op := range u.Spend {
			key := outpointKey(op)
			if old := ranges.Get(key); old != nil {
				prevRanges, err := decodeOutputRanges(old)
				if err != nil {
					return err
				}
				undo.Restored = append(undo.Restored, UndoRestore{OutPoint: op, Ranges: prevRanges})
				if satIdx != nil && len(prevRanges) > 0 {
					if err := satIdx.Delete(satKey(uint64(prevRanges[0].Start))); err != nil {
						return err
					}
				}
			}
			if err := ranges.Delete(key); err != nil {
				return err
			}
		}

		for op, rs := range u.Put {
			key := outpointKey(op)
			old := ranges.Get(key)
			if old != nil {
				prevRanges, err := decodeOutputRanges(old)
				if err != nil {
					return err
				}
				undo.Restored = append(undo.Restored, UndoRestore{OutPoint: op, Ranges: prevRanges})
				if op == chain.UnboundOutPoint {
					rs = append(append(OutputRanges(nil), prevRanges...), rs...)
				}
			} else {
				undo.Created = append(undo.Created, op)
			}
			if err := ranges.Put(key, encodeOutputRanges(rs)); err != nil {
				return err
			}
			if satIdx != nil && len(rs) > 0 {
				if err := satIdx.Put(satKey(uint64(rs[0].Start)), key); err != nil {
					return err
				}
			}
		}

		undoBytes, err := encodeUndoRecord(undo)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketUndo).Put(heightKey(u.Height), undoBytes); err != nil {
			return err
		}
		return tx.Bucket(bucketHeightHash).Put(heightKey(u.Height), u.Hash[:])
	})
	if err != nil {
		return err
	}

	return d.commitManifest(h, u.Height, u.Hash)
}

// DisconnectTip reverses the block at the index's current height, restoring
// it to height-1. It is the caller's responsibility to call it repeatedly
// back to the common ancestor before resuming forward ingestion.
func (d *DB) DisconnectTip(h crypto.Hasher) error {
	height, ok := d.Height()
	if !ok {
		return fmt.Errorf("index: nothing to disconnect")
	}

	var undo *UndoRecord
	err := d.db.Update(func(tx *bolt.Tx) error {
		ub := tx.Bucket(bucketUndo)
		raw := ub.Get(heightKey(height))
		if raw == nil {
			return fmt.Errorf("index: no undo record for height %d", height)
		}
		var err error
		undo, err = decodeUndoRecord(raw)
		if err != nil {
			return err
		}

		ranges := tx.Bucket(bucketRanges)
		var satIdx *bolt.Bucket
		if d.keepSatToOp {
			satIdx = tx.Bucket(bucketSatToOut)
		}

		for _, op := range undo.Created {
			key := outpointKey(op)
			if satIdx != nil {
				if old := ranges.Get(key); old != nil {
					if rs, err := decodeOutputRanges(old); err == nil && len(rs) > 0 {
						_ = satIdx.Delete(satKey(uint64(rs[0].Start)))
					}
				}
			}
			if err := ranges.Delete(key); err != nil {
				return err
			}
		}
		for _, r := range undo.Restored {
			key := outpointKey(r.OutPoint)
			if err := ranges.Put(key, encodeOutputRanges(r.Ranges)); err != nil {
				return err
			}
			if satIdx != nil && len(r.Ranges) > 0 {
				if err := satIdx.Put(satKey(uint64(r.Ranges[0].Start)), key); err != nil {
					return err
				}
			}
		}

		if err := ub.Delete(heightKey(height)); err != nil {
			return err
		}
		return tx.Bucket(bucketHeightHash).Delete(heightKey(height))
	})
	if err != nil {
		return err
	}

	if height == 0 {
		d.manifest = &Manifest{SchemaVersion: SchemaVersionV1, ChainIDHex: d.manifest.ChainIDHex}
		return writeManifestAtomic(d.chainDir, d.manifest)
	}
	prevHash, ok, err := d.BlockHash(height - 1)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("index: missing block hash for height %d after disconnect", height-1)
	}
	return d.commitManifest(h, height-1, prevHash)
}

func (d *DB) commitManifest(h crypto.Hasher, height uint64, hash [32]byte) error {
	m := &Manifest{
		SchemaVersion: SchemaVersionV1,
		ChainIDHex:    d.manifest.ChainIDHex,
		Height:        height,
		BlockHash:     hex32(hash),
		Digest:        digest(h, d.manifest.ChainIDHex, height, hash),
	}
	if err := writeManifestAtomic(d.chainDir, m); err != nil {
		return err
	}
	d.manifest = m
	return nil
}
