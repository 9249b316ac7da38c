package index

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/runestone-project/satrune/chain"

	bolt "go.etcd.io/bbolt"
)

func hex32(b [32]byte) string { return hex.EncodeToString(b[:]) }

var (
	bucketHeightHash = []byte("height_to_block_hash")
	bucketRanges     = []byte("outpoint_to_ranges")
	bucketSatToOut   = []byte("sat_to_outpoint")
	bucketUndo       = []byte("undo_by_height")
)

// DB is the bbolt-backed range index store: one bucket per persisted
// mapping from spec §4.5, keyed the same way the teacher's block store
// keys its UTXO set.
type DB struct {
	chainDir    string
	db          *bolt.DB
	manifest    *Manifest
	keepSatToOp bool
}

// Options configures an opened DB.
type Options struct {
	// IndexSats maintains the optional sat_to_outpoint reverse index. It
	// costs one extra write per output range but is required for Find.
	IndexSats bool
}

func Open(datadir, chainIDHex string, opts Options) (*DB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("datadir required")
	}
	if chainIDHex == "" {
		return nil, fmt.Errorf("chain_id_hex required")
	}

	chainDir := ChainDir(datadir, chainIDHex)
	if err := ensureDir(chainDir); err != nil {
		return nil, err
	}
	if err := ensureDir(filepath.Join(chainDir, "db")); err != nil {
		return nil, err
	}

	path := filepath.Join(chainDir, "db", "ranges.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}

	d := &DB{chainDir: chainDir, db: bdb, keepSatToOp: opts.IndexSats}

	buckets := [][]byte{bucketHeightHash, bucketRanges, bucketUndo}
	if opts.IndexSats {
		buckets = append(buckets, bucketSatToOut)
	}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	m, err := readManifest(chainDir)
	if err != nil {
		if os.IsNotExist(err) {
			d.manifest = &Manifest{SchemaVersion: SchemaVersionV1, ChainIDHex: chainIDHex}
			return d, nil
		}
		_ = bdb.Close()
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if m.SchemaVersion != SchemaVersionV1 {
		_ = bdb.Close()
		return nil, fmt.Errorf("manifest schema_version %d != supported %d", m.SchemaVersion, SchemaVersionV1)
	}
	d.manifest = m
	return d, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) ChainDir() string { return d.chainDir }

func (d *DB) Manifest() *Manifest { return d.manifest }

// Height returns the last committed block height, and false if the index is
// empty.
func (d *DB) Height() (uint64, bool) {
	if d.manifest == nil || d.manifest.BlockHash == "" {
		return 0, false
	}
	return d.manifest.Height, true
}

func heightKey(h uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], h)
	return b[:]
}

func outpointKey(op chain.OutPoint) []byte {
	b := make([]byte, 36)
	copy(b[:32], op.TxID[:])
	binary.LittleEndian.PutUint32(b[32:], op.Vout)
	return b
}

func decodeOutpointKey(b []byte) (chain.OutPoint, error) {
	if len(b) != 36 {
		return chain.OutPoint{}, fmt.Errorf("index: bad outpoint key length %d", len(b))
	}
	var op chain.OutPoint
	copy(op.TxID[:], b[:32])
	op.Vout = binary.LittleEndian.Uint32(b[32:])
	return op, nil
}

func satKey(s uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], s)
	return b[:]
}

// BlockHash returns the stored hash for height, used by callers to detect a
// reorg before extending the tip.
func (d *DB) BlockHash(height uint64) (hash [32]byte, ok bool, err error) {
	err = d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketHeightHash).Get(heightKey(height))
		if v == nil {
			return nil
		}
		copy(hash[:], v)
		ok = true
		return nil
	})
	return hash, ok, err
}

// Ranges returns the sat ranges carried by op, and false if op has no entry
// in the index (spent, never created, or never indexed).
func (d *DB) Ranges(op chain.OutPoint) (OutputRanges, bool, error) {
	var out OutputRanges
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketRanges).Get(outpointKey(op))
		if v == nil {
			return nil
		}
		r, err := decodeOutputRanges(v)
		if err != nil {
			return err
		}
		out, ok = r, true
		return nil
	})
	return out, ok, err
}
