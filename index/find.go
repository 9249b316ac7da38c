package index

import (
	"fmt"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/sat"

	bolt "go.etcd.io/bbolt"
)

// SatPoint locates a sat within the outpoint that currently carries it.
type SatPoint struct {
	OutPoint chain.OutPoint
	Offset   uint64 // position of the sat within the outpoint's concatenated ranges
}

// ErrSatIndexDisabled is returned by Find when the DB was opened without
// Options.IndexSats.
var ErrSatIndexDisabled = fmt.Errorf("index: sat_to_outpoint reverse index not enabled")

// Find locates the current outpoint holding s, and false if the outpoint
// reached through the sat index does not hold s (for example, s is not yet
// mined). A sat swept into the unbound sentinel is reported at
// chain.UnboundOutPoint. A DB opened without Options.IndexSats returns
// ErrSatIndexDisabled.
func (d *DB) Find(s sat.Sat) (SatPoint, bool, error) {
	if !d.keepSatToOp {
		return SatPoint{}, false, ErrSatIndexDisabled
	}

	var op chain.OutPoint
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketSatToOut).Cursor()
		k, v := c.Seek(satKey(uint64(s)))
		if k == nil || string(k) != string(satKey(uint64(s))) {
			// Seek lands on the first key >= target; the range containing s,
			// if any, starts at the previous key.
			k, v = c.Prev()
		}
		if k == nil {
			return nil
		}
		var err error
		op, err = decodeOutpointKey(v)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return SatPoint{}, false, err
	}
	if !found {
		return SatPoint{}, false, nil
	}

	ranges, ok, err := d.Ranges(op)
	if err != nil {
		return SatPoint{}, false, err
	}
	if !ok {
		return SatPoint{}, false, nil
	}
	var pos uint64
	for _, r := range ranges {
		if s >= r.Start && s < r.End {
			return SatPoint{OutPoint: op, Offset: pos + uint64(s-r.Start)}, true, nil
		}
		pos += r.Len()
	}
	return SatPoint{}, false, nil
}
