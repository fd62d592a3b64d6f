// Package state manages the NexusFlow check-run journal using BoltDB.
// All writes are transactional; reads use read-only transactions to minimise contention.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	v1 "github.com/f9-o/nexusflow/api/v1"
	"github.com/f9-o/nexusflow/pkg/errs"
)

var bucketChecks = []byte("checks")

// DB wraps a BoltDB instance with typed accessor methods.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the journal at the given path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errs.New(errs.ErrStateRead, "state.open", err).
			WithResource(path).
			WithAdvice("another nexusflow process may hold the lock")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketChecks); err != nil {
			return fmt.Errorf("create bucket %q: %w", bucketChecks, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errs.Wrap(err, errs.ErrStateWrite, "state.init")
	}

	return &DB{bolt: db}, nil
}

// Close closes the underlying BoltDB file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// checkKey orders records chronologically under a byte-wise cursor.
func checkKey(rec v1.CheckRecord) []byte {
	return []byte(rec.StartedAt.UTC().Format("2006-01-02T15:04:05.000000000Z") + "/" + rec.ID)
}

// PutCheckRun stores a check-run record.
func (db *DB) PutCheckRun(rec v1.CheckRecord) error {
	if rec.ID == "" {
		return errs.Newf(errs.ErrValidation, "state.put_check", "record has no id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errs.Wrap(err, errs.ErrStateWrite, "state.put_check")
	}
	err = db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketChecks).Put(checkKey(rec), data)
	})
	return errs.Wrap(err, errs.ErrStateWrite, "state.put_check")
}

// ListCheckRuns returns up to limit records, newest first. limit <= 0 returns all.
func (db *DB) ListCheckRuns(limit int) ([]v1.CheckRecord, error) {
	var recs []v1.CheckRecord
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketChecks).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(recs) >= limit {
				break
			}
			var r v1.CheckRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal check %q: %w", k, err)
			}
			recs = append(recs, r)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrStateRead, "state.list_checks")
	}
	return recs, nil
}

// LastCheckRun returns the newest record. Returns nil, nil if the journal is empty.
func (db *DB) LastCheckRun() (*v1.CheckRecord, error) {
	recs, err := db.ListCheckRuns(1)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

// Prune deletes the oldest records so that at most keep remain, and returns
// how many were removed. keep <= 0 is a no-op. On error the transaction is
// rolled back and nothing counts as removed.
func (db *DB) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	var stale [][]byte
	err := db.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChecks)
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		if len(keys) <= keep {
			return nil
		}
		stale = keys[:len(keys)-keep]
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, errs.Wrap(err, errs.ErrStateWrite, "state.prune")
	}
	return len(stale), nil
}
