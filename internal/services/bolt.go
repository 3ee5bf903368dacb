package services

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
)

const fetchBucket = "fetches"

// FetchSample is one observed reply fetch: which model served it, whether reasoning
// was requested, how long it took, and whether it failed. Samples carry no question
// or answer text, so the journal never holds conversation content.
type FetchSample struct {
	Model     string    `json:"model"`
	Reasoning bool      `json:"reasoning"`
	LatencyMs int64     `json:"latencyMs"`
	Failed    bool      `json:"failed"`
	At        time.Time `json:"at"`
}

// FetchJournal persists fetch samples in a BoltDB file for observability across
// restarts. It is append-only; samples are keyed by a monotonic sequence number so
// iteration order is recording order.
type FetchJournal struct {
	db *bolt.DB
}

// NewFetchJournal opens (or creates, with 0600 permissions) the journal database at
// the given path and ensures the samples bucket exists.
func NewFetchJournal(path string) (*FetchJournal, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(fetchBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &FetchJournal{db: db}, nil
}

// Record appends one sample to the journal.
func (j *FetchJournal) Record(sample FetchSample) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(fetchBucket))
		if b == nil {
			return nil
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}

		v, err := json.Marshal(sample)
		if err != nil {
			return fmt.Errorf("failed to marshal sample: %w", err)
		}

		return b.Put([]byte(fmt.Sprintf("%020d", seq)), v)
	})
}

// Samples returns up to limit samples, newest first. A non-positive limit returns
// everything.
func (j *FetchJournal) Samples(limit int) ([]FetchSample, error) {
	var samples []FetchSample
	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(fetchBucket))
		if b == nil {
			return nil
		}

		return b.ForEach(func(_, v []byte) error {
			var sample FetchSample
			if err := json.Unmarshal(v, &sample); err != nil {
				return fmt.Errorf("failed to unmarshal sample: %w", err)
			}
			samples = append(samples, sample)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(samples)
	if limit > 0 && len(samples) > limit {
		samples = samples[:limit]
	}
	return samples, nil
}

// Close releases the underlying database file.
func (j *FetchJournal) Close() error {
	return j.db.Close()
}
