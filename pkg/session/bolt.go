package session

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names. State holds encoded snapshots, expiry holds deadlines
// keyed by the same session ID, so Touch never rewrites cell data.
var (
	bucketState  = []byte("state")
	bucketExpiry = []byte("expiry")
)

// BoltStore persists sessions in a bbolt file, surviving server
// restarts without external infrastructure. Expiry is enforced lazily
// on Load and by Sweep.
type BoltStore struct {
	db  *bolt.DB
	ttl time.Duration
}

// BoltOption configures a BoltStore.
type BoltOption func(*BoltStore)

// WithBoltTTL sets the session lifetime. Zero disables expiry.
func WithBoltTTL(ttl time.Duration) BoltOption {
	return func(s *BoltStore) { s.ttl = ttl }
}

// NewBoltStore opens (or creates) the database file and its buckets.
func NewBoltStore(path string, opts ...BoltOption) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("session: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketState, bucketExpiry} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("session: init bolt buckets: %w", err)
	}

	store := &BoltStore{db: db, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

func (s *BoltStore) deadline() []byte {
	if s.ttl <= 0 {
		return marshalTime(time.Time{})
	}
	return marshalTime(time.Now().Add(s.ttl))
}

func marshalTime(t time.Time) []byte {
	buf := make([]byte, 8)
	if !t.IsZero() {
		binary.BigEndian.PutUint64(buf, uint64(t.UnixMilli()))
	}
	return buf
}

func unmarshalTime(data []byte) time.Time {
	if len(data) != 8 {
		return time.Time{}
	}
	ms := binary.BigEndian.Uint64(data)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms))
}

// Save writes the snapshot and its deadline in one transaction.
func (s *BoltStore) Save(ctx context.Context, state *State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}
	key := []byte(state.ID)

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketState).Put(key, data); err != nil {
			return err
		}
		return tx.Bucket(bucketExpiry).Put(key, s.deadline())
	})
}

// Load retrieves a snapshot, deleting it inline when expired.
func (s *BoltStore) Load(ctx context.Context, id string) (*State, error) {
	key := []byte(id)
	var data []byte

	err := s.db.Update(func(tx *bolt.Tx) error {
		states := tx.Bucket(bucketState)
		v := states.Get(key)
		if v == nil {
			return ErrNotFound
		}

		if expired(unmarshalTime(tx.Bucket(bucketExpiry).Get(key))) {
			states.Delete(key)
			tx.Bucket(bucketExpiry).Delete(key)
			return ErrNotFound
		}

		// v is only valid inside the transaction; copy out.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return DecodeState(data)
}

// Delete removes a session.
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	key := []byte(id)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketState).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(bucketExpiry).Delete(key)
	})
}

// Touch rewrites the deadline for a live session.
func (s *BoltStore) Touch(ctx context.Context, id string) error {
	key := []byte(id)
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketState).Get(key) == nil {
			return ErrNotFound
		}
		if expired(unmarshalTime(tx.Bucket(bucketExpiry).Get(key))) {
			return ErrNotFound
		}
		return tx.Bucket(bucketExpiry).Put(key, s.deadline())
	})
}

// Sweep deletes all expired sessions and returns how many were
// removed.
func (s *BoltStore) Sweep(ctx context.Context) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		states := tx.Bucket(bucketState)
		expiries := tx.Bucket(bucketExpiry)

		var dead [][]byte
		c := expiries.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if expired(unmarshalTime(v)) {
				dead = append(dead, append([]byte(nil), k...))
			}
		}

		for _, k := range dead {
			if err := states.Delete(k); err != nil {
				return err
			}
			if err := expiries.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("session: bolt sweep: %w", err)
	}
	return removed, nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
