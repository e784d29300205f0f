package settings

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

// bucketSettings is the single bucket holding all engine settings.
const bucketSettings = "settings"

// Bolt is a Store backed by a bbolt database file, for embedders that
// want mode and similar state to survive process restarts.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if necessary) a bbolt-backed store at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSettings))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

// Get returns the value for a key.
func (s *Bolt) Get(key string) (string, bool) {
	var value string
	var found bool
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketSettings)).Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	return value, found
}

// Set stores a value under a key.
func (s *Bolt) Set(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSettings)).Put([]byte(key), []byte(value))
	})
}

// Clear removes every stored key.
func (s *Bolt) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketSettings)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketSettings))
		return err
	})
}

// Close closes the underlying database.
func (s *Bolt) Close() error {
	return s.db.Close()
}
