package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketPrefs = []byte("prefs")

const keyLastCamera = "last_camera"

// cameraPref is the stored form of the last used camera
type cameraPref struct {
	ID     string    `json:"id"`
	UsedAt time.Time `json:"used_at"`
}

// PrefStore keeps small user preferences in BoltDB.
// Scan sessions and results are never written here.
type PrefStore struct {
	db *bolt.DB
	mu sync.RWMutex

	// Values written this run; memory-only mode uses nothing else
	cache map[string][]byte
}

// NewPrefStore opens the preference database at path.
// An empty path gives a memory-only store.
func NewPrefStore(path string) (*PrefStore, error) {
	if path == "" {
		return &PrefStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPrefs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PrefStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *PrefStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LastCamera returns the ID of the camera used most recently, or ""
func (s *PrefStore) LastCamera() string {
	var pref cameraPref
	if !s.get(keyLastCamera, &pref) {
		return ""
	}
	return pref.ID
}

// SetLastCamera records the camera that just started scanning
func (s *PrefStore) SetLastCamera(id string) error {
	return s.put(keyLastCamera, cameraPref{ID: id, UsedAt: time.Now()})
}

func (s *PrefStore) get(key string, dest any) bool {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketPrefs).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return false
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *PrefStore) put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put([]byte(key), data)
	})
}
