package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/adl2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketSettings = "settings"
)

var errKeyNotFound = errors.New("key not found")

// BoltSettings persists values in a bbolt database.
// The database is only opened for the duration of a single operation,
// so the CLI can modify settings while the daemon is running.
type BoltSettings struct {
	dbPath string
}

func NewBoltSettings(dbPath string) *BoltSettings {
	return &BoltSettings{
		dbPath: dbPath,
	}
}

// Init makes sure the parent directory of the database exists
func (s *BoltSettings) Init() (err error) {
	parentDir := filepath.Dir(s.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
	}
	return err
}

func (s *BoltSettings) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(s.dbPath, 0600, &bolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (s *BoltSettings) GetValue(key string, defaultValue string) string {
	value, err := s.load(key)
	if err != nil {
		if !errors.Is(err, errKeyNotFound) {
			ui.Warning("Unable to read setting %s: %v", key, err)
		}
		return defaultValue
	}
	return value
}

func (s *BoltSettings) SetValue(key string, value string) {
	err := s.update(func(b *bolt.Bucket) error {
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		ui.Warning("Unable to save setting %s: %v", key, err)
	}
}

func (s *BoltSettings) Contains(key string) bool {
	_, err := s.load(key)
	return err == nil
}

func (s *BoltSettings) Remove(key string) {
	err := s.update(func(b *bolt.Bucket) error {
		return b.Delete([]byte(key))
	})
	if err != nil {
		ui.Warning("Unable to delete setting %s: %v", key, err)
	}
}

// Items returns all stored values
func (s *BoltSettings) Items() (map[string]string, error) {
	db, err := s.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	result := map[string]string{}
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSettings))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			result[string(k)] = string(v)
			return nil
		})
	})
	return result, err
}

func (s *BoltSettings) load(key string) (value string, err error) {
	db, err := s.openPersistence()
	if err != nil {
		return "", err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSettings))
		if b == nil {
			return errKeyNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return errKeyNotFound
		}
		// v is only valid during the transaction
		value = string(v)
		return nil
	})
	return value, err
}

func (s *BoltSettings) update(f func(b *bolt.Bucket) error) error {
	db, err := s.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketSettings))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return f(b)
	})
}
