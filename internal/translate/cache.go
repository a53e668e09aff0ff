package translate

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var (
	json        = jsoniter.ConfigCompatibleWithStandardLibrary
	cacheBucket = []byte("translations")
)

type persisted struct {
	Text    string `json:"t"`
	Expires int64  `json:"e"`
}

// Cache keeps translations keyed by exact source text and target language.
// The in-memory level is a bounded LRU whose entries expire after ttl; the
// optional bbolt level survives restarts.
type Cache struct {
	ttl time.Duration
	lru *expirable.LRU[string, string]
	db  *bolt.DB
}

// NewCache creates a cache of at most size entries. dbPath may be empty.
func NewCache(size int, ttl time.Duration, dbPath string) (*Cache, error) {
	if size <= 0 {
		size = 1000
	}
	c := &Cache{
		ttl: ttl,
		lru: expirable.NewLRU[string, string](size, nil, ttl),
	}
	if dbPath == "" {
		return c, nil
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open translation store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init translation store")
	}
	c.db = db
	return c, nil
}

func cacheKey(text, to string) string {
	return to + "\x00" + text
}

func (c *Cache) Get(text, to string) (string, bool) {
	key := cacheKey(text, to)
	if v, ok := c.lru.Get(key); ok {
		return v, true
	}
	if c.db == nil {
		return "", false
	}
	var entry persisted
	found := false
	_ = c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(cacheBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return err
		}
		found = c.ttl <= 0 || entry.Expires > time.Now().Unix()
		return nil
	})
	if !found {
		return "", false
	}
	c.lru.Add(key, entry.Text)
	return entry.Text, true
}

func (c *Cache) Set(text, to, translated string) {
	key := cacheKey(text, to)
	c.lru.Add(key, translated)
	if c.db == nil {
		return
	}
	raw, err := json.Marshal(persisted{Text: translated, Expires: time.Now().Add(c.ttl).Unix()})
	if err != nil {
		return
	}
	_ = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(key), raw)
	})
}

// Len number of entries held in memory
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Clear drops every cached translation on both levels.
func (c *Cache) Clear() error {
	c.lru.Purge()
	if c.db == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(cacheBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(cacheBucket)
		return err
	})
}

// PurgeExpired removes stale persisted entries and reports how many were dropped.
func (c *Cache) PurgeExpired() (int, error) {
	if c.db == nil || c.ttl <= 0 {
		return 0, nil
	}
	now := time.Now().Unix()
	removed := 0
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(cacheBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var entry persisted
			if json.Unmarshal(v, &entry) != nil || entry.Expires <= now {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
