package creds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"gitlab.com/tinyland/lab/strum/pkg/remote"
)

var (
	tokenBucket = []byte("tokens")
	tokenKey    = []byte("session")
)

// ErrNoToken means the store has never seen a token; the caller has to run
// the initial authorization flow.
var ErrNoToken = errors.New("creds: no stored token")

// TokenStore persists the session token across runs in a bolt database.
type TokenStore struct {
	db *bbolt.DB
}

// OpenTokenStore opens (creating if needed) the token database at path.
func OpenTokenStore(path string) (*TokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creds: create token dir: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("creds: open token store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tokenBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creds: create token bucket: %w", err)
	}
	return &TokenStore{db: db}, nil
}

// Save overwrites the stored token. Idempotent.
func (s *TokenStore) Save(t remote.Token) error {
	value, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("creds: encode token: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(tokenBucket).Put(tokenKey, value)
	})
}

// Load returns the stored token or ErrNoToken.
func (s *TokenStore) Load() (remote.Token, error) {
	var t remote.Token
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(tokenBucket).Get(tokenKey)
		if v == nil {
			return ErrNoToken
		}
		return json.Unmarshal(v, &t)
	})
	if err != nil {
		return remote.Token{}, err
	}
	return t, nil
}

// Close releases the database file.
func (s *TokenStore) Close() error {
	return s.db.Close()
}
