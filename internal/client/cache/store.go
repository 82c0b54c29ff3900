// Package cache keeps typed JSON snapshots of client state in the local
// key/value store.
//
// Every operation is best-effort. Load reports false for an absent,
// unreadable or corrupt snapshot, Save and Purge log failures and carry on.
// Callers treat the in-memory state as authoritative and the cache as a
// convenience for start-up and offline use.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/WAVY91/front-project/internal/client/repositories/kv"
	"github.com/WAVY91/front-project/internal/dbx"
	"github.com/WAVY91/front-project/internal/logging"
)

type Store struct {
	db   *sql.DB
	repo kv.Repository
	log  logging.Logger
}

func NewStore(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, repo: kv.NewSQLiteRepository(db), log: log}
}

// Load decodes the snapshot under key into dst. dst is left untouched when
// false is returned.
func (s *Store) Load(ctx context.Context, key string, dst any) bool {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "cache read failed", "key", key, "error", err)
		return false
	}
	if raw == nil {
		return false
	}

	if !json.Valid(raw) {
		s.log.Warn(ctx, "cache snapshot is corrupt, ignoring", "key", key)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn(ctx, "cache snapshot has unexpected shape, ignoring", "key", key, "error", err)
		return false
	}

	s.log.Debug(ctx, "cache hit", "key", key, "bytes", len(raw))
	return true
}

// Save overwrites the snapshot under key with v.
func (s *Store) Save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.repo.Set(ctx, key, raw); err != nil {
		s.log.Error(ctx, "cache write failed", "key", key, "error", err)
	}
}

// Purge deletes all given keys in one transaction.
func (s *Store) Purge(ctx context.Context, keys ...string) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := kv.NewSQLiteRepository(tx)
		for _, k := range keys {
			if err := r.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "cache purge failed", "keys", keys, "error", err)
	}
}

// Keys lists the snapshot keys currently stored.
func (s *Store) Keys(ctx context.Context) []string {
	m, err := s.repo.List(ctx)
	if err != nil {
		s.log.Warn(ctx, "cache list failed", "error", err)
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
