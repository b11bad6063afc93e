// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package store persists interest profiles, the append-only interaction
// log, content items, and search documents in DuckDB. All access goes
// through the typed stores; callers never see SQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/worklinkhq/relevance/internal/logging"
	"github.com/worklinkhq/relevance/internal/metrics"
)

// Config holds DuckDB connection settings.
type Config struct {
	// Path is the database file path. ":memory:" runs fully in-process.
	Path string `koanf:"path" json:"path"`

	// MaxMemory caps DuckDB memory usage, e.g. "512MB".
	MaxMemory string `koanf:"max_memory" json:"max_memory"`

	// Threads is the DuckDB thread count. Zero means NumCPU.
	Threads int `koanf:"threads" json:"threads"`

	// PreserveInsertionOrder trades memory for stable unordered results.
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order" json:"preserve_insertion_order"`
}

// DefaultConfig returns production database defaults.
func DefaultConfig() Config {
	return Config{
		Path:                   "/data/relevance/relevance.db",
		MaxMemory:              "512MB",
		Threads:                0,
		PreserveInsertionOrder: true,
	}
}

// Store wraps the DuckDB connection and owns the schema.
type Store struct {
	conn *sql.DB
	cfg  Config
}

// New opens the database, configures the connection pool, and creates the
// schema if missing.
func New(cfg Config) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}
	}

	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}

	// Auto-install/auto-load disabled to prevent hangs in restricted
	// network environments; no extensions are needed.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory, preserveOrder)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		conn: conn,
		cfg:  cfg,
	}

	s.configureConnectionPool()

	if err := s.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Msg("database opened")

	return s, nil
}

func (s *Store) configureConnectionPool() {
	s.conn.SetMaxOpenConns(runtime.NumCPU())
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)

	metrics.DBConnectionPoolSize.Set(float64(runtime.NumCPU()))
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Conn returns the underlying SQL connection for packages that need
// direct access.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Close shuts down the connection pool.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Profiles returns the interest profile store.
func (s *Store) Profiles() *ProfileStore {
	return &ProfileStore{store: s}
}

// Interactions returns the interaction log store.
func (s *Store) Interactions() *InteractionStore {
	return &InteractionStore{store: s}
}

// Content returns the content and search document store.
func (s *Store) Content() *ContentStore {
	return &ContentStore{store: s}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
