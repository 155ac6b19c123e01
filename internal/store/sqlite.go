// Package store provides the SQLite implementation of the PassageStore interface.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/internal/vector"
)

// SQLiteStore implements PassageStore using SQLite for persistence and an
// in-memory vector index for similarity search. The database is authoritative;
// the index is rebuilt from it at open.
type SQLiteStore struct {
	db         *sql.DB
	idx        *vector.MemoryIndex
	dimensions int
}

// NewSQLiteStore opens or creates a SQLite database at dbPath, initializes the
// schema, and loads all stored embeddings into the vector index. Parent
// directories are created if they do not exist.
func NewSQLiteStore(dbPath string, dimensions int) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	idx, err := vector.NewMemoryIndex(dimensions)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db, idx: idx, dimensions: dimensions}
	if err := s.loadIndex(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load vector index: %w", err)
	}
	return s, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS passages (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		metadata TEXT,
		embedding BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_passages_created_at ON passages(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// loadIndex reads every stored embedding into the in-memory index.
func (s *SQLiteStore) loadIndex(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, embedding FROM passages`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var ids []string
	var vectors [][]float32
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return err
		}
		emb, err := decodeEmbedding(blob)
		if err != nil {
			return fmt.Errorf("passage %s: %w", id, err)
		}
		if len(emb) != s.dimensions {
			return fmt.Errorf("passage %s: embedding dimension mismatch: got %d, expected %d", id, len(emb), s.dimensions)
		}
		ids = append(ids, id)
		vectors = append(vectors, emb)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return s.idx.Add(ctx, ids, vectors)
}

// MatchPassages searches the vector index and hydrates the hits from SQLite,
// preserving similarity-descending order. Scores are clamped to [0,1].
func (s *SQLiteStore) MatchPassages(ctx context.Context, queryEmbedding []float32, matchCount int) ([]*models.Passage, error) {
	if matchCount <= 0 {
		matchCount = 5
	}
	results, err := s.idx.Search(ctx, queryEmbedding, matchCount)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	passages := make([]*models.Passage, 0, len(results))
	for _, r := range results {
		p, err := s.GetPassage(ctx, r.ID)
		if err != nil {
			// Row removed between index rebuilds; skip the stale hit.
			continue
		}
		p.Similarity = vector.ClampScore(r.Score)
		passages = append(passages, p)
	}
	return passages, nil
}

// AddPassages inserts passages in a transaction and indexes their embeddings.
func (s *SQLiteStore) AddPassages(ctx context.Context, passages []*models.Passage) error {
	if len(passages) == 0 {
		return nil
	}
	for _, p := range passages {
		if p.ID == "" {
			return fmt.Errorf("passage ID cannot be empty")
		}
		if len(p.Embedding) != s.dimensions {
			return fmt.Errorf("passage %s: embedding dimension mismatch: got %d, expected %d", p.ID, len(p.Embedding), s.dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO passages (id, content, metadata, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, p := range passages {
		metadataJSON, err := json.Marshal(p.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Content, string(metadataJSON), encodeEmbedding(p.Embedding), now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	ids := make([]string, len(passages))
	vectors := make([][]float32, len(passages))
	for i, p := range passages {
		ids[i] = p.ID
		vectors[i] = p.Embedding
	}
	return s.idx.Add(ctx, ids, vectors)
}

// GetPassage returns a passage by ID, without its similarity score.
func (s *SQLiteStore) GetPassage(ctx context.Context, id string) (*models.Passage, error) {
	var p models.Passage
	var metadataJSON string
	var blob []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, metadata, embedding FROM passages WHERE id = ?`, id,
	).Scan(&p.ID, &p.Content, &metadataJSON, &blob)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("passage not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &p.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	p.Embedding, err = decodeEmbedding(blob)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePassage removes a passage from the database and the index.
func (s *SQLiteStore) DeletePassage(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM passages WHERE id = ?`, id); err != nil {
		return err
	}
	return s.idx.Remove(ctx, []string{id})
}

// CountPassages returns the total number of stored passages.
func (s *SQLiteStore) CountPassages(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&count)
	return count, err
}

// IndexSize returns the number of vectors in the search index.
func (s *SQLiteStore) IndexSize() int {
	return s.idx.Size()
}

// Close closes the database connection and releases the index.
func (s *SQLiteStore) Close() error {
	_ = s.idx.Close()
	return s.db.Close()
}

// DiskUsageBytes returns the total size of the database files at dbPath
// (including the WAL sidecar files).
func DiskUsageBytes(dbPath string) (int64, error) {
	var total int64
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

// Embeddings are stored as little-endian float32 blobs.

func encodeEmbedding(v []float32) []byte {
	const size = 4
	out := make([]byte, len(v)*size)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(x))
	}
	return out
}

func decodeEmbedding(b []byte) ([]float32, error) {
	const size = 4
	if len(b)%size != 0 {
		return nil, fmt.Errorf("malformed embedding blob: %d bytes", len(b))
	}
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out, nil
}
