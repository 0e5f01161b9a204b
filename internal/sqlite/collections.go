package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/blocks/internal/definition"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// SaveDefinitions encodes defs and stores them as chunks of at most
// definition.MaxChunkLength characters, replacing any previous definition.
func (b *Backend) SaveDefinitions(collection string, defs []types.FieldDefinition) error {
	if collection == "" {
		return types.ErrInvalidCollection
	}
	chunks := definition.Encode(defs)
	if len(chunks) == 0 {
		return types.ErrMissingDefinition
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	err := b.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM definitions WHERE collection = ?", collection); err != nil {
			return err
		}
		for seq, chunk := range chunks {
			if _, err := tx.Exec(
				"INSERT INTO definitions (collection, seq, chunk) VALUES (?, ?, ?)",
				collection, seq, chunk); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save definitions %s: %w", collection, err)
	}
	b.logger.Debug("definitions saved", "collection", collection, "fields", len(defs), "chunks", len(chunks))
	return b.persistDefinitions()
}

// LoadDefinitions reassembles and parses the collection's definition.
func (b *Backend) LoadDefinitions(collection string) ([]types.FieldDefinition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	chunks, err := b.definitionChunks(collection)
	if err != nil {
		return nil, err
	}
	return definition.ParseChunks(chunks)
}

// SaveBlocks replaces the collection's blocks. The collection must have a
// definition.
func (b *Backend) SaveBlocks(collection string, blocks []types.StoredBlock) error {
	if collection == "" {
		return types.ErrInvalidCollection
	}
	bodies := make([][]byte, len(blocks))
	for i, sb := range blocks {
		if sb.ID == "" {
			return fmt.Errorf("%w: block %d has no id", types.ErrMalformedBlock, i)
		}
		body, err := json.Marshal(sb)
		if err != nil {
			return fmt.Errorf("encode block %s: %w", sb.ID, err)
		}
		bodies[i] = body
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	if _, err := b.definitionChunks(collection); err != nil {
		return err
	}

	err := b.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM blocks WHERE collection = ?", collection); err != nil {
			return err
		}
		for pos, sb := range blocks {
			if _, err := tx.Exec(
				"INSERT INTO blocks (collection, position, block_id, body) VALUES (?, ?, ?, ?)",
				collection, pos, sb.ID, string(bodies[pos])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save blocks %s: %w", collection, err)
	}
	b.logger.Debug("blocks saved", "collection", collection, "blocks", len(blocks))
	return b.persistBlocks()
}

// LoadBlocks returns the collection's blocks in saved order.
func (b *Backend) LoadBlocks(collection string) ([]types.StoredBlock, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if _, err := b.definitionChunks(collection); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT body FROM blocks WHERE collection = ? ORDER BY position", collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blocks := []types.StoredBlock{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var sb types.StoredBlock
		if err := json.Unmarshal([]byte(body), &sb); err != nil {
			return nil, fmt.Errorf("collection %s: %w", collection, err)
		}
		blocks = append(blocks, sb)
	}
	return blocks, rows.Err()
}

// Collections lists the names of collections with a definition.
func (b *Backend) Collections() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query("SELECT DISTINCT collection FROM definitions ORDER BY collection")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteCollection removes the collection's definition and blocks.
func (b *Backend) DeleteCollection(collection string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	if _, err := b.definitionChunks(collection); err != nil {
		return err
	}

	err := b.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM blocks WHERE collection = ?", collection); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM definitions WHERE collection = ?", collection)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete collection %s: %w", collection, err)
	}
	b.logger.Debug("collection deleted", "collection", collection)
	if err := b.persistDefinitions(); err != nil {
		return err
	}
	return b.persistBlocks()
}

// definitionChunks returns the stored chunks of a collection in order.
// The caller must hold b.mu.
func (b *Backend) definitionChunks(collection string) ([]string, error) {
	if collection == "" {
		return nil, types.ErrInvalidCollection
	}
	rows, err := b.db.Query(
		"SELECT chunk FROM definitions WHERE collection = ? ORDER BY seq", collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []string
	for rows.Next() {
		var chunk string
		if err := rows.Scan(&chunk); err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrCollectionNotFound, collection)
	}
	return chunks, nil
}

func (b *Backend) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// persistDefinitions rewrites definitions.jsonl from the database.
// The caller must hold b.mu.
func (b *Backend) persistDefinitions() error {
	rows, err := b.db.Query("SELECT collection, seq, chunk FROM definitions ORDER BY collection, seq")
	if err != nil {
		return err
	}
	defer rows.Close()

	var records []definitionChunkJSON
	for rows.Next() {
		var r definitionChunkJSON
		if err := rows.Scan(&r.Collection, &r.Seq, &r.Chunk); err != nil {
			return err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return persistRecords(b, definitionsJSONL, records)
}

// persistBlocks rewrites blocks.jsonl from the database.
// The caller must hold b.mu.
func (b *Backend) persistBlocks() error {
	rows, err := b.db.Query("SELECT collection, position, body FROM blocks ORDER BY collection, position")
	if err != nil {
		return err
	}
	defer rows.Close()

	var records []blockJSON
	for rows.Next() {
		var (
			r    blockJSON
			body string
		)
		if err := rows.Scan(&r.Collection, &r.Position, &body); err != nil {
			return err
		}
		r.Block = json.RawMessage(body)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return persistRecords(b, blocksJSONL, records)
}

// persistRecords rewrites the named data file with records.
func persistRecords[T any](b *Backend, name string, records []T) error {
	lines, err := marshalRecords(records)
	if err == nil {
		err = writeJSONL(b.path(name), lines)
	}
	if err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	b.logger.Debug("persisted", "file", name, "records", len(records))
	return nil
}
