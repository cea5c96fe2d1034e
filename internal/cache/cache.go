package cache

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/gob"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/version"
)

// Cache stores resolved Units keyed by source digest and target version.
// Conditionals are resolved at parse time, so a Unit is only valid for
// the exact target it was parsed under; the target is part of the key.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS units (
	digest  TEXT NOT NULL,
	target  TEXT NOT NULL,
	unit    BLOB NOT NULL,
	PRIMARY KEY (digest, target)
);`

func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached Unit for this exact source text and target, or
// nil on a miss. A decode failure is treated as a miss: the entry format
// may predate the current node model.
func (c *Cache) Get(sourceCode string, target version.Version) (*ast.Unit, error) {
	var blob []byte
	err := c.db.QueryRow(
		"SELECT unit FROM units WHERE digest = ? AND target = ?",
		digest(sourceCode), target.String(),
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	var unit ast.Unit
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&unit); err != nil {
		return nil, nil
	}
	return &unit, nil
}

// Put stores a resolved Unit.
func (c *Cache) Put(sourceCode string, target version.Version, unit *ast.Unit) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(unit); err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO units (digest, target, unit) VALUES (?, ?, ?)",
		digest(sourceCode), target.String(), buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func digest(sourceCode string) string {
	sum := sha256.Sum256([]byte(sourceCode))
	return hex.EncodeToString(sum[:])
}

// gob needs every concrete node that can sit behind a Declaration or
// TypeExpr interface.
func init() {
	gob.Register(&ast.ClassDef{})
	gob.Register(&ast.FuncDef{})
	gob.Register(&ast.Constant{})
	gob.Register(&ast.TypeAlias{})
	gob.Register(&ast.Import{})
	gob.Register(&ast.FromImport{})
	gob.Register(&ast.TypeVarDef{})
	gob.Register(&ast.NamedType{})
	gob.Register(&ast.GenericType{})
	gob.Register(&ast.UnionType{})
	gob.Register(&ast.AnythingType{})
	gob.Register(&ast.NothingType{})
	gob.Register(&ast.EllipsisType{})
	gob.Register(&ast.NamedTupleType{})
}
