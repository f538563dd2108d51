/*
Package registry keeps a persistent record of the module ids handed out to
asset groups and sounds, so that every asset keeps the same id from one
compile to the next.
*/
package registry

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/bodgit/stir/asset"
	_ "github.com/mattn/go-sqlite3"
)

const (
	kindGroup = "group"
	kindSound = "sound"
)

// DB is an id registry backed by SQLite. It implements cpp.IDAllocator.
type DB struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens, creating if necessary, the registry in file
func Open(file string, logger *log.Logger) (*DB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS module (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, kind TEXT NOT NULL, name TEXT NOT NULL, signature TEXT, UNIQUE(kind, name))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the underlying database
func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) lookup(kind, name string) (uint32, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM module WHERE kind = ? AND name = ?", kind, name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO module (kind, name) VALUES (?, ?)", kind, name)
		if err != nil {
			return 0, err
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, err
		}
		db.logger.Printf("Registered %s \"%s\" as module %d\n", kind, name, id)
		return uint32(id), nil
	case nil:
		return uint32(id), nil
	default:
		return 0, err
	}
}

// GroupID returns the id registered for g, registering it if it's new. The
// group's signature is recorded and a change is logged. The writer only
// asks once g has encoded, so the signature is the one being written.
func (db *DB) GroupID(g *asset.Group) (uint32, error) {
	id, err := db.lookup(kindGroup, g.Name())
	if err != nil {
		return 0, err
	}

	sig := fmt.Sprintf("%016X", g.Signature())

	var prev sql.NullString
	if err := db.db.QueryRow("SELECT signature FROM module WHERE id = ?", id).Scan(&prev); err != nil {
		return 0, err
	}
	if prev.Valid && !strings.EqualFold(prev.String, sig) {
		db.logger.Printf("Group \"%s\" changed, signature %s was %s\n", g.Name(), sig, prev.String)
	}

	if _, err := db.db.Exec("UPDATE module SET signature = ? WHERE id = ?", sig, id); err != nil {
		return 0, err
	}

	return id, nil
}

// SoundID returns the id registered for s, registering it if it's new
func (db *DB) SoundID(s *asset.Sound) (uint32, error) {
	return db.lookup(kindSound, s.Name())
}

// Signature returns the last signature recorded for the named group
func (db *DB) Signature(name string) (uint64, bool, error) {
	var sig sql.NullString
	switch err := db.db.QueryRow("SELECT signature FROM module WHERE kind = ? AND name = ?", kindGroup, name).Scan(&sig); err {
	case sql.ErrNoRows:
		return 0, false, nil
	case nil:
		if !sig.Valid {
			return 0, false, nil
		}
		var v uint64
		if _, err := fmt.Sscanf(sig.String, "%X", &v); err != nil {
			return 0, false, err
		}
		return v, true, nil
	default:
		return 0, false, err
	}
}
