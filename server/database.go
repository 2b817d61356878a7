package server

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/dao/inmem"
	"github.com/dekarrin/earley/server/dao/sqlite"
)

// DBType is the storage engine behind a Database.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

// ParseDBType parses the engine part of a connection string. "none" is not
// accepted.
func ParseDBType(s string) (DBType, error) {
	switch t := DBType(strings.ToLower(s)); t {
	case DatabaseSQLite, DatabaseInMemory:
		return t, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database says where users and grammars are stored.
type Database struct {
	Type DBType

	// DataDir is the directory holding the database files. Only used by
	// DatabaseSQLite.
	DataDir string
}

// Connect opens the store. For SQLite the data directory is created if it
// does not exist.
func (db Database) Connect() (dao.Store, error) {
	if err := db.Validate(); err != nil {
		return nil, err
	}

	if db.Type == DatabaseInMemory {
		return inmem.NewDatastore(), nil
	}

	if err := os.MkdirAll(db.DataDir, 0770); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := sqlite.NewDatastore(db.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite: %w", err)
	}
	return store, nil
}

// Validate returns an error if db has an unusable type or is missing a field
// its type needs.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a connection string of the form "engine" or
// "engine:params", such as "inmem" or "sqlite:/var/earley".
func ParseDBConnString(s string) (Database, error) {
	engine, params, _ := strings.Cut(s, ":")
	params = strings.TrimSpace(params)

	t, err := ParseDBType(strings.TrimSpace(engine))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	db := Database{Type: t}
	switch t {
	case DatabaseInMemory:
		if params != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", params)
		}
	case DatabaseSQLite:
		if params == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		db.DataDir = params
	}
	return db, nil
}
