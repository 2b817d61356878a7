package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/earley/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsDBConn(file string) (*GrammarsDB, error) {
	repo := &GrammarsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init(false)
}

const grammarColumns = `id, owner_id, name, data, created, modified`

// GrammarsDB is the grammars table. Grammar data is stored base64-encoded.
type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		name TEXT NOT NULL,
		data TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx, `INSERT INTO grammars (`+grammarColumns+`) VALUES (?, ?, ?, ?, ?, ?);`,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(g.OwnerID),
		g.Name,
		convertToDB_Blob(g.Data),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

// GetAllByOwner returns the owner's grammars ordered by name, then ID.
func (repo *GrammarsDB) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+grammarColumns+` FROM grammars WHERE owner_id = ? ORDER BY name, id;`,
		convertToDB_UUID(ownerID),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all := []dao.Grammar{}
	for rows.Next() {
		g, err := scanGrammar(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+grammarColumns+` FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	return scanGrammar(row)
}

func (repo *GrammarsDB) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	// created is kept
	res, err := repo.db.ExecContext(ctx, `UPDATE grammars SET id=?, owner_id=?, name=?, data=?, modified=? WHERE id=?;`,
		convertToDB_UUID(g.ID),
		convertToDB_UUID(g.OwnerID),
		g.Name,
		convertToDB_Blob(g.Data),
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err := checkAffected(res, err); err != nil {
		return dao.Grammar{}, err
	}

	return repo.GetByID(ctx, g.ID)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	if err := checkAffected(res, err); err != nil {
		return curVal, err
	}

	return curVal, nil
}

func (repo *GrammarsDB) Close() error {
	return repo.db.Close()
}

func scanGrammar(row rowScanner) (dao.Grammar, error) {
	var g dao.Grammar
	var id, ownerID, data string
	var created, modified int64

	err := row.Scan(&id, &ownerID, &g.Name, &data, &created, &modified)
	if err != nil {
		return g, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return g, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(ownerID, &g.OwnerID); err != nil {
		return g, fmt.Errorf("stored owner ID %q is invalid: %w", ownerID, err)
	}
	if err := convertFromDB_Blob(data, &g.Data); err != nil {
		return g, fmt.Errorf("stored data for grammar %q is invalid: %w", id, err)
	}
	if err := convertFromDB_Time(created, &g.Created); err != nil {
		return g, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}
	if err := convertFromDB_Time(modified, &g.Modified); err != nil {
		return g, fmt.Errorf("stored modified time %d is invalid: %w", modified, err)
	}

	return g, nil
}
