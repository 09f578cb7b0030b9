package sqlite

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type LastGroup struct {
	Grp       int64
	UpdatedAt int64
}

const getLastGroup = `select grp, updated_at from last_group where id = 1`

func (q *Queries) GetLastGroup(ctx context.Context) (LastGroup, error) {
	row := q.db.QueryRowContext(ctx, getLastGroup)
	var i LastGroup
	err := row.Scan(&i.Grp, &i.UpdatedAt)
	return i, err
}

const setLastGroup = `insert into last_group (id, grp, updated_at) values (1, ?, ?)
on conflict (id) do update set grp = excluded.grp, updated_at = excluded.updated_at`

type SetLastGroupParams struct {
	Grp       int64
	UpdatedAt int64
}

func (q *Queries) SetLastGroup(ctx context.Context, arg SetLastGroupParams) error {
	_, err := q.db.ExecContext(ctx, setLastGroup, arg.Grp, arg.UpdatedAt)
	return err
}

const dumpTables = `select sql from sqlite_master where type = 'table' and name not like 'sqlite_%' order by name`

func (q *Queries) DumpTables(ctx context.Context) ([]*string, error) {
	return q.dumpSQL(ctx, dumpTables)
}

const dumpRest = `select sql from sqlite_master where type != 'table' and name not like 'sqlite_%' order by name`

func (q *Queries) DumpRest(ctx context.Context) ([]*string, error) {
	return q.dumpSQL(ctx, dumpRest)
}

func (q *Queries) dumpSQL(ctx context.Context, query string) ([]*string, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*string
	for rows.Next() {
		var stmt sql.NullString
		if err := rows.Scan(&stmt); err != nil {
			return nil, err
		}
		if !stmt.Valid {
			items = append(items, nil)
			continue
		}
		s := stmt.String
		items = append(items, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
