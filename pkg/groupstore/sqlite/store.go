package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"codeberg.org/miketth/xkbridge/pkg/groupstore"
	"codeberg.org/miketth/xkbridge/pkg/groupstore/sqlite/migrations"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type GroupStore struct {
	db      *sql.DB
	querier *Queries
	now     func() time.Time
}

func NewGroupStore(filename string, log *zap.SugaredLogger) (*GroupStore, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &GroupStore{
		db:      db,
		querier: New(db),
		now:     time.Now,
	}, nil
}

func (s *GroupStore) Close() error {
	return s.db.Close()
}

func (s *GroupStore) LastGroup() (groupstore.Record, bool, error) {
	row, err := s.querier.GetLastGroup(context.Background())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return groupstore.Record{}, false, nil
	case err != nil:
		return groupstore.Record{}, false, fmt.Errorf("sqlite select: %w", err)
	}

	return groupstore.Record{
		Group:     int(row.Grp),
		UpdatedAt: time.Unix(row.UpdatedAt, 0),
	}, true, nil
}

func (s *GroupStore) SetLastGroup(group int) error {
	if err := s.querier.SetLastGroup(context.Background(), SetLastGroupParams{
		Grp:       int64(group),
		UpdatedAt: s.now().Unix(),
	}); err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}

	return nil
}
