package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"codeberg.org/miketth/xkbridge/pkg/groupstore"
)

// GroupStore keeps the record in memory and writes it to a file from
// SaveLooper.
type GroupStore struct {
	record *groupstore.Record
	file   *os.File
	lock   sync.Mutex
	dirty  bool
	now    func() time.Time
}

func NewGroupStore(filename string) (*GroupStore, error) {
	fileExists := true
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		fileExists = false
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	store := &GroupStore{
		file: file,
		now:  time.Now,
	}

	if fileExists && info.Size() > 0 {
		if err := store.load(); err != nil {
			file.Close()
			return nil, fmt.Errorf("load: %w", err)
		}
	}

	return store, nil
}

func (s *GroupStore) Close() error {
	return s.file.Close()
}

func (s *GroupStore) load() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.file.Seek(0, 0)
	if err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	var record groupstore.Record
	if err := json.NewDecoder(s.file).Decode(&record); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	s.record = &record

	return nil
}

// Save writes the record if it changed since the last save.
func (s *GroupStore) Save() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.dirty || s.record == nil {
		return nil
	}

	_, err := s.file.Seek(0, 0)
	if err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	err = s.file.Truncate(0)
	if err != nil {
		return fmt.Errorf("truncate file: %w", err)
	}

	if err := json.NewEncoder(s.file).Encode(s.record); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	s.dirty = false

	return nil
}

// SaveLooper saves once a minute and a last time when ctx is done. It closes
// the file on return.
func (s *GroupStore) SaveLooper(ctx context.Context) error {
	defer s.file.Close()

	for {
		select {
		case <-ctx.Done():
			if err := s.Save(); err != nil {
				return fmt.Errorf("save: %w", err)
			}

			return ctx.Err()
		case <-time.After(time.Minute):
			if err := s.Save(); err != nil {
				return fmt.Errorf("save: %w", err)
			}
		}
	}
}

func (s *GroupStore) LastGroup() (groupstore.Record, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.record == nil {
		return groupstore.Record{}, false, nil
	}
	return *s.record, true, nil
}

func (s *GroupStore) SetLastGroup(group int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.record = &groupstore.Record{Group: group, UpdatedAt: s.now()}
	s.dirty = true
	return nil
}
