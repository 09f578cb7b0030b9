package memory

import (
	"sync"
	"time"

	"codeberg.org/miketth/xkbridge/pkg/groupstore"
)

type GroupStore struct {
	lock   sync.Mutex
	record groupstore.Record
	set    bool
	now    func() time.Time
}

func NewGroupStore() *GroupStore {
	return &GroupStore{now: time.Now}
}

func (s *GroupStore) LastGroup() (groupstore.Record, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.record, s.set, nil
}

func (s *GroupStore) SetLastGroup(group int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.record = groupstore.Record{Group: group, UpdatedAt: s.now()}
	s.set = true
	return nil
}
