// Package groupstore remembers the last keyboard group across restarts.
package groupstore

import (
	"time"

	"codeberg.org/miketth/xkbridge/pkg/bridge"
	"go.uber.org/zap"
)

type Record struct {
	Group     int       `json:"group"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	// LastGroup returns false if no group was ever saved.
	LastGroup() (Record, bool, error)
	SetLastGroup(group int) error
}

// Recorder saves every group announced through xkb::group_changed.
type Recorder struct {
	store Store
	log   *zap.SugaredLogger
}

func NewRecorder(store Store, log *zap.SugaredLogger) *Recorder {
	return &Recorder{store: store, log: log}
}

func (r *Recorder) Emit(signal string, args ...any) {
	if signal != bridge.SignalGroupChanged || len(args) == 0 {
		return
	}

	group, ok := args[0].(int)
	if !ok {
		return
	}

	if err := r.store.SetLastGroup(group); err != nil {
		r.log.Warnw("save last group", "group", group, "error", err)
	}
}

var _ bridge.EventSink = (*Recorder)(nil)
