// Package dbussink rebroadcasts bridge signals on the D-Bus session bus.
package dbussink

import (
	"fmt"

	"codeberg.org/miketth/xkbridge/pkg/bridge"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	ObjectPath = dbus.ObjectPath("/org/xkbridge/Keyboard")
	Interface  = "org.xkbridge.Keyboard"
)

// Emitter is satisfied by *dbus.Conn.
type Emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

type Sink struct {
	conn Emitter
	log  *zap.SugaredLogger
}

func New(conn Emitter, log *zap.SugaredLogger) *Sink {
	return &Sink{conn: conn, log: log}
}

// Connect opens the session bus and returns a sink emitting on it, along
// with a function closing the connection.
func Connect(log *zap.SugaredLogger) (*Sink, func() error, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, nil, fmt.Errorf("connect session bus: %w", err)
	}

	return New(conn, log), conn.Close, nil
}

func (s *Sink) Emit(signal string, args ...any) {
	var err error

	switch signal {
	case bridge.SignalMapChanged:
		err = s.conn.Emit(ObjectPath, Interface+".MapChanged")
	case bridge.SignalGroupChanged:
		group, ok := firstInt(args)
		if !ok {
			s.log.Warnw("group_changed without a group", "args", args)
			return
		}
		err = s.conn.Emit(ObjectPath, Interface+".GroupChanged", uint32(group))
	default:
		return
	}

	if err != nil {
		s.log.Warnw("emit dbus signal", "signal", signal, "error", err)
	}
}

func firstInt(args []any) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	v, ok := args[0].(int)
	return v, ok
}

var _ bridge.EventSink = (*Sink)(nil)
