// Package x11 connects the bridge to a live X server through xgb.
package x11

import (
	"errors"
	"fmt"

	"codeberg.org/miketth/xkbridge/pkg/bridge"
	"codeberg.org/miketth/xkbridge/pkg/xkb"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"
)

var ErrNotRunning = errors.New("X server might not be running")

// Conn implements bridge.Protocol on top of an xgb connection.
type Conn struct {
	x   *xgb.Conn
	log *zap.SugaredLogger
}

// Connect dials display, or $DISPLAY when display is empty.
func Connect(display string, log *zap.SugaredLogger) (*Conn, error) {
	x, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("dial display %q: %w, %w", display, err, ErrNotRunning)
	}

	return &Conn{x: x, log: log}, nil
}

func (c *Conn) Close() {
	c.x.Close()
}

func (c *Conn) QueryExtension() (bool, error) {
	err := xkb.Init(c.x)
	switch {
	case errors.Is(err, xkb.ErrNotPresent):
		return false, nil
	case err != nil:
		return false, err
	}

	return true, nil
}

func (c *Conn) UseExtension(wantedMajor, wantedMinor uint16) (*xkb.UseExtensionReply, error) {
	return xkb.UseExtension(c.x, wantedMajor, wantedMinor).Reply()
}

func (c *Conn) SelectEvents(device xkb.DeviceSpec, affectWhich, clear, selectAll, affectMap, mapMask uint16) {
	xkb.SelectEvents(c.x, device, affectWhich, clear, selectAll, affectMap, mapMask)
}

func (c *Conn) LatchLockState(device xkb.DeviceSpec, lockGroup bool, groupLock byte) {
	xkb.LatchLockState(c.x, device, 0, 0, lockGroup, groupLock, 0, 0, false, 0)
}

func (c *Conn) GetState(device xkb.DeviceSpec) (*xkb.GetStateReply, error) {
	return xkb.GetStateUnchecked(c.x, device).Reply()
}

func (c *Conn) GetNames(device xkb.DeviceSpec, which uint32) (*xkb.GetNamesReply, error) {
	return xkb.GetNamesUnchecked(c.x, device, which).Reply()
}

func (c *Conn) GetAtomName(atom xproto.Atom) (*xproto.GetAtomNameReply, error) {
	return xproto.GetAtomNameUnchecked(c.x, atom).Reply()
}

var _ bridge.Protocol = (*Conn)(nil)
