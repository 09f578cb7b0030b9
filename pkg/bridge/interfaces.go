package bridge

import (
	"codeberg.org/miketth/xkbridge/pkg/xkb"
	"github.com/BurntSushi/xgb/xproto"
)

// Protocol is the part of the X connection the bridge talks to. A nil reply
// with a nil error means the server sent nothing back.
type Protocol interface {
	QueryExtension() (present bool, err error)
	UseExtension(wantedMajor, wantedMinor uint16) (*xkb.UseExtensionReply, error)
	SelectEvents(device xkb.DeviceSpec, affectWhich, clear, selectAll, affectMap, mapMask uint16)
	LatchLockState(device xkb.DeviceSpec, lockGroup bool, groupLock byte)
	GetState(device xkb.DeviceSpec) (*xkb.GetStateReply, error)
	GetNames(device xkb.DeviceSpec, which uint32) (*xkb.GetNamesReply, error)
	GetAtomName(atom xproto.Atom) (*xproto.GetAtomNameReply, error)
}

// EventSink receives the signals the bridge emits.
type EventSink interface {
	Emit(signal string, args ...any)
}

// LayoutRegistry turns layout and variant codes into descriptions. Both
// methods return "" for codes they do not know.
type LayoutRegistry interface {
	GetLayoutPrettyName(layout, variant string) string
	GetLayoutShortName(layout, variant string) string
}
