// Package xkb implements the part of the X Keyboard Extension (XKEYBOARD)
// protocol needed to read and switch layout groups and to follow keyboard
// notifications. It plugs into github.com/BurntSushi/xgb the same way the
// generated xgb extension packages do.
package xkb

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ExtName is the name the X server registers the extension under.
const ExtName = "XKEYBOARD"

// Protocol version negotiated by UseExtension.
const (
	MajorVersion = 1
	MinorVersion = 0
)

// DeviceSpec selects the keyboard a request applies to.
type DeviceSpec uint16

const IDUseCoreKbd DeviceSpec = 0x100

// Minor opcodes.
const (
	opUseExtension   = 0
	opSelectEvents   = 1
	opGetState       = 4
	opLatchLockState = 5
	opGetNames       = 17
)

// EventType bits, used by SelectEvents.
const (
	EventTypeNewKeyboardNotify     = 1 << 0
	EventTypeMapNotify             = 1 << 1
	EventTypeStateNotify           = 1 << 2
	EventTypeControlsNotify        = 1 << 3
	EventTypeIndicatorStateNotify  = 1 << 4
	EventTypeIndicatorMapNotify    = 1 << 5
	EventTypeNamesNotify           = 1 << 6
	EventTypeCompatMapNotify       = 1 << 7
	EventTypeBellNotify            = 1 << 8
	EventTypeActionMessage         = 1 << 9
	EventTypeAccessXNotify         = 1 << 10
	EventTypeExtensionDeviceNotify = 1 << 11
)

// NKNDetail bits, reported in NewKeyboardNotify.Changed.
const (
	NKNDetailKeycodes = 1 << 0
	NKNDetailGeometry = 1 << 1
	NKNDetailDeviceID = 1 << 2
)

// StatePart bits, reported in StateNotify.Changed.
const (
	StatePartModifierState    = 1 << 0
	StatePartModifierBase     = 1 << 1
	StatePartModifierLatch    = 1 << 2
	StatePartModifierLock     = 1 << 3
	StatePartGroupState       = 1 << 4
	StatePartGroupBase        = 1 << 5
	StatePartGroupLatch       = 1 << 6
	StatePartGroupLock        = 1 << 7
	StatePartCompatState      = 1 << 8
	StatePartGrabMods         = 1 << 9
	StatePartCompatGrabMods   = 1 << 10
	StatePartLookupMods       = 1 << 11
	StatePartCompatLookupMods = 1 << 12
	StatePartPointerButtons   = 1 << 13
)

// NameDetail bits select the fields of a GetNames reply.
const (
	NameDetailKeycodes        = 1 << 0
	NameDetailGeometry        = 1 << 1
	NameDetailSymbols         = 1 << 2
	NameDetailPhysSymbols     = 1 << 3
	NameDetailTypes           = 1 << 4
	NameDetailCompat          = 1 << 5
	NameDetailKeyTypeNames    = 1 << 6
	NameDetailKTLevelNames    = 1 << 7
	NameDetailIndicatorNames  = 1 << 8
	NameDetailKeyNames        = 1 << 9
	NameDetailKeyAliases      = 1 << 10
	NameDetailVirtualModNames = 1 << 11
	NameDetailGroupNames      = 1 << 12
	NameDetailRGNames         = 1 << 13
)

var ErrNotPresent = errors.New("XKEYBOARD extension not present")

// Init queries the server for the extension, records its major opcode on c
// and routes its events to NewRawNotify. It must be called before any other
// request in this package.
func Init(c *xgb.Conn) error {
	reply, err := xproto.QueryExtension(c, uint16(len(ExtName)), ExtName).Reply()
	switch {
	case err != nil:
		return fmt.Errorf("query extension: %w", err)
	case reply == nil || !reply.Present:
		return ErrNotPresent
	}

	c.ExtLock.Lock()
	c.Extensions[ExtName] = reply.MajorOpcode
	c.ExtLock.Unlock()

	// every XKB event arrives with the same code, the subtype is in byte 1
	xgb.NewEventFuncs[int(reply.FirstEvent)] = NewRawNotify

	return nil
}

func opcode(c *xgb.Conn, request string) byte {
	c.ExtLock.RLock()
	defer c.ExtLock.RUnlock()

	op, ok := c.Extensions[ExtName]
	if !ok {
		panic("Cannot issue request '" + request + "' using the uninitialized extension '" + ExtName + "'. xkb.Init(connObj) must be called first.")
	}

	return op
}
