package xkb

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// XKB event subtypes, carried in the second byte of every XKB event.
const (
	NewKeyboardNotifyType     = 0
	MapNotifyType             = 1
	StateNotifyType           = 2
	ControlsNotifyType        = 3
	IndicatorStateNotifyType  = 4
	IndicatorMapNotifyType    = 5
	NamesNotifyType           = 6
	CompatMapNotifyType       = 7
	BellNotifyType            = 8
	ActionMessageType         = 9
	AccessXNotifyType         = 10
	ExtensionDeviceNotifyType = 11
)

const eventSize = 32

var ErrShortEvent = errors.New("xkb event shorter than 32 bytes")

// RawNotify is an XKB event as xgb delivers it, before subtype dispatch.
type RawNotify []byte

// NewRawNotify is registered with xgb for the extension's event code.
func NewRawNotify(buf []byte) xgb.Event {
	ev := make(RawNotify, len(buf))
	copy(ev, buf)
	return ev
}

func (ev RawNotify) Bytes() []byte {
	return ev
}

func (ev RawNotify) String() string {
	if len(ev) < 2 {
		return "XkbNotify {}"
	}
	return fmt.Sprintf("XkbNotify {XkbType: %d}", ev[1])
}

// Notify is one decoded XKB event. The concrete type is one of
// NewKeyboardNotify, StateNotify, NamesNotify or IgnoredNotify.
type Notify interface {
	XkbType() byte
}

type NewKeyboardNotify struct {
	Sequence      uint16
	Time          xproto.Timestamp
	DeviceID      byte
	OldDeviceID   byte
	MinKeyCode    xproto.Keycode
	MaxKeyCode    xproto.Keycode
	OldMinKeyCode xproto.Keycode
	OldMaxKeyCode xproto.Keycode
	RequestMajor  byte
	RequestMinor  byte
	Changed       uint16
}

func (NewKeyboardNotify) XkbType() byte { return NewKeyboardNotifyType }

type StateNotify struct {
	Sequence         uint16
	Time             xproto.Timestamp
	DeviceID         byte
	Mods             byte
	BaseMods         byte
	LatchedMods      byte
	LockedMods       byte
	Group            byte
	BaseGroup        int16
	LatchedGroup     int16
	LockedGroup      byte
	CompatState      byte
	GrabMods         byte
	CompatGrabMods   byte
	LookupMods       byte
	CompatLookupMods byte
	PtrBtnState      uint16
	Changed          uint16
	Keycode          xproto.Keycode
	EventType        byte
	RequestMajor     byte
	RequestMinor     byte
}

func (StateNotify) XkbType() byte { return StateNotifyType }

type NamesNotify struct {
	Sequence           uint16
	Time               xproto.Timestamp
	DeviceID           byte
	Changed            uint16
	FirstType          byte
	NTypes             byte
	FirstLevelName     byte
	NLevelNames        byte
	NRadioGroups       byte
	NKeyAliases        byte
	ChangedGroupNames  byte
	ChangedVirtualMods uint16
	FirstKey           xproto.Keycode
	NKeys              byte
	ChangedIndicators  uint32
}

func (NamesNotify) XkbType() byte { return NamesNotifyType }

// IgnoredNotify stands for every subtype the bridge does not act on.
type IgnoredNotify struct {
	Type     byte
	Sequence uint16
}

func (n IgnoredNotify) XkbType() byte { return n.Type }

// DecodeNotify turns the raw 32 bytes of an XKB event into its variant.
func DecodeNotify(buf []byte) (Notify, error) {
	if len(buf) < eventSize {
		return nil, ErrShortEvent
	}

	seq := xgb.Get16(buf[2:])
	t := xproto.Timestamp(xgb.Get32(buf[4:]))

	switch buf[1] {
	case NewKeyboardNotifyType:
		return NewKeyboardNotify{
			Sequence:      seq,
			Time:          t,
			DeviceID:      buf[8],
			OldDeviceID:   buf[9],
			MinKeyCode:    xproto.Keycode(buf[10]),
			MaxKeyCode:    xproto.Keycode(buf[11]),
			OldMinKeyCode: xproto.Keycode(buf[12]),
			OldMaxKeyCode: xproto.Keycode(buf[13]),
			RequestMajor:  buf[14],
			RequestMinor:  buf[15],
			Changed:       xgb.Get16(buf[16:]),
		}, nil

	case StateNotifyType:
		return StateNotify{
			Sequence:         seq,
			Time:             t,
			DeviceID:         buf[8],
			Mods:             buf[9],
			BaseMods:         buf[10],
			LatchedMods:      buf[11],
			LockedMods:       buf[12],
			Group:            buf[13],
			BaseGroup:        int16(xgb.Get16(buf[14:])),
			LatchedGroup:     int16(xgb.Get16(buf[16:])),
			LockedGroup:      buf[18],
			CompatState:      buf[19],
			GrabMods:         buf[20],
			CompatGrabMods:   buf[21],
			LookupMods:       buf[22],
			CompatLookupMods: buf[23],
			PtrBtnState:      xgb.Get16(buf[24:]),
			Changed:          xgb.Get16(buf[26:]),
			Keycode:          xproto.Keycode(buf[28]),
			EventType:        buf[29],
			RequestMajor:     buf[30],
			RequestMinor:     buf[31],
		}, nil

	case NamesNotifyType:
		return NamesNotify{
			Sequence:           seq,
			Time:               t,
			DeviceID:           buf[8],
			Changed:            xgb.Get16(buf[10:]),
			FirstType:          buf[12],
			NTypes:             buf[13],
			FirstLevelName:     buf[14],
			NLevelNames:        buf[15],
			NRadioGroups:       buf[17],
			NKeyAliases:        buf[18],
			ChangedGroupNames:  buf[19],
			ChangedVirtualMods: xgb.Get16(buf[20:]),
			FirstKey:           xproto.Keycode(buf[22]),
			NKeys:              buf[23],
			ChangedIndicators:  xgb.Get32(buf[24:]),
		}, nil
	}

	return IgnoredNotify{Type: buf[1], Sequence: seq}, nil
}
