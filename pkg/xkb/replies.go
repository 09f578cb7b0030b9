package xkb

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// UseExtensionReply represents the data returned from a UseExtension request.
type UseExtensionReply struct {
	Sequence    uint16
	Length      uint32
	Supported   bool
	ServerMajor uint16
	ServerMinor uint16
}

func useExtensionReply(buf []byte) *UseExtensionReply {
	v := new(UseExtensionReply)
	if len(buf) < 12 {
		return v
	}

	v.Supported = buf[1] == 1
	v.Sequence = xgb.Get16(buf[2:])
	v.Length = xgb.Get32(buf[4:])
	v.ServerMajor = xgb.Get16(buf[8:])
	v.ServerMinor = xgb.Get16(buf[10:])

	return v
}

// GetStateReply represents the data returned from a GetState request.
type GetStateReply struct {
	Sequence         uint16
	Length           uint32
	DeviceID         byte
	Mods             byte
	BaseMods         byte
	LatchedMods      byte
	LockedMods       byte
	Group            byte
	LockedGroup      byte
	BaseGroup        int16
	LatchedGroup     int16
	CompatState      byte
	GrabMods         byte
	CompatGrabMods   byte
	LookupMods       byte
	CompatLookupMods byte
	PtrBtnState      uint16
}

func getStateReply(buf []byte) *GetStateReply {
	v := new(GetStateReply)
	if len(buf) < 32 {
		return v
	}

	v.DeviceID = buf[1]
	v.Sequence = xgb.Get16(buf[2:])
	v.Length = xgb.Get32(buf[4:])
	v.Mods = buf[8]
	v.BaseMods = buf[9]
	v.LatchedMods = buf[10]
	v.LockedMods = buf[11]
	v.Group = buf[12]
	v.LockedGroup = buf[13]
	v.BaseGroup = int16(xgb.Get16(buf[14:]))
	v.LatchedGroup = int16(xgb.Get16(buf[16:]))
	v.CompatState = buf[18]
	v.GrabMods = buf[19]
	v.CompatGrabMods = buf[20]
	v.LookupMods = buf[21]
	v.CompatLookupMods = buf[22]
	v.PtrBtnState = xgb.Get16(buf[24:])

	return v
}

// GetNamesReply represents the fixed part of a GetNames reply. ValueList
// holds the variable part, decoded with UnpackNamesValueList.
type GetNamesReply struct {
	Sequence     uint16
	Length       uint32
	DeviceID     byte
	Which        uint32
	MinKeyCode   xproto.Keycode
	MaxKeyCode   xproto.Keycode
	NTypes       byte
	GroupNames   byte
	VirtualMods  uint16
	FirstKey     xproto.Keycode
	NKeys        byte
	Indicators   uint32
	NRadioGroups byte
	NKeyAliases  byte
	NKTLevels    uint16
	ValueList    []byte
}

func getNamesReply(buf []byte) *GetNamesReply {
	v := new(GetNamesReply)
	if len(buf) < 32 {
		return v
	}

	v.DeviceID = buf[1]
	v.Sequence = xgb.Get16(buf[2:])
	v.Length = xgb.Get32(buf[4:])
	v.Which = xgb.Get32(buf[8:])
	v.MinKeyCode = xproto.Keycode(buf[12])
	v.MaxKeyCode = xproto.Keycode(buf[13])
	v.NTypes = buf[14]
	v.GroupNames = buf[15]
	v.VirtualMods = xgb.Get16(buf[16:])
	v.FirstKey = xproto.Keycode(buf[18])
	v.NKeys = buf[19]
	v.Indicators = xgb.Get32(buf[20:])
	v.NRadioGroups = buf[24]
	v.NKeyAliases = buf[25]
	v.NKTLevels = xgb.Get16(buf[26:])

	end := 32 + int(v.Length)*4
	if end > len(buf) {
		end = len(buf)
	}
	v.ValueList = buf[32:end]

	return v
}

// Counts returns the fields of the reply that size its value list.
func (r *GetNamesReply) Counts() NamesCounts {
	return NamesCounts{
		NTypes:       r.NTypes,
		Indicators:   r.Indicators,
		VirtualMods:  r.VirtualMods,
		GroupNames:   r.GroupNames,
		NKeys:        r.NKeys,
		NKeyAliases:  r.NKeyAliases,
		NRadioGroups: r.NRadioGroups,
		Which:        r.Which,
	}
}
