package xkb

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb"
)

func rawEvent(xkbType byte) []byte {
	buf := make([]byte, 32)
	buf[0] = 85
	buf[1] = xkbType
	xgb.Put16(buf[2:], 42)
	xgb.Put32(buf[4:], 1000)
	buf[8] = 3
	return buf
}

func TestDecodeNotify(t *testing.T) {
	t.Run("new keyboard", func(t *testing.T) {
		buf := rawEvent(NewKeyboardNotifyType)
		buf[10] = 8
		buf[11] = 255
		xgb.Put16(buf[16:], NKNDetailKeycodes|NKNDetailDeviceID)

		ev, err := DecodeNotify(buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		nkn, ok := ev.(NewKeyboardNotify)
		if !ok {
			t.Fatalf("got %T, want NewKeyboardNotify", ev)
		}
		if nkn.Changed != NKNDetailKeycodes|NKNDetailDeviceID {
			t.Errorf("Changed = %#x", nkn.Changed)
		}
		if nkn.MinKeyCode != 8 || nkn.MaxKeyCode != 255 {
			t.Errorf("key codes = %d..%d, want 8..255", nkn.MinKeyCode, nkn.MaxKeyCode)
		}
		if nkn.Sequence != 42 || nkn.Time != 1000 || nkn.DeviceID != 3 {
			t.Errorf("header = %d %d %d", nkn.Sequence, nkn.Time, nkn.DeviceID)
		}
	})

	t.Run("state", func(t *testing.T) {
		buf := rawEvent(StateNotifyType)
		buf[13] = 2
		buf[18] = 2
		xgb.Put16(buf[26:], StatePartGroupState|StatePartGroupLock)

		ev, err := DecodeNotify(buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		sn, ok := ev.(StateNotify)
		if !ok {
			t.Fatalf("got %T, want StateNotify", ev)
		}
		if sn.Group != 2 || sn.LockedGroup != 2 {
			t.Errorf("group = %d locked = %d, want 2 2", sn.Group, sn.LockedGroup)
		}
		if sn.Changed&StatePartGroupState == 0 {
			t.Errorf("Changed = %#x, group state bit missing", sn.Changed)
		}
	})

	t.Run("names", func(t *testing.T) {
		buf := rawEvent(NamesNotifyType)
		xgb.Put16(buf[10:], NameDetailSymbols)
		buf[19] = 0b11

		ev, err := DecodeNotify(buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		nn, ok := ev.(NamesNotify)
		if !ok {
			t.Fatalf("got %T, want NamesNotify", ev)
		}
		if nn.Changed != NameDetailSymbols || nn.ChangedGroupNames != 0b11 {
			t.Errorf("Changed = %#x groups = %#x", nn.Changed, nn.ChangedGroupNames)
		}
	})

	for _, typ := range []byte{MapNotifyType, ControlsNotifyType, BellNotifyType, 200} {
		ev, err := DecodeNotify(rawEvent(typ))
		if err != nil {
			t.Fatalf("decode %d: %v", typ, err)
		}
		ign, ok := ev.(IgnoredNotify)
		if !ok {
			t.Fatalf("subtype %d: got %T, want IgnoredNotify", typ, ev)
		}
		if ign.XkbType() != typ {
			t.Errorf("XkbType() = %d, want %d", ign.XkbType(), typ)
		}
	}
}

func TestDecodeNotifyShort(t *testing.T) {
	_, err := DecodeNotify(make([]byte, 12))
	if !errors.Is(err, ErrShortEvent) {
		t.Fatalf("err = %v, want ErrShortEvent", err)
	}
}

func TestRawNotifyCopiesBuffer(t *testing.T) {
	buf := rawEvent(StateNotifyType)
	ev := NewRawNotify(buf).(RawNotify)
	buf[1] = NamesNotifyType

	if ev.Bytes()[1] != StateNotifyType {
		t.Error("RawNotify must not alias the read buffer")
	}
	if ev.String() != "XkbNotify {XkbType: 2}" {
		t.Errorf("String() = %q", ev.String())
	}
}
