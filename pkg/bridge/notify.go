package bridge

import (
	"codeberg.org/miketth/xkbridge/pkg/xkb"
)

// HandleNotify emits the signals an XKB notification calls for.
func (b *Bridge) HandleNotify(ev xkb.Notify) {
	switch ev := ev.(type) {
	case xkb.NewKeyboardNotify:
		if ev.Changed&xkb.NKNDetailKeycodes != 0 {
			b.sink.Emit(SignalMapChanged)
		}
	case xkb.NamesNotify:
		b.sink.Emit(SignalMapChanged)
	case xkb.StateNotify:
		if ev.Changed&xkb.StatePartGroupState != 0 {
			b.sink.Emit(SignalGroupChanged, int(ev.Group))
		}
	case xkb.IgnoredNotify:
	}
}
