// Package bridge exposes the XKB layout group state of an X server to a
// scripting host: it switches and reads the active group, resolves the
// symbols name of the keymap, and turns XKB notifications into signals.
package bridge

import (
	"codeberg.org/miketth/xkbridge/pkg/symbols"
	"codeberg.org/miketth/xkbridge/pkg/xkb"
	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"
)

const (
	SignalMapChanged   = "xkb::map_changed"
	SignalGroupChanged = "xkb::group_changed"
)

// Events selected on the core keyboard at Init.
const selectedEvents = xkb.EventTypeStateNotify | xkb.EventTypeMapNotify | xkb.EventTypeNewKeyboardNotify

type Bridge struct {
	conn     Protocol
	sink     EventSink
	registry LayoutRegistry
	log      *zap.SugaredLogger

	device xkb.DeviceSpec
	active bool
}

// NewBridge returns an uninitialized bridge. registry may be nil, in which
// case DescribeGroups reports raw layout codes.
func NewBridge(
	conn Protocol,
	sink EventSink,
	registry LayoutRegistry,
	log *zap.SugaredLogger,
) *Bridge {
	if sink == nil {
		sink = NopSink{}
	}

	return &Bridge{
		conn:     conn,
		sink:     sink,
		registry: registry,
		log:      log,
		device:   xkb.IDUseCoreKbd,
	}
}

// SetLayoutGroup locks the core keyboard to group. The value is sent as is;
// the server decides what an out of range group means.
func (b *Bridge) SetLayoutGroup(group int) {
	b.conn.LatchLockState(b.device, true, byte(group))
}

// GetLayoutGroup returns the effective group of the core keyboard. ok is
// false when the server did not reply.
func (b *Bridge) GetLayoutGroup() (group int, ok bool) {
	reply, err := b.conn.GetState(b.device)
	if err != nil || reply == nil {
		b.log.Debugw("no reply to GetState", "error", err)
		return 0, false
	}

	return int(reply.Group), true
}

// GetGroupNames returns the symbols name of the current keymap, for example
// "pc+us+de:2+inet(evdev)". ok is false, and a warning is logged, when either
// lookup fails.
func (b *Bridge) GetGroupNames() (names string, ok bool) {
	namesReply, err := b.conn.GetNames(b.device, xkb.NameDetailSymbols)
	if err != nil || namesReply == nil {
		b.log.Warnw("Failed to get xkb symbols name", "error", err)
		return "", false
	}

	values, err := xkb.UnpackNamesValueList(namesReply.ValueList, namesReply.Counts())
	if err != nil {
		b.log.Warnw("Failed to get xkb symbols name", "error", err)
		return "", false
	}

	atomReply, err := b.conn.GetAtomName(values.SymbolsName)
	if err != nil || atomReply == nil {
		b.log.Warnw("Failed to get atom symbols name", "atom", values.SymbolsName, "error", err)
		return "", false
	}

	return atomName(atomReply), true
}

func atomName(reply *xproto.GetAtomNameReply) string {
	name := reply.Name
	if int(reply.NameLen) < len(name) {
		name = name[:reply.NameLen]
	}
	return name
}

// GroupDescription is one configured group with a human readable name.
// Short is the label a layout indicator shows, "en" for "English (US)".
type GroupDescription struct {
	Group       int
	Layout      string
	Variant     string
	Short       string
	Description string
}

// DescribeGroups resolves every group named by the keymap's symbols to a
// description such as "English (US)".
func (b *Bridge) DescribeGroups() ([]GroupDescription, bool) {
	names, ok := b.GetGroupNames()
	if !ok {
		return nil, false
	}

	groups := symbols.Parse(names)
	out := make([]GroupDescription, 0, len(groups))
	for _, g := range groups {
		desc, short := "", ""
		if b.registry != nil {
			desc = b.registry.GetLayoutPrettyName(g.Layout, g.Variant)
			short = b.registry.GetLayoutShortName(g.Layout, g.Variant)
		}
		if desc == "" {
			desc = g.String()
		}
		if short == "" {
			short = g.Layout
		}

		out = append(out, GroupDescription{
			Group:       g.Index,
			Layout:      g.Layout,
			Variant:     g.Variant,
			Short:       short,
			Description: desc,
		})
	}

	return out, true
}
