package bridge

import (
	"errors"
	"reflect"
	"testing"

	"codeberg.org/miketth/xkbridge/pkg/xkb"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const symbolsAtom = 311

type fakeProtocol struct {
	present    bool
	queryErr   error
	useReply   *xkb.UseExtensionReply
	useErr     error
	group      byte
	stateNil   bool
	namesNil   bool
	namesErr   error
	atomNil    bool
	atomNames  map[xproto.Atom]string
	namesWhich uint32

	selects [][5]uint16
	locks   []byte
}

func newFakeProtocol() *fakeProtocol {
	return &fakeProtocol{
		present:    true,
		useReply:   &xkb.UseExtensionReply{Supported: true, ServerMajor: 1},
		atomNames:  map[xproto.Atom]string{symbolsAtom: "pc+us+de:2+inet(evdev)"},
		namesWhich: xkb.NameDetailSymbols,
	}
}

func (f *fakeProtocol) QueryExtension() (bool, error) {
	return f.present, f.queryErr
}

func (f *fakeProtocol) UseExtension(wantedMajor, wantedMinor uint16) (*xkb.UseExtensionReply, error) {
	return f.useReply, f.useErr
}

func (f *fakeProtocol) SelectEvents(device xkb.DeviceSpec, affectWhich, clear, selectAll, affectMap, mapMask uint16) {
	f.selects = append(f.selects, [5]uint16{affectWhich, clear, selectAll, affectMap, mapMask})
}

func (f *fakeProtocol) LatchLockState(device xkb.DeviceSpec, lockGroup bool, groupLock byte) {
	f.locks = append(f.locks, groupLock)
	if lockGroup {
		f.group = groupLock
	}
}

func (f *fakeProtocol) GetState(device xkb.DeviceSpec) (*xkb.GetStateReply, error) {
	if f.stateNil {
		return nil, nil
	}
	return &xkb.GetStateReply{Group: f.group}, nil
}

func (f *fakeProtocol) GetNames(device xkb.DeviceSpec, which uint32) (*xkb.GetNamesReply, error) {
	if f.namesNil || f.namesErr != nil {
		return nil, f.namesErr
	}

	// keycodes and geometry ride along when the server sends more than asked
	var atoms []uint32
	if f.namesWhich&xkb.NameDetailKeycodes != 0 {
		atoms = append(atoms, 101)
	}
	if f.namesWhich&xkb.NameDetailGeometry != 0 {
		atoms = append(atoms, 102)
	}
	atoms = append(atoms, symbolsAtom)

	values := make([]byte, 4*len(atoms))
	for i, a := range atoms {
		xgb.Put32(values[i*4:], a)
	}

	return &xkb.GetNamesReply{
		Which:      f.namesWhich,
		NTypes:     3,
		NKeys:      100,
		Indicators: 0xff,
		ValueList:  values,
	}, nil
}

func (f *fakeProtocol) GetAtomName(atom xproto.Atom) (*xproto.GetAtomNameReply, error) {
	if f.atomNil {
		return nil, nil
	}
	name, ok := f.atomNames[atom]
	if !ok {
		return nil, errors.New("bad atom")
	}
	return &xproto.GetAtomNameReply{NameLen: uint16(len(name)), Name: name}, nil
}

type emission struct {
	signal string
	args   []any
}

type recordingSink struct {
	emitted []emission
}

func (s *recordingSink) Emit(signal string, args ...any) {
	s.emitted = append(s.emitted, emission{signal: signal, args: args})
}

type fakeRegistry map[string][2]string

func (r fakeRegistry) GetLayoutPrettyName(layout, variant string) string {
	return r[layout][0]
}

func (r fakeRegistry) GetLayoutShortName(layout, variant string) string {
	return r[layout][1]
}

func newTestBridge(conn Protocol) (*Bridge, *recordingSink, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := &recordingSink{}
	registry := fakeRegistry{"us": {"English (US)", "en"}}
	return NewBridge(conn, sink, registry, zap.New(core).Sugar()), sink, logs
}

func TestLayoutGroupRoundTrip(t *testing.T) {
	conn := newFakeProtocol()
	b, _, _ := newTestBridge(conn)

	for group := 0; group <= 3; group++ {
		b.SetLayoutGroup(group)
		got, ok := b.GetLayoutGroup()
		if !ok {
			t.Fatalf("group %d: no result", group)
		}
		if got != group {
			t.Errorf("GetLayoutGroup() = %d, want %d", got, group)
		}
	}
}

func TestSetLayoutGroupPassesThrough(t *testing.T) {
	conn := newFakeProtocol()
	b, _, _ := newTestBridge(conn)

	b.SetLayoutGroup(7)
	if len(conn.locks) != 1 || conn.locks[0] != 7 {
		t.Errorf("locks = %v, want [7]", conn.locks)
	}
}

func TestGetLayoutGroupNoReply(t *testing.T) {
	conn := newFakeProtocol()
	conn.stateNil = true
	b, _, logs := newTestBridge(conn)

	if _, ok := b.GetLayoutGroup(); ok {
		t.Error("expected no result")
	}
	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 0 {
		t.Errorf("got %d warnings, want none", n)
	}
}

func TestGetGroupNames(t *testing.T) {
	for _, which := range []uint32{
		xkb.NameDetailSymbols,
		xkb.NameDetailKeycodes | xkb.NameDetailGeometry | xkb.NameDetailSymbols,
	} {
		conn := newFakeProtocol()
		conn.namesWhich = which
		b, _, logs := newTestBridge(conn)

		names, ok := b.GetGroupNames()
		if !ok {
			t.Fatalf("which %#x: no result", which)
		}
		if names != "pc+us+de:2+inet(evdev)" {
			t.Errorf("which %#x: names = %q", which, names)
		}
		if logs.Len() != 0 {
			t.Errorf("unexpected log entries: %v", logs.All())
		}
	}
}

func TestGetGroupNamesHonoursDeclaredLength(t *testing.T) {
	conn := &atomLenProtocol{fakeProtocol: newFakeProtocol()}
	b, _, _ := newTestBridge(conn)

	names, ok := b.GetGroupNames()
	if !ok {
		t.Fatal("no result")
	}
	if names != "pc+us" {
		t.Errorf("names = %q, want %q", names, "pc+us")
	}
}

type atomLenProtocol struct {
	*fakeProtocol
}

func (p *atomLenProtocol) GetAtomName(atom xproto.Atom) (*xproto.GetAtomNameReply, error) {
	return &xproto.GetAtomNameReply{NameLen: 5, Name: "pc+us\x00\x00\x00"}, nil
}

func TestGetGroupNamesFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*fakeProtocol)
		message string
	}{
		{
			name:    "nil names reply",
			setup:   func(f *fakeProtocol) { f.namesNil = true },
			message: "Failed to get xkb symbols name",
		},
		{
			name:    "names error",
			setup:   func(f *fakeProtocol) { f.namesErr = errors.New("BadKeyboard") },
			message: "Failed to get xkb symbols name",
		},
		{
			name:    "nil atom reply",
			setup:   func(f *fakeProtocol) { f.atomNil = true },
			message: "Failed to get atom symbols name",
		},
		{
			name:    "unknown atom",
			setup:   func(f *fakeProtocol) { f.atomNames = nil },
			message: "Failed to get atom symbols name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeProtocol()
			tt.setup(conn)
			b, _, logs := newTestBridge(conn)

			if _, ok := b.GetGroupNames(); ok {
				t.Error("expected no result")
			}

			warnings := logs.FilterLevelExact(zapcore.WarnLevel)
			if warnings.Len() != 1 {
				t.Fatalf("got %d warnings, want 1", warnings.Len())
			}
			if msg := warnings.All()[0].Message; msg != tt.message {
				t.Errorf("warning = %q, want %q", msg, tt.message)
			}
		})
	}
}

func TestDescribeGroups(t *testing.T) {
	b, _, _ := newTestBridge(newFakeProtocol())

	got, ok := b.DescribeGroups()
	if !ok {
		t.Fatal("no result")
	}
	want := []GroupDescription{
		{Group: 0, Layout: "us", Short: "en", Description: "English (US)"},
		{Group: 1, Layout: "de", Short: "de", Description: "de"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DescribeGroups() = %+v, want %+v", got, want)
	}
}

func TestDescribeGroupsWithoutRegistry(t *testing.T) {
	conn := newFakeProtocol()
	conn.atomNames[symbolsAtom] = "pc+us(dvorak)+inet(evdev)"
	b := NewBridge(conn, nil, nil, zap.NewNop().Sugar())

	got, ok := b.DescribeGroups()
	if !ok {
		t.Fatal("no result")
	}
	want := []GroupDescription{
		{Group: 0, Layout: "us", Variant: "dvorak", Short: "us", Description: "us(dvorak)"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DescribeGroups() = %+v, want %+v", got, want)
	}
}

func TestDescribeGroupsWithoutNames(t *testing.T) {
	conn := newFakeProtocol()
	conn.namesNil = true
	b, _, _ := newTestBridge(conn)

	if _, ok := b.DescribeGroups(); ok {
		t.Error("expected no result")
	}
}
