package x11

import (
	"context"
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

type scriptedSource struct {
	events []waitResult
}

func (s *scriptedSource) WaitForEvent() (xgb.Event, xgb.Error) {
	if len(s.events) == 0 {
		return nil, nil
	}
	next := s.events[0]
	s.events = s.events[1:]
	return next.ev, next.xerr
}

type blockingSource struct{}

func (blockingSource) WaitForEvent() (xgb.Event, xgb.Error) {
	select {}
}

type collectingHandler struct {
	got []xkb.Notify
}

func (h *collectingHandler) HandleNotify(ev xkb.Notify) {
	h.got = append(h.got, ev)
}

func stateEvent(group byte) xkb.RawNotify {
	buf := make([]byte, 32)
	buf[0] = 85
	buf[1] = xkb.StateNotifyType
	buf[13] = group
	xgb.Put16(buf[26:], xkb.StatePartGroupState)
	return xkb.RawNotify(buf)
}

func TestPumpDispatchesXkbEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := &scriptedSource{events: []waitResult{
		{ev: stateEvent(1)},
		{ev: xproto.KeyPressEvent{Detail: 24}},
		{xerr: xproto.ValueError{BadValue: 9}},
		{ev: xkb.RawNotify(make([]byte, 4))},
		{ev: stateEvent(2)},
	}}
	handler := &collectingHandler{}

	err := Pump(context.Background(), src, handler, zap.New(core).Sugar())
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("err = %v, want ErrConnectionClosed", err)
	}

	if len(handler.got) != 2 {
		t.Fatalf("handled %d events, want 2", len(handler.got))
	}
	groups := []byte{handler.got[0].(xkb.StateNotify).Group, handler.got[1].(xkb.StateNotify).Group}
	if !reflect.DeepEqual(groups, []byte{1, 2}) {
		t.Errorf("groups = %v, want [1 2]", groups)
	}

	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 2 {
		t.Errorf("got %d warnings, want 2 (protocol error and short event)", n)
	}
}

func TestPumpStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Pump(ctx, blockingSource{}, &collectingHandler{}, zap.NewNop().Sugar())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
