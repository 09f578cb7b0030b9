package x11

import (
	"context"
	"errors"

	"codeberg.org/miketth/xkbridge/pkg/xkb"
	"github.com/BurntSushi/xgb"
	"go.uber.org/zap"
)

var ErrConnectionClosed = errors.New("x connection closed")

// EventSource is satisfied by *xgb.Conn.
type EventSource interface {
	WaitForEvent() (xgb.Event, xgb.Error)
}

type NotifyHandler interface {
	HandleNotify(ev xkb.Notify)
}

type waitResult struct {
	ev   xgb.Event
	xerr xgb.Error
}

// Pump feeds XKB notifications from src to handler, one at a time, until ctx
// is done or the connection goes away.
func Pump(ctx context.Context, src EventSource, handler NotifyHandler, log *zap.SugaredLogger) error {
	for {
		resultCh := make(chan waitResult, 1)
		go func() {
			ev, xerr := src.WaitForEvent()
			resultCh <- waitResult{ev: ev, xerr: xerr}
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-resultCh:
			if res.ev == nil && res.xerr == nil {
				return ErrConnectionClosed
			}
			if res.xerr != nil {
				// errors of unchecked requests land here
				log.Warnw("x protocol error", "error", res.xerr.Error())
				continue
			}
			dispatch(res.ev, handler, log)
		}
	}
}

func dispatch(ev xgb.Event, handler NotifyHandler, log *zap.SugaredLogger) {
	raw, ok := ev.(xkb.RawNotify)
	if !ok {
		log.Debugw("ignoring event", "event", ev.String())
		return
	}

	notify, err := xkb.DecodeNotify(raw)
	if err != nil {
		log.Warnw("decode xkb event", "error", err)
		return
	}

	handler.HandleNotify(notify)
}

// Pump runs the package level Pump on this connection.
func (c *Conn) Pump(ctx context.Context, handler NotifyHandler) error {
	return Pump(ctx, c.x, handler, c.log)
}
