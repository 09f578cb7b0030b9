package bridge

import (
	"errors"
	"fmt"

	"codeberg.org/miketth/xkbridge/pkg/xkb"
)

var (
	ErrExtensionMissing     = errors.New("xkb extension not present")
	ErrExtensionUnsupported = errors.New("required xkb extension is not supported")
)

// FatalError marks a failure the host cannot continue after.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Init negotiates XKB 1.0 with the server and selects state, map and new
// keyboard notifications on the core keyboard. Any error it returns is a
// *FatalError. Calling Init again after it succeeded does nothing.
func (b *Bridge) Init() error {
	if b.active {
		return nil
	}

	present, err := b.conn.QueryExtension()
	if err != nil {
		return &FatalError{Err: fmt.Errorf("%w: %w", ErrExtensionMissing, err)}
	}
	if !present {
		return &FatalError{Err: ErrExtensionMissing}
	}

	reply, err := b.conn.UseExtension(xkb.MajorVersion, xkb.MinorVersion)
	switch {
	case err != nil:
		return &FatalError{Err: fmt.Errorf("%w: %w", ErrExtensionUnsupported, err)}
	case reply == nil || !reply.Supported:
		return &FatalError{Err: ErrExtensionUnsupported}
	}

	b.conn.SelectEvents(b.device, selectedEvents, 0, selectedEvents, 0, 0)

	b.active = true
	b.log.Debugw("xkb initialized",
		"server_major", reply.ServerMajor,
		"server_minor", reply.ServerMinor,
	)

	return nil
}
