package xkb

import (
	"github.com/BurntSushi/xgb"
)

// UseExtensionCookie is a cookie used only for UseExtension requests.
type UseExtensionCookie struct {
	*xgb.Cookie
}

// UseExtension sends a checked request. Call Reply to read the negotiated
// version.
func UseExtension(c *xgb.Conn, wantedMajor, wantedMinor uint16) UseExtensionCookie {
	cookie := c.NewCookie(true, true)
	c.NewRequest(useExtensionRequest(opcode(c, "UseExtension"), wantedMajor, wantedMinor), cookie)
	return UseExtensionCookie{cookie}
}

// Reply blocks and returns the reply data for a UseExtension request.
func (cook UseExtensionCookie) Reply() (*UseExtensionReply, error) {
	buf, err := cook.Cookie.Reply()
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}
	return useExtensionReply(buf), nil
}

func useExtensionRequest(op byte, wantedMajor, wantedMinor uint16) []byte {
	size := 8
	b := 0
	buf := make([]byte, size)

	buf[b] = op
	b += 1

	buf[b] = opUseExtension
	b += 1

	xgb.Put16(buf[b:], uint16(size/4)) // request size in 4-byte units
	b += 2

	xgb.Put16(buf[b:], wantedMajor)
	b += 2

	xgb.Put16(buf[b:], wantedMinor)

	return buf
}

// SelectEventsCookie is a cookie used only for SelectEvents requests.
type SelectEventsCookie struct {
	*xgb.Cookie
}

// SelectEvents sends an unchecked request. The per-event detail lists are
// never sent, so every bit of affectWhich must also be set in clear or
// selectAll.
func SelectEvents(c *xgb.Conn, deviceSpec DeviceSpec, affectWhich, clear, selectAll, affectMap, mapMask uint16) SelectEventsCookie {
	cookie := c.NewCookie(false, false)
	c.NewRequest(selectEventsRequest(opcode(c, "SelectEvents"), deviceSpec, affectWhich, clear, selectAll, affectMap, mapMask), cookie)
	return SelectEventsCookie{cookie}
}

func selectEventsRequest(op byte, deviceSpec DeviceSpec, affectWhich, clear, selectAll, affectMap, mapMask uint16) []byte {
	size := 16
	b := 0
	buf := make([]byte, size)

	buf[b] = op
	b += 1

	buf[b] = opSelectEvents
	b += 1

	xgb.Put16(buf[b:], uint16(size/4))
	b += 2

	xgb.Put16(buf[b:], uint16(deviceSpec))
	b += 2

	xgb.Put16(buf[b:], affectWhich)
	b += 2

	xgb.Put16(buf[b:], clear)
	b += 2

	xgb.Put16(buf[b:], selectAll)
	b += 2

	xgb.Put16(buf[b:], affectMap)
	b += 2

	xgb.Put16(buf[b:], mapMask)

	return buf
}

// LatchLockStateCookie is a cookie used only for LatchLockState requests.
type LatchLockStateCookie struct {
	*xgb.Cookie
}

// LatchLockState sends an unchecked request.
func LatchLockState(c *xgb.Conn, deviceSpec DeviceSpec, affectModLocks, modLocks byte, lockGroup bool, groupLock byte, affectModLatches, modLatches byte, latchGroup bool, groupLatch uint16) LatchLockStateCookie {
	cookie := c.NewCookie(false, false)
	c.NewRequest(latchLockStateRequest(opcode(c, "LatchLockState"), deviceSpec, affectModLocks, modLocks, lockGroup, groupLock, affectModLatches, modLatches, latchGroup, groupLatch), cookie)
	return LatchLockStateCookie{cookie}
}

func latchLockStateRequest(op byte, deviceSpec DeviceSpec, affectModLocks, modLocks byte, lockGroup bool, groupLock byte, affectModLatches, modLatches byte, latchGroup bool, groupLatch uint16) []byte {
	size := 16
	b := 0
	buf := make([]byte, size)

	buf[b] = op
	b += 1

	buf[b] = opLatchLockState
	b += 1

	xgb.Put16(buf[b:], uint16(size/4))
	b += 2

	xgb.Put16(buf[b:], uint16(deviceSpec))
	b += 2

	buf[b] = affectModLocks
	b += 1

	buf[b] = modLocks
	b += 1

	buf[b] = boolByte(lockGroup)
	b += 1

	buf[b] = groupLock
	b += 1

	buf[b] = affectModLatches
	b += 1

	buf[b] = modLatches
	b += 1

	b += 1 // padding

	buf[b] = boolByte(latchGroup)
	b += 1

	xgb.Put16(buf[b:], groupLatch)

	return buf
}

// GetStateCookie is a cookie used only for GetState requests.
type GetStateCookie struct {
	*xgb.Cookie
}

// GetStateUnchecked sends an unchecked request. Errors are delivered to the
// event loop and Reply returns a nil reply.
func GetStateUnchecked(c *xgb.Conn, deviceSpec DeviceSpec) GetStateCookie {
	cookie := c.NewCookie(false, true)
	c.NewRequest(getStateRequest(opcode(c, "GetState"), deviceSpec), cookie)
	return GetStateCookie{cookie}
}

// Reply blocks and returns the reply data for a GetState request.
func (cook GetStateCookie) Reply() (*GetStateReply, error) {
	buf, err := cook.Cookie.Reply()
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}
	return getStateReply(buf), nil
}

func getStateRequest(op byte, deviceSpec DeviceSpec) []byte {
	size := 8
	b := 0
	buf := make([]byte, size)

	buf[b] = op
	b += 1

	buf[b] = opGetState
	b += 1

	xgb.Put16(buf[b:], uint16(size/4))
	b += 2

	xgb.Put16(buf[b:], uint16(deviceSpec))

	return buf
}

// GetNamesCookie is a cookie used only for GetNames requests.
type GetNamesCookie struct {
	*xgb.Cookie
}

// GetNamesUnchecked sends an unchecked request.
func GetNamesUnchecked(c *xgb.Conn, deviceSpec DeviceSpec, which uint32) GetNamesCookie {
	cookie := c.NewCookie(false, true)
	c.NewRequest(getNamesRequest(opcode(c, "GetNames"), deviceSpec, which), cookie)
	return GetNamesCookie{cookie}
}

// Reply blocks and returns the reply data for a GetNames request.
func (cook GetNamesCookie) Reply() (*GetNamesReply, error) {
	buf, err := cook.Cookie.Reply()
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}
	return getNamesReply(buf), nil
}

func getNamesRequest(op byte, deviceSpec DeviceSpec, which uint32) []byte {
	size := 12
	b := 0
	buf := make([]byte, size)

	buf[b] = op
	b += 1

	buf[b] = opGetNames
	b += 1

	xgb.Put16(buf[b:], uint16(size/4))
	b += 2

	xgb.Put16(buf[b:], uint16(deviceSpec))
	b += 2

	b += 2 // padding

	xgb.Put32(buf[b:], which)

	return buf
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
