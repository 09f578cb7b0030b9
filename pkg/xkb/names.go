package xkb

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

var ErrShortValueList = errors.New("value list too short")

// NamesCounts carries the GetNames reply fields that determine the shape of
// its value list.
type NamesCounts struct {
	NTypes       byte
	Indicators   uint32
	VirtualMods  uint16
	GroupNames   byte
	NKeys        byte
	NKeyAliases  byte
	NRadioGroups byte
	Which        uint32
}

// KeyName is a four character XKB key name, NUL padded.
type KeyName [4]byte

func (k KeyName) String() string {
	n := 0
	for n < len(k) && k[n] != 0 {
		n++
	}
	return string(k[:n])
}

type KeyAlias struct {
	Real  KeyName
	Alias KeyName
}

// NamesValueList is the decoded variable part of a GetNames reply. Only the
// fields whose NameDetail bit is set in Which are populated.
type NamesValueList struct {
	Which uint32

	KeycodesName    xproto.Atom
	GeometryName    xproto.Atom
	SymbolsName     xproto.Atom
	PhysSymbolsName xproto.Atom
	TypesName       xproto.Atom
	CompatName      xproto.Atom
	TypeNames       []xproto.Atom
	NLevelsPerType  []byte
	KTLevelNames    []xproto.Atom
	IndicatorNames  []xproto.Atom
	VirtualModNames []xproto.Atom
	Groups          []xproto.Atom
	KeyNames        []KeyName
	KeyAliases      []KeyAlias
	RadioGroupNames []xproto.Atom
}

// Has reports whether the detail was present in the reply.
func (v NamesValueList) Has(detail uint32) bool {
	return v.Which&detail != 0
}

// UnpackNamesValueList decodes buf, the value list of a GetNames reply, using
// the counts from the same reply. Fields appear on the wire in NameDetail bit
// order.
func UnpackNamesValueList(buf []byte, counts NamesCounts) (NamesValueList, error) {
	v := NamesValueList{Which: counts.Which}
	r := &valueReader{buf: buf}

	single := []struct {
		detail uint32
		name   string
		dst    *xproto.Atom
	}{
		{NameDetailKeycodes, "keycodesName", &v.KeycodesName},
		{NameDetailGeometry, "geometryName", &v.GeometryName},
		{NameDetailSymbols, "symbolsName", &v.SymbolsName},
		{NameDetailPhysSymbols, "physSymbolsName", &v.PhysSymbolsName},
		{NameDetailTypes, "typesName", &v.TypesName},
		{NameDetailCompat, "compatName", &v.CompatName},
	}
	for _, f := range single {
		if !v.Has(f.detail) {
			continue
		}
		atoms, err := r.atoms(f.name, 1)
		if err != nil {
			return v, err
		}
		*f.dst = atoms[0]
	}

	var err error
	if v.Has(NameDetailKeyTypeNames) {
		if v.TypeNames, err = r.atoms("typeNames", int(counts.NTypes)); err != nil {
			return v, err
		}
	}

	if v.Has(NameDetailKTLevelNames) {
		if v.NLevelsPerType, err = r.bytes("nLevelsPerType", int(counts.NTypes)); err != nil {
			return v, err
		}
		r.align4()

		total := 0
		for _, n := range v.NLevelsPerType {
			total += int(n)
		}
		if v.KTLevelNames, err = r.atoms("ktLevelNames", total); err != nil {
			return v, err
		}
	}

	if v.Has(NameDetailIndicatorNames) {
		if v.IndicatorNames, err = r.atoms("indicatorNames", bits.OnesCount32(counts.Indicators)); err != nil {
			return v, err
		}
	}

	if v.Has(NameDetailVirtualModNames) {
		if v.VirtualModNames, err = r.atoms("virtualModNames", bits.OnesCount16(counts.VirtualMods)); err != nil {
			return v, err
		}
	}

	if v.Has(NameDetailGroupNames) {
		if v.Groups, err = r.atoms("groups", bits.OnesCount8(counts.GroupNames)); err != nil {
			return v, err
		}
	}

	if v.Has(NameDetailKeyNames) {
		raw, err := r.bytes("keyNames", int(counts.NKeys)*4)
		if err != nil {
			return v, err
		}
		v.KeyNames = make([]KeyName, counts.NKeys)
		for i := range v.KeyNames {
			copy(v.KeyNames[i][:], raw[i*4:])
		}
	}

	if v.Has(NameDetailKeyAliases) {
		raw, err := r.bytes("keyAliases", int(counts.NKeyAliases)*8)
		if err != nil {
			return v, err
		}
		v.KeyAliases = make([]KeyAlias, counts.NKeyAliases)
		for i := range v.KeyAliases {
			copy(v.KeyAliases[i].Real[:], raw[i*8:])
			copy(v.KeyAliases[i].Alias[:], raw[i*8+4:])
		}
	}

	if v.Has(NameDetailRGNames) {
		if v.RadioGroupNames, err = r.atoms("radioGroupNames", int(counts.NRadioGroups)); err != nil {
			return v, err
		}
	}

	return v, nil
}

type valueReader struct {
	buf []byte
	off int
}

func (r *valueReader) bytes(field string, n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, fmt.Errorf("read %s: need %d bytes at offset %d, have %d: %w", field, n, r.off, len(r.buf), ErrShortValueList)
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *valueReader) atoms(field string, n int) ([]xproto.Atom, error) {
	raw, err := r.bytes(field, n*4)
	if err != nil {
		return nil, err
	}
	out := make([]xproto.Atom, n)
	for i := range out {
		out[i] = xproto.Atom(xgb.Get32(raw[i*4:]))
	}
	return out, nil
}

func (r *valueReader) align4() {
	r.off = xgb.Pad(r.off)
}
