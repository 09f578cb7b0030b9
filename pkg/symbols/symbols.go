// Package symbols splits an XKB symbols name, such as
// "pc+us+de:2+inet(evdev)+group(alt_shift_toggle)", into the layout of each
// keyboard group.
package symbols

import (
	"sort"
	"strconv"
	"strings"
)

// MaxGroups is the number of groups XKB supports on one keyboard.
const MaxGroups = 4

// Symbol files that are mixed into the keymap but do not define a layout.
var nonLayouts = map[string]bool{
	"altwin":     true,
	"apple":      true,
	"capslock":   true,
	"caps":       true,
	"compose":    true,
	"ctrl":       true,
	"eurosign":   true,
	"evdev":      true,
	"fkeys":      true,
	"group":      true,
	"grp_led":    true,
	"inet":       true,
	"japan":      true,
	"keypad":     true,
	"korean":     true,
	"kpdl":       true,
	"level3":     true,
	"level5":     true,
	"lv3":        true,
	"lv5":        true,
	"mod_led":    true,
	"nbsp":       true,
	"numpad":     true,
	"parens":     true,
	"pc":         true,
	"rupeesign":  true,
	"scrolllock": true,
	"shift":      true,
	"srvr_ctrl":  true,
	"terminate":  true,
	"typo":       true,
}

type Group struct {
	Index   int
	Layout  string
	Variant string
}

func (g Group) String() string {
	if g.Variant == "" {
		return g.Layout
	}
	return g.Layout + "(" + g.Variant + ")"
}

// Parse returns the groups named by a symbols string, ordered by index. A
// layout without an explicit ":N" suffix belongs to the first group. The
// first component that names a group wins; later ones for the same index are
// option files layered on top of it.
func Parse(name string) []Group {
	byIndex := make(map[int]Group)

	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '+' || r == '|'
	})
	for _, part := range parts {
		base, index := part, 0
		if i := strings.LastIndexByte(part, ':'); i >= 0 {
			n, err := strconv.Atoi(part[i+1:])
			if err != nil || n < 1 || n > MaxGroups {
				continue
			}
			base, index = part[:i], n-1
		}
		if _, taken := byIndex[index]; taken {
			continue
		}

		layout, variant := splitVariant(base)
		// vendor directories, as in "macintosh_vndr/us"
		if i := strings.LastIndexByte(layout, '/'); i >= 0 {
			layout = layout[i+1:]
		}
		if layout == "" || nonLayouts[layout] {
			continue
		}

		byIndex[index] = Group{Index: index, Layout: layout, Variant: variant}
	}

	groups := make([]Group, 0, len(byIndex))
	for _, g := range byIndex {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Index < groups[j].Index
	})

	return groups
}

func splitVariant(s string) (layout, variant string) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return s, ""
	}
	return s[:open], s[open+1 : len(s)-1]
}
