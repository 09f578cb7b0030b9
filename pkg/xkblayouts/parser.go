// Package xkblayouts reads the XKB rules registry (evdev.xml) to give layout
// codes their human readable names.
package xkblayouts

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

const DefaultPath = "/usr/share/X11/xkb/rules/evdev.xml"

type key struct {
	layout, variant string
}

type Registry struct {
	entries map[key]Entry
}

func ParseLayouts(path string) (*Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func Parse(r io.Reader) (*Registry, error) {
	var doc xkbConfigRegistry
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	reg := &Registry{entries: make(map[key]Entry)}
	for _, l := range doc.LayoutList.Layout {
		name := l.ConfigItem.Name
		reg.entries[key{layout: name}] = Entry{
			Layout:           name,
			ShortDescription: l.ConfigItem.ShortDescription,
			Description:      l.ConfigItem.Description,
		}

		for _, v := range l.VariantList.Variant {
			short := v.ConfigItem.ShortDescription
			if short == "" {
				short = l.ConfigItem.ShortDescription
			}
			reg.entries[key{layout: name, variant: v.ConfigItem.Name}] = Entry{
				Layout:           name,
				Variant:          v.ConfigItem.Name,
				ShortDescription: short,
				Description:      v.ConfigItem.Description,
			}
		}
	}

	return reg, nil
}

func (r *Registry) Lookup(layout, variant string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.entries[key{layout: layout, variant: variant}]
	return e, ok
}

// GetLayoutPrettyName returns the description of the layout variant, or ""
// if the registry does not know it.
func (r *Registry) GetLayoutPrettyName(layout, variant string) string {
	e, _ := r.Lookup(layout, variant)
	return e.Description
}

// GetLayoutShortName returns the short label of the layout variant, such as
// "en", or "" if the registry does not know it.
func (r *Registry) GetLayoutShortName(layout, variant string) string {
	e, _ := r.Lookup(layout, variant)
	return e.ShortDescription
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}
