package xkblayouts

import "encoding/xml"

type xkbConfigRegistry struct {
	XMLName    xml.Name   `xml:"xkbConfigRegistry"`
	LayoutList layoutList `xml:"layoutList"`
}

type configItem struct {
	Name             string `xml:"name"`
	ShortDescription string `xml:"shortDescription"`
	Description      string `xml:"description"`
}

type variant struct {
	ConfigItem configItem `xml:"configItem"`
}

type variantList struct {
	Variant []variant `xml:"variant"`
}

type layout struct {
	ConfigItem  configItem  `xml:"configItem"`
	VariantList variantList `xml:"variantList"`
}

type layoutList struct {
	Layout []layout `xml:"layout"`
}

// Entry describes one layout or layout variant.
type Entry struct {
	Layout           string
	Variant          string
	ShortDescription string
	Description      string
}
