package stats

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultColor is used for activities missing from the catalog.
const DefaultColor = "#9E9E9E"

// ActivityStyle is the display metadata of one activity key.
type ActivityStyle struct {
	Color string
	Label string
}

// Catalog maps activity keys to display metadata.
type Catalog map[string]ActivityStyle

var defaultCatalog = Catalog{
	"running":           {Color: "#E4572E", Label: "Running"},
	"outdoor_running":   {Color: "#E4572E", Label: "Outdoor Run"},
	"indoor_running":    {Color: "#F3A712", Label: "Treadmill"},
	"walking":           {Color: "#76B041", Label: "Walking"},
	"outdoor_walking":   {Color: "#76B041", Label: "Outdoor Walk"},
	"cycling":           {Color: "#17BEBB", Label: "Cycling"},
	"outdoor_cycling":   {Color: "#17BEBB", Label: "Outdoor Cycling"},
	"indoor_cycling":    {Color: "#2E86AB", Label: "Indoor Cycling"},
	"swimming":          {Color: "#3A86FF", Label: "Swimming"},
	"yoga":              {Color: "#B388EB", Label: "Yoga"},
	"pilates":           {Color: "#C77DFF", Label: "Pilates"},
	"strength_training": {Color: "#8D6A9F", Label: "Strength"},
	"hiit":              {Color: "#D62246", Label: "HIIT"},
	"elliptical":        {Color: "#4B3F72", Label: "Elliptical"},
	"rope_skipping":     {Color: "#FFC857", Label: "Rope Skipping"},
}

// DefaultCatalog returns a copy of the built-in activity catalog.
func DefaultCatalog() Catalog {
	out := make(Catalog, len(defaultCatalog))
	for k, v := range defaultCatalog {
		out[k] = v
	}
	return out
}

// Merge returns a new catalog with overrides applied on top of c.
// Empty override fields keep the existing value.
func (c Catalog) Merge(overrides Catalog) Catalog {
	out := make(Catalog, len(c)+len(overrides))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range overrides {
		cur := out[normalizeKey(k)]
		if v.Color != "" {
			cur.Color = v.Color
		}
		if v.Label != "" {
			cur.Label = v.Label
		}
		out[normalizeKey(k)] = cur
	}
	return out
}

// Lookup returns display metadata for key, falling back to DefaultColor
// and a label derived from the key.
func (c Catalog) Lookup(key string) ActivityStyle {
	style := c[normalizeKey(key)]
	if style.Color == "" {
		style.Color = DefaultColor
	}
	if style.Label == "" {
		style.Label = Humanize(key)
	}
	return style
}

// Humanize turns an activity key like "outdoor_running" into "Outdoor running".
func Humanize(key string) string {
	label := strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if label == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(first)) + label[size:]
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
