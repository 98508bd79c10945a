// Package profile loads declarative device profiles from YAML, TOML, or
// JSON files and lowers them to the schema tree the compiler consumes.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/hidforge/schema"
	"github.com/Alia5/hidforge/usb/hid"
)

// File is the top-level profile document: one named device.
type File struct {
	Name       string          `json:"name" yaml:"name" toml:"name"`
	Collection *CollectionSpec `json:"collection" yaml:"collection" toml:"collection"`
}

// CollectionSpec mirrors schema.Collection with name-or-number usage fields.
type CollectionSpec struct {
	UsagePage   string           `json:"usage_page" yaml:"usage_page" toml:"usage_page"`
	Usage       string           `json:"usage" yaml:"usage" toml:"usage"`
	Kind        string           `json:"kind" yaml:"kind" toml:"kind"`
	ReportID    uint8            `json:"report_id,omitempty" yaml:"report_id,omitempty" toml:"report_id,omitempty"`
	Items       []ItemSpec       `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
	Collections []CollectionSpec `json:"collections,omitempty" yaml:"collections,omitempty" toml:"collections,omitempty"`
}

// ItemSpec declares one widget.
type ItemSpec struct {
	Type       string `json:"type" yaml:"type" toml:"type"`
	Count      int    `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
	Bits       int    `json:"bits,omitempty" yaml:"bits,omitempty" toml:"bits,omitempty"`
	UsagePage  string `json:"usage_page,omitempty" yaml:"usage_page,omitempty" toml:"usage_page,omitempty"`
	Usage      string `json:"usage,omitempty" yaml:"usage,omitempty" toml:"usage,omitempty"`
	Relative   bool   `json:"relative,omitempty" yaml:"relative,omitempty" toml:"relative,omitempty"`
	LogicalMin *int32 `json:"logical_min,omitempty" yaml:"logical_min,omitempty" toml:"logical_min,omitempty"`
	LogicalMax *int32 `json:"logical_max,omitempty" yaml:"logical_max,omitempty" toml:"logical_max,omitempty"`
}

// Load reads a profile file, picking the format from the extension
// (.yaml/.yml, .toml, .json; anything else is tried as YAML).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Schema lowers the profile to the compiler's tree.
func (f *File) Schema() (*schema.Collection, error) {
	if f.Collection == nil {
		return nil, fmt.Errorf("%w: profile %q has no collection", schema.ErrInvalidSchema, f.Name)
	}
	return f.Collection.build()
}

func (c *CollectionSpec) build() (*schema.Collection, error) {
	page, err := resolvePage(c.UsagePage)
	if err != nil {
		return nil, err
	}
	usage, err := resolveUsage(page, c.Usage)
	if err != nil {
		return nil, err
	}
	kind, err := resolveKind(c.Kind)
	if err != nil {
		return nil, err
	}
	col := &schema.Collection{
		UsagePage: page,
		Usage:     usage,
		Kind:      kind,
		ReportID:  c.ReportID,
	}
	for i := range c.Items {
		w, err := c.Items[i].build()
		if err != nil {
			return nil, err
		}
		col.Children = append(col.Children, w)
	}
	for i := range c.Collections {
		sub, err := c.Collections[i].build()
		if err != nil {
			return nil, err
		}
		col.Children = append(col.Children, sub)
	}
	return col, nil
}

func (s *ItemSpec) build() (schema.Node, error) {
	switch strings.ToLower(s.Type) {
	case "buttons", "button_array":
		return &schema.ButtonArray{Count: s.Count}, nil
	case "padding":
		return &schema.Padding{Bits: s.Bits}, nil
	case "hat", "hat_switch":
		return &schema.HatSwitch{}, nil
	case "axis":
		var page uint16
		if s.UsagePage != "" {
			p, err := resolvePage(s.UsagePage)
			if err != nil {
				return nil, err
			}
			page = p
		}
		lookupPage := page
		if lookupPage == 0 {
			lookupPage = hid.UsagePageGenericDesktop
		}
		usage, err := resolveUsage(lookupPage, s.Usage)
		if err != nil {
			return nil, err
		}
		return &schema.Axis{
			UsagePage:  page,
			Usage:      usage,
			BitWidth:   s.Bits,
			LogicalMin: s.LogicalMin,
			LogicalMax: s.LogicalMax,
			Relative:   s.Relative,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown widget type %q", schema.ErrInvalidSchema, s.Type)
}

func resolvePage(s string) (uint16, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: missing usage page", schema.ErrInvalidSchema)
	}
	if v, err := strconv.ParseUint(s, 0, 16); err == nil {
		return uint16(v), nil
	}
	if id, ok := hid.PageByName(s); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: unknown usage page %q", schema.ErrInvalidSchema, s)
}

func resolveUsage(page uint16, s string) (uint16, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: missing usage", schema.ErrInvalidSchema)
	}
	if v, err := strconv.ParseUint(s, 0, 16); err == nil {
		return uint16(v), nil
	}
	if id, ok := hid.UsageByName(page, s); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: unknown usage %q on %s", schema.ErrInvalidSchema, s, hid.PageName(page))
}

var kinds = map[string]hid.CollectionKind{
	"physical":       hid.CollectionPhysical,
	"application":    hid.CollectionApplication,
	"logical":        hid.CollectionLogical,
	"report":         hid.CollectionReport,
	"named_array":    hid.CollectionNamedArray,
	"usage_switch":   hid.CollectionUsageSwitch,
	"usage_modifier": hid.CollectionUsageModifier,
}

func resolveKind(s string) (hid.CollectionKind, error) {
	if s == "" {
		return hid.CollectionApplication, nil
	}
	if k, ok := kinds[strings.ToLower(strings.ReplaceAll(s, "-", "_"))]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: unknown collection kind %q", schema.ErrInvalidSchema, s)
}
