package ws

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldDescriptor is the uniform per-field shape every bundle-rendering
// surface consumes: the detail panel, the CLI `bundles show` output, and the
// permission dialog all read from the same map.
type FieldDescriptor struct {
	Name        string
	Value       string
	Description string
	Editable    bool
	Type        string
	BundleUUID  string
}

// FormatBundle flattens a bundle, its metadata, and its owner into one field
// map. Every key present in MetadataDescriptions gets an entry even when the
// bundle carries no value for it, so editable-but-unset fields still render.
func FormatBundle(b *Bundle) map[string]FieldDescriptor {
	if b == nil {
		return nil
	}

	raw := map[string]any{
		"uuid":        b.UUID,
		"bundle_type": b.BundleType,
		"state":       b.State,
		"owner":       b.Owner.UserName,
	}
	if b.Command != "" {
		raw["command"] = b.Command
	}
	for k, v := range b.Metadata {
		raw[k] = v
	}
	for k := range b.MetadataDescriptions {
		if _, ok := raw[k]; !ok {
			raw[k] = nil
		}
	}

	editable := make(map[string]bool, len(b.EditableMetadataFields))
	for _, f := range b.EditableMetadataFields {
		editable[f] = true
	}

	out := make(map[string]FieldDescriptor, len(raw))
	for k, v := range raw {
		typ := b.MetadataTypes[k]
		out[k] = FieldDescriptor{
			Name:        k,
			Value:       RenderFormat(v, typ),
			Description: b.MetadataDescriptions[k],
			Editable:    b.Permission > 1 && editable[k],
			Type:        typ,
			BundleUUID:  b.UUID,
		}
	}
	return out
}

// RenderFormat renders a raw metadata value for display, dispatching on the
// declared field type. Unknown types render as-is.
func RenderFormat(v any, typ string) string {
	if v == nil {
		return ""
	}
	switch typ {
	case "list":
		return renderList(v)
	case "date":
		return RenderDate(v)
	case "size":
		return RenderSize(toFloat(v))
	case "duration":
		return RenderDuration(toFloat(v))
	case "bool":
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b)
		}
		return strconv.FormatBool(toFloat(v) != 0)
	default:
		return plainString(v)
	}
}

func renderList(v any) string {
	switch vv := v.(type) {
	case []string:
		return strings.Join(vv, " ")
	case []any:
		parts := make([]string, 0, len(vv))
		for _, e := range vv {
			parts = append(parts, plainString(e))
		}
		return strings.Join(parts, " ")
	default:
		return plainString(v)
	}
}

// RenderDate renders a unix timestamp as "Www Mmm dd yyyy HH:MM:SS" local
// time, matching how bundle creation times have always displayed.
func RenderDate(v any) string {
	secs := int64(toFloat(v))
	if secs == 0 {
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	}
	return time.Unix(secs, 0).Format("Mon Jan 02 2006 15:04:05")
}

// RenderSize renders a byte count in human units, keeping one fractional
// digit while the scaled value is under 100.
func RenderSize(size float64) string {
	units := []string{"", "k", "m", "g", "t"}
	for i, u := range units {
		if i > 0 && size < 100 {
			return strconv.FormatFloat(round1(size), 'f', 1, 64) + u
		}
		if size < 1024 || i == len(units)-1 {
			return strconv.FormatFloat(math.Round(size), 'f', 0, 64) + u
		}
		size /= 1024
	}
	return ""
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// RenderDuration renders a duration in seconds using its two most significant
// units, omitting zero segments: 100 → "1m40s", 10000 → "2h46m", 3600 → "1h",
// 0 → "".
func RenderDuration(seconds float64) string {
	s := int64(seconds)
	if s <= 0 {
		return ""
	}
	type unit struct {
		label string
		secs  int64
	}
	units := []unit{
		{"y", 365 * 24 * 3600},
		{"d", 24 * 3600},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}
	for i, u := range units {
		if s < u.secs {
			continue
		}
		major := s / u.secs
		out := strconv.FormatInt(major, 10) + u.label
		if i+1 < len(units) {
			minor := (s % u.secs) / units[i+1].secs
			if minor > 0 {
				out += strconv.FormatInt(minor, 10) + units[i+1].label
			}
		}
		return out
	}
	return ""
}

var listSplitRe = regexp.MustCompile(`[\s,|]+`)

// SerializeFormat is the inverse of RenderFormat: it parses an edited display
// string back into the raw value the server expects for the field type.
func SerializeFormat(s, typ string) (any, error) {
	s = strings.TrimSpace(s)
	switch typ {
	case "list":
		if s == "" {
			return []string{}, nil
		}
		return listSplitRe.Split(s, -1), nil
	case "bool":
		switch strings.ToLower(s) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n != 0, nil
		}
		return nil, fmt.Errorf("invalid bool %q", s)
	case "int":
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q", s)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", s)
		}
		return f, nil
	default:
		return s, nil
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

func plainString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; print integers without a fraction.
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
