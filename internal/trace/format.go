package trace

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of emitted events.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatNDJSON:
		return "ndjson"
	default:
		return "auto"
	}
}

// ParseFormat accepts auto, text and ndjson.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// formatFor resolves FormatAuto: .ndjson and .json files get NDJSON.
func formatFor(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".json":
		return FormatNDJSON
	default:
		return FormatText
	}
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// FormatEvent renders ev. start anchors the relative timestamp of text lines.
func FormatEvent(ev *Event, format Format, start time.Time) []byte {
	if format == FormatNDJSON {
		data, err := json.Marshal(jsonEvent{
			Time:     ev.Time.UTC().Format(time.RFC3339Nano),
			Seq:      ev.Seq,
			Kind:     ev.Kind.String(),
			Scope:    ev.Scope.String(),
			SpanID:   ev.SpanID,
			ParentID: ev.ParentID,
			Name:     ev.Name,
			Detail:   ev.Detail,
			Extra:    ev.Extra,
		})
		if err != nil {
			return nil
		}
		return append(data, '\n')
	}
	return formatText(ev, start)
}

// [  1.250ms] → sema (detail) {k=v}
func formatText(ev *Event, start time.Time) []byte {
	var sb strings.Builder
	elapsed := float64(ev.Time.Sub(start).Microseconds()) / 1000
	fmt.Fprintf(&sb, "[%8.3fms] ", elapsed)
	sb.WriteString(strings.Repeat("  ", max(int(ev.Scope)-1, 0)))
	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	default:
		sb.WriteString("• ")
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(ev.Detail)
		sb.WriteString(")")
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(ev.Extra[k])
		}
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	return []byte(sb.String())
}
