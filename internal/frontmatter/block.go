package frontmatter

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-cooklang/internal/metadata"
	"github.com/goliatone/go-cooklang/internal/quantity"
)

var (
	entryPattern    = regexp.MustCompile(`^(\s*)([A-Za-z0-9_\-]+):\s*(.*)$`)
	listItemPattern = regexp.MustCompile(`^\s*-\s*(.+)$`)
	newlinePattern  = regexp.MustCompile(`\r\n|\r|\n`)
)

type openEntry struct {
	key    string
	indent int
	items  []metadata.Value
	nested map[string]metadata.Value
}

// ParseBlock reads the line-oriented metadata block. "key: value" lines
// store a cast scalar; "key:" with no value opens a list filled by the
// following "- item" lines, or a mapping when the next entry is indented
// deeper than the key.
func ParseBlock(block string) *metadata.Fields {
	fields := metadata.NewFields()
	var open *openEntry

	for _, line := range newlinePattern.Split(block, -1) {
		if m := entryPattern.FindStringSubmatch(line); m != nil {
			indent := len(m[1])
			key, value := m[2], m[3]

			if open != nil && indent > open.indent && len(open.items) == 0 {
				if open.nested == nil {
					open.nested = map[string]metadata.Value{}
				}
				open.nested[key] = Cast(value)
				fields.Set(open.key, metadata.Map(open.nested))
				continue
			}

			if value == "" {
				fields.Set(key, metadata.List())
				open = &openEntry{key: key, indent: indent}
				continue
			}

			fields.Set(key, Cast(value))
			open = nil
			continue
		}

		if open == nil || open.nested != nil {
			continue
		}
		if m := listItemPattern.FindStringSubmatch(line); m != nil {
			open.items = append(open.items, Cast(m[1]))
			fields.Set(open.key, metadata.List(open.items...))
		}
	}

	return fields
}

// Cast converts a raw scalar: quoted text loses its quotes, [a, b] becomes a
// list of trimmed strings, true/false become booleans, numeric text becomes
// an integer and anything else stays a trimmed string. Blank input is null.
func Cast(raw string) metadata.Value {
	value := strings.TrimSpace(raw)
	if value == "" {
		return metadata.Null()
	}

	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return metadata.String(value[1 : len(value)-1])
	}

	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		inner := strings.TrimSpace(value[1 : len(value)-1])
		if inner == "" {
			return metadata.List()
		}
		parts := strings.Split(inner, ",")
		items := make([]string, 0, len(parts))
		for _, part := range parts {
			items = append(items, strings.TrimSpace(part))
		}
		return metadata.Strings(items...)
	}

	switch strings.ToLower(value) {
	case "true":
		return metadata.Bool(true)
	case "false":
		return metadata.Bool(false)
	}

	if n, ok := quantity.Truncate(value); ok {
		return metadata.Int(n)
	}

	return metadata.String(value)
}
