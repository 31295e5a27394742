package render

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-cooklang/internal/metadata"
	"github.com/goliatone/go-cooklang/internal/quantity"
	"github.com/goliatone/go-cooklang/internal/recipe"
)

var (
	sectionLinePattern = regexp.MustCompile(`^==.*==$`)
	frontMatterKey     = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
)

// Cooklang renders r back into markup. Parsing the output yields the same
// steps, sections, tokens and canonical metadata; comments move to the end.
func Cooklang(r *recipe.Recipe) string {
	var b strings.Builder

	writeFrontMatter(&b, r.Metadata)

	section := ""
	for i, step := range r.Steps {
		if i > 0 {
			b.WriteString("\n")
		}
		if step.Section != section {
			section = step.Section
			b.WriteString("== " + section + " ==\n")
		}
		b.WriteString(guardLine(step.Text()))
		b.WriteString("\n")
	}

	if len(r.Comments) > 0 {
		if len(r.Steps) > 0 {
			b.WriteString("\n")
		}
		for _, comment := range r.Comments {
			b.WriteString("// " + comment.Text + "\n")
		}
	}

	return b.String()
}

// guardLine escapes the first rune of a step line that the segmenter would
// otherwise read as a comment, section header or separator.
func guardLine(line string) string {
	if strings.HasPrefix(line, "//") || strings.HasPrefix(line, ">") || sectionLinePattern.MatchString(line) {
		return `\` + line
	}
	return line
}

func writeFrontMatter(b *strings.Builder, md metadata.Metadata) {
	fields := md.All()
	if fields.Len() == 0 {
		return
	}

	b.WriteString("---\n")
	for _, key := range fields.SortedKeys() {
		if !frontMatterKey.MatchString(key) {
			continue
		}
		value, _ := fields.Get(key)
		writeEntry(b, key, value, "")
	}
	b.WriteString("---\n\n")
}

func writeEntry(b *strings.Builder, key string, value metadata.Value, indent string) {
	switch value.Kind() {
	case metadata.KindNull:
		return
	case metadata.KindList:
		items, _ := value.AsList()
		b.WriteString(indent + key + ":\n")
		for _, item := range items {
			if text, ok := item.Scalar(); ok {
				b.WriteString(indent + "  - " + quoteScalar(item, text) + "\n")
			}
		}
	case metadata.KindMap:
		if indent != "" {
			return
		}
		entries, _ := value.AsMap()
		b.WriteString(key + ":\n")
		for _, child := range value.Keys() {
			if !frontMatterKey.MatchString(child) {
				continue
			}
			writeEntry(b, child, entries[child], "  ")
		}
	default:
		text, _ := value.Scalar()
		b.WriteString(indent + key + ": " + quoteScalar(value, text) + "\n")
	}
}

// quoteScalar wraps string values that the block parser would otherwise cast
// to another kind or trim.
func quoteScalar(value metadata.Value, text string) string {
	if value.Kind() != metadata.KindString {
		return text
	}
	lower := strings.ToLower(text)
	switch {
	case text == "",
		text != strings.TrimSpace(text),
		lower == "true", lower == "false",
		quantity.IsNumeric(text),
		strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"),
		strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`):
		return `"` + text + `"`
	}
	return text
}
