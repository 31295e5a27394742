package parser

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-cooklang/internal/metadata"
	"github.com/goliatone/go-cooklang/internal/recipe"
)

var (
	lineBreakPattern     = regexp.MustCompile(`\r\n|\r|\n`)
	sectionPattern       = regexp.MustCompile(`^==\s*(.+?)\s*==$`)
	sourceCommentPattern = regexp.MustCompile(`(?i)^Source:\s*(.+)$`)
)

type stepChunk struct {
	text    string
	section string
}

type segmented struct {
	chunks   []stepChunk
	comments []recipe.Comment
	derived  *metadata.Fields
}

// segmentBody classifies body lines. Section headers and blank lines end
// the current step; comment lines are collected separately; everything else
// accumulates into the current step, joined with single spaces.
func segmentBody(body string) segmented {
	out := segmented{derived: metadata.NewFields()}
	var buffer []string
	section := ""

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		out.chunks = append(out.chunks, stepChunk{
			text:    strings.Join(buffer, " "),
			section: section,
		})
		buffer = nil
	}

	for number, line := range lineBreakPattern.Split(body, -1) {
		trimmed := strings.TrimSpace(line)

		if m := sectionPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			section = strings.TrimSpace(m[1])
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		if isCommentLine(trimmed) {
			text := stripCommentPrefix(trimmed)
			out.comments = append(out.comments, recipe.Comment{Text: text, Line: number + 1})
			if m := sourceCommentPattern.FindStringSubmatch(text); m != nil {
				out.derived.Set(metadata.KeySource, metadata.String(strings.TrimSpace(m[1])))
			}
			continue
		}

		buffer = append(buffer, line)
	}
	flush()

	return out
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "//") || strings.HasPrefix(line, ">")
}

func stripCommentPrefix(line string) string {
	if strings.HasPrefix(line, "//") {
		return strings.TrimSpace(line[2:])
	}
	return strings.TrimSpace(strings.TrimLeft(line, ">"))
}
