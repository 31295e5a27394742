// Package frontmatter splits a recipe document into its leading "---"
// delimited metadata block and the body that follows it.
package frontmatter

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-cooklang/internal/metadata"
)

// Delimiter opens and closes a front-matter block.
const Delimiter = "---"

// ErrUnterminated reports an opening delimiter without a closing one.
var ErrUnterminated = errors.New("frontmatter: starting delimiter found but no closing delimiter detected")

var blockFormat = frontmatter.NewFormat(Delimiter, Delimiter, unmarshalBlock)

// Document is the result of splitting a source document.
type Document struct {
	// Fields holds the raw metadata entries in document order.
	Fields *metadata.Fields
	// Body is the text after the closing delimiter with leading newlines removed.
	Body string
	// Present reports whether a front-matter block was found.
	Present bool
}

type blockTarget struct {
	fields *metadata.Fields
	found  bool
}

// Extract detects a leading front-matter block. Without an opening
// delimiter the whole source is body and the fields are empty.
func Extract(source string) (Document, error) {
	if !hasOpeningDelimiter(source) {
		return Document{Fields: metadata.NewFields(), Body: source}, nil
	}

	var target blockTarget
	body, err := frontmatter.Parse(strings.NewReader(source), &target, blockFormat)
	if err != nil {
		return Document{}, fmt.Errorf("frontmatter: parse block: %w", err)
	}
	if !target.found {
		return Document{}, ErrUnterminated
	}

	return Document{
		Fields:  target.fields,
		Body:    strings.TrimLeft(string(body), "\r\n"),
		Present: true,
	}, nil
}

func unmarshalBlock(data []byte, v any) error {
	target, ok := v.(*blockTarget)
	if !ok {
		return fmt.Errorf("frontmatter: unsupported target %T", v)
	}
	target.fields = ParseBlock(string(data))
	target.found = true
	return nil
}

func hasOpeningDelimiter(source string) bool {
	scanner := bufio.NewScanner(strings.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), len(source)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		return line == Delimiter
	}
	return false
}
