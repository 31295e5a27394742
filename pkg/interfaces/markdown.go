package interfaces

// MarkdownParser converts Markdown into HTML. The HTML renderer feeds it the
// Markdown export of a recipe.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown conversion.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}
