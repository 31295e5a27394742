package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-cooklang/internal/metadata"
	"github.com/goliatone/go-cooklang/internal/recipe"
)

// markdownEscaper backslash-escapes characters Markdown would interpret.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
)

func escape(text string) string {
	return markdownEscaper.Replace(text)
}

// Markdown renders r as a readable document: title, metadata list,
// ingredient and cookware lists, numbered steps grouped by section and
// comments as block quotes. Recipe text is escaped so it renders literally.
func Markdown(r *recipe.Recipe) string {
	var b strings.Builder

	if title := r.Title(); title != "" {
		b.WriteString("# " + escape(title) + "\n\n")
	}

	writeMetadataList(&b, r.Metadata)

	if len(r.Ingredients) > 0 {
		b.WriteString("## Ingredients\n\n")
		for _, ingredient := range r.Ingredients {
			b.WriteString("- " + ingredientLine(ingredient) + "\n")
		}
		b.WriteString("\n")
	}

	if len(r.Cookware) > 0 {
		b.WriteString("## Cookware\n\n")
		for _, item := range r.Cookware {
			b.WriteString("- " + escape(item.Name) + "\n")
		}
		b.WriteString("\n")
	}

	if len(r.Steps) > 0 {
		b.WriteString("## Steps\n\n")
		section := ""
		for _, step := range r.Steps {
			if step.Section != section {
				section = step.Section
				b.WriteString("\n### " + escape(section) + "\n\n")
			}
			fmt.Fprintf(&b, "%d. %s\n", step.Index+1, stepProse(step))
		}
		b.WriteString("\n")
	}

	if len(r.Comments) > 0 {
		b.WriteString("## Notes\n\n")
		for i, comment := range r.Comments {
			if i > 0 {
				b.WriteString(">\n")
			}
			b.WriteString("> " + escape(comment.Text) + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeMetadataList(b *strings.Builder, md metadata.Metadata) {
	fields := md.All()
	written := false
	for _, key := range fields.Keys() {
		if key == metadata.KeyTitle {
			continue
		}
		value, _ := fields.Get(key)
		text := displayValue(value)
		if text == "" {
			continue
		}
		b.WriteString("- **" + escape(key) + ":** " + escape(text) + "\n")
		written = true
	}
	if written {
		b.WriteString("\n")
	}
}

func displayValue(value metadata.Value) string {
	if text, ok := value.Scalar(); ok {
		return text
	}
	if items, ok := value.AsList(); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if text, ok := item.Scalar(); ok && text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", ")
	}
	if entries, ok := value.AsMap(); ok {
		parts := make([]string, 0, len(entries))
		for _, key := range value.Keys() {
			if text, ok := entries[key].Scalar(); ok && text != "" {
				parts = append(parts, key+": "+text)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// ingredientLine lists every distinct amount an ingredient is used with,
// e.g. "**milk**: 1.5 cups, splash (optional)".
func ingredientLine(ingredient recipe.Ingredient) string {
	var amounts []string
	optional := len(ingredient.Occurrences) > 0
	for _, occ := range ingredient.Occurrences {
		if amount := amountText(occ.Quantity, occ.Unit, occ.RawQuantity); amount != "" {
			amounts = append(amounts, escape(amount))
		}
		optional = optional && occ.Optional
	}

	line := "**" + escape(ingredient.Name) + "**"
	if len(amounts) > 0 {
		line += ": " + strings.Join(amounts, ", ")
	}
	if optional {
		line += " (optional)"
	}
	return line
}

func amountText(value *float64, unit, raw string) string {
	if value == nil {
		return strings.TrimSpace(raw)
	}
	text := recipe.FormatNumber(*value)
	if unit != "" {
		text += " " + unit
	}
	return text
}

// stepProse renders a step for reading: markers are replaced by the names or
// amounts they carry.
func stepProse(step recipe.Step) string {
	var b strings.Builder
	for _, token := range step.Tokens {
		switch t := token.(type) {
		case recipe.TextToken:
			b.WriteString(escape(t.Text))
		case recipe.IngredientToken:
			b.WriteString(escape(t.Name))
		case recipe.CookwareToken:
			b.WriteString(escape(t.Name))
		case recipe.TimerToken:
			b.WriteString(escape(timerProse(t)))
		}
	}
	return strings.TrimSpace(b.String())
}

func timerProse(t recipe.TimerToken) string {
	if t.Compact != "" {
		return t.Compact
	}
	raw := ""
	if t.RawDuration != nil {
		raw = *t.RawDuration
	}
	amount := amountText(t.Duration, t.Unit, raw)
	switch {
	case t.Name != "" && amount != "":
		return t.Name + " (" + amount + ")"
	case t.Name != "":
		return t.Name
	default:
		return amount
	}
}
