package parser

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-cooklang/internal/quantity"
	"github.com/goliatone/go-cooklang/internal/recipe"
)

const (
	ingredientMarker = '@'
	cookwareMarker   = '#'
	timerMarker      = '~'
	escapeRune       = '\\'
	braceOpen        = '{'
	braceClose       = '}'
)

// tokenize scans step text left to right. Plain text accumulates until a
// marker or the end of input; a backslash makes the next rune literal.
// Each marker parser returns the offset of the last rune it consumed.
func tokenize(text string) ([]recipe.Token, error) {
	runes := []rune(text)
	var tokens []recipe.Token
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		tokens = append(tokens, recipe.TextToken{Text: buf.String()})
		buf.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case escapeRune:
			if i+1 < len(runes) {
				buf.WriteRune(runes[i+1])
				i++
				continue
			}
			buf.WriteRune(r)
		case ingredientMarker:
			flush()
			token, end, err := parseIngredient(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			i = end
		case cookwareMarker:
			flush()
			token, end, err := parseCookware(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			i = end
		case timerMarker:
			flush()
			token, end, err := parseTimer(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			i = end
		default:
			buf.WriteRune(r)
		}
	}
	flush()

	return tokens, nil
}

// parseIngredient reads "@name{payload}". The name runs up to the next "{";
// a name containing another marker means this "@" has no payload of its own.
func parseIngredient(runes []rune, start int) (recipe.IngredientToken, int, error) {
	brace := indexRune(runes, braceOpen, start+1)
	if brace < 0 {
		return recipe.IngredientToken{}, 0, errMissingQuantity(start)
	}

	segment := strings.TrimRightFunc(string(runes[start+1:brace]), unicode.IsSpace)
	if strings.ContainsAny(segment, "@#~") {
		return recipe.IngredientToken{}, 0, errMissingQuantity(start)
	}
	if segment == "" {
		return recipe.IngredientToken{}, 0, errMissingIngredientName(start)
	}

	optional := false
	if strings.HasSuffix(segment, "?") {
		optional = true
		segment = strings.TrimRightFunc(strings.TrimSuffix(segment, "?"), unicode.IsSpace)
	}

	name := strings.TrimSpace(segment)
	if name == "" {
		return recipe.IngredientToken{}, 0, errMissingIngredientName(start)
	}

	raw, end, err := consumeBrace(runes, brace)
	if err != nil {
		return recipe.IngredientToken{}, 0, err
	}

	amount := quantity.Split(raw)
	return recipe.IngredientToken{
		Name:        name,
		Quantity:    amount.Value,
		Unit:        unitOf(amount),
		Optional:    optional,
		RawQuantity: raw,
	}, end, nil
}

// parseCookware reads "#name" where name is letters, digits, "_" or "-".
func parseCookware(runes []rune, start int) (recipe.CookwareToken, int, error) {
	end := start + 1
	for end < len(runes) && isNameRune(runes[end]) {
		end++
	}
	if end == start+1 {
		return recipe.CookwareToken{}, 0, errMissingCookwareName(start)
	}
	return recipe.CookwareToken{Name: string(runes[start+1 : end])}, end - 1, nil
}

// parseTimer reads "~{payload}", "~name{payload}" or the brace-less
// "~name" / "~10min" forms. A brace-less segment stops before whitespace,
// punctuation or another marker; the stopping rune is left for the caller.
func parseTimer(runes []rune, start int) (recipe.TimerToken, int, error) {
	index := start + 1

	if index < len(runes) && runes[index] == braceOpen {
		raw, end, err := consumeBrace(runes, index)
		if err != nil {
			return recipe.TimerToken{}, 0, err
		}
		amount := quantity.Split(raw)
		return recipe.TimerToken{
			Duration:    amount.Value,
			Unit:        unitOf(amount),
			RawDuration: &raw,
		}, end, nil
	}

	var segment strings.Builder
	for index < len(runes) {
		r := runes[index]
		if r == braceOpen {
			raw, end, err := consumeBrace(runes, index)
			if err != nil {
				return recipe.TimerToken{}, 0, err
			}
			amount := quantity.Split(raw)
			return recipe.TimerToken{
				Name:        segment.String(),
				Duration:    amount.Value,
				Unit:        unitOf(amount),
				RawDuration: &raw,
			}, end, nil
		}
		if isMarker(r) || isDelimiter(r) {
			break
		}
		segment.WriteRune(r)
		index++
	}

	name := segment.String()
	if name == "" {
		return recipe.TimerToken{}, 0, errMissingTimerValue(start)
	}

	end := index - 1
	if amount, ok := quantity.SplitCompact(name); ok {
		timer := recipe.TimerToken{Duration: amount.Value, Unit: unitOf(amount)}
		if timer.Duration == nil {
			timer.Compact = name
		}
		return timer, end, nil
	}
	return recipe.TimerToken{Name: name}, end, nil
}

// consumeBrace reads from the "{" at start to the matching unescaped "}",
// unescaping backslash sequences. It returns the payload and the offset of
// the closing brace.
func consumeBrace(runes []rune, start int) (string, int, error) {
	var value strings.Builder
	escaped := false

	for index := start + 1; index < len(runes); index++ {
		r := runes[index]
		switch {
		case escaped:
			value.WriteRune(r)
			escaped = false
		case r == escapeRune:
			escaped = true
		case r == braceClose:
			return value.String(), index, nil
		default:
			value.WriteRune(r)
		}
	}

	return "", 0, errUnclosedBrace(start)
}

func indexRune(runes []rune, target rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == target {
			return i
		}
	}
	return -1
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func isMarker(r rune) bool {
	return r == ingredientMarker || r == cookwareMarker || r == timerMarker
}

func isDelimiter(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', '.', ';', ':', '!', '?', '(', ')':
		return true
	}
	return false
}

func unitOf(amount quantity.Amount) string {
	if amount.Unit == nil {
		return ""
	}
	return *amount.Unit
}
