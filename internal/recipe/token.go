package recipe

import (
	"strconv"
	"strings"
)

// TokenKind names a Token variant.
type TokenKind string

const (
	KindText       TokenKind = "text"
	KindIngredient TokenKind = "ingredient"
	KindCookware   TokenKind = "cookware"
	KindTimer      TokenKind = "timer"
)

// Token is one lexical unit of a step. The set of variants is closed:
// TextToken, IngredientToken, CookwareToken and TimerToken.
type Token interface {
	Kind() TokenKind
	// Cooklang renders the token back into markup that tokenizes to an
	// equivalent token.
	Cooklang() string
	sealed()
}

// TextToken is a run of plain text.
type TextToken struct {
	Text string
}

// IngredientToken is an "@name{quantity%unit}" marker. RawQuantity keeps the
// brace payload exactly as written; Quantity and Unit are the parsed view.
type IngredientToken struct {
	Name        string
	Quantity    *float64
	Unit        string
	Optional    bool
	RawQuantity string
}

// CookwareToken is a "#name" marker.
type CookwareToken struct {
	Name string
}

// TimerToken is a "~name{duration%unit}" marker or its compact "~10min"
// form. RawDuration is nil when no brace payload was written. Compact keeps
// the written segment of a compact timer whose number did not parse, such as
// "1/0min".
type TimerToken struct {
	Name        string
	Duration    *float64
	Unit        string
	RawDuration *string
	Compact     string
}

func (TextToken) Kind() TokenKind       { return KindText }
func (IngredientToken) Kind() TokenKind { return KindIngredient }
func (CookwareToken) Kind() TokenKind   { return KindCookware }
func (TimerToken) Kind() TokenKind      { return KindTimer }

func (TextToken) sealed()       {}
func (IngredientToken) sealed() {}
func (CookwareToken) sealed()   {}
func (TimerToken) sealed()      {}

var (
	textEscaper  = strings.NewReplacer(`\`, `\\`, `@`, `\@`, `#`, `\#`, `~`, `\~`)
	braceEscaper = strings.NewReplacer(`\`, `\\`, `}`, `\}`)
)

func (t TextToken) Cooklang() string {
	return textEscaper.Replace(t.Text)
}

func (t IngredientToken) Cooklang() string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(t.Name)
	if t.Optional {
		b.WriteByte('?')
	}
	b.WriteByte('{')
	b.WriteString(braceEscaper.Replace(t.RawQuantity))
	b.WriteByte('}')
	return b.String()
}

func (t CookwareToken) Cooklang() string {
	return "#" + t.Name
}

func (t TimerToken) Cooklang() string {
	if t.RawDuration != nil {
		return "~" + t.Name + "{" + braceEscaper.Replace(*t.RawDuration) + "}"
	}
	if t.Compact != "" {
		return "~" + t.Compact
	}
	if t.Name != "" {
		return "~" + t.Name
	}
	if t.Duration != nil {
		return "~" + FormatNumber(*t.Duration) + t.Unit
	}
	return "~"
}

// HasQuantity reports whether a numeric quantity was parsed.
func (t IngredientToken) HasQuantity() bool { return t.Quantity != nil }

// HasDuration reports whether a numeric duration was parsed.
func (t TimerToken) HasDuration() bool { return t.Duration != nil }

// FormatNumber renders a parsed quantity without trailing zeros.
func FormatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
