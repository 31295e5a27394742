package recipe

import (
	"encoding/json"
	"fmt"
)

type tokenEnvelope struct {
	Type        TokenKind `json:"type" yaml:"type"`
	Text        string    `json:"text,omitempty" yaml:"text,omitempty"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Quantity    *float64  `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Duration    *float64  `json:"duration,omitempty" yaml:"duration,omitempty"`
	Unit        string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Optional    bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
	RawQuantity *string   `json:"raw_quantity,omitempty" yaml:"raw_quantity,omitempty"`
	RawDuration *string   `json:"raw_duration,omitempty" yaml:"raw_duration,omitempty"`
	Compact     string    `json:"compact,omitempty" yaml:"compact,omitempty"`
}

type stepEnvelope struct {
	Index   int             `json:"index" yaml:"index"`
	Section string          `json:"section,omitempty" yaml:"section,omitempty"`
	Text    string          `json:"text" yaml:"text"`
	Tokens  []tokenEnvelope `json:"tokens" yaml:"tokens"`
}

func envelopeToken(token Token) tokenEnvelope {
	switch t := token.(type) {
	case TextToken:
		return tokenEnvelope{Type: KindText, Text: t.Text}
	case IngredientToken:
		raw := t.RawQuantity
		return tokenEnvelope{
			Type:        KindIngredient,
			Name:        t.Name,
			Quantity:    t.Quantity,
			Unit:        t.Unit,
			Optional:    t.Optional,
			RawQuantity: &raw,
		}
	case CookwareToken:
		return tokenEnvelope{Type: KindCookware, Name: t.Name}
	case TimerToken:
		return tokenEnvelope{
			Type:        KindTimer,
			Name:        t.Name,
			Duration:    t.Duration,
			Unit:        t.Unit,
			RawDuration: t.RawDuration,
			Compact:     t.Compact,
		}
	}
	return tokenEnvelope{}
}

func (e tokenEnvelope) token() (Token, error) {
	switch e.Type {
	case KindText:
		return TextToken{Text: e.Text}, nil
	case KindIngredient:
		token := IngredientToken{
			Name:     e.Name,
			Quantity: e.Quantity,
			Unit:     e.Unit,
			Optional: e.Optional,
		}
		if e.RawQuantity != nil {
			token.RawQuantity = *e.RawQuantity
		}
		return token, nil
	case KindCookware:
		return CookwareToken{Name: e.Name}, nil
	case KindTimer:
		return TimerToken{
			Name:        e.Name,
			Duration:    e.Duration,
			Unit:        e.Unit,
			RawDuration: e.RawDuration,
			Compact:     e.Compact,
		}, nil
	default:
		return nil, fmt.Errorf("recipe: unknown token type %q", e.Type)
	}
}

func (s Step) envelope() stepEnvelope {
	tokens := make([]tokenEnvelope, 0, len(s.Tokens))
	for _, token := range s.Tokens {
		tokens = append(tokens, envelopeToken(token))
	}
	return stepEnvelope{
		Index:   s.Index,
		Section: s.Section,
		Text:    s.Text(),
		Tokens:  tokens,
	}
}

// MarshalJSON encodes tokens as objects tagged with their "type".
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.envelope())
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (s *Step) UnmarshalJSON(data []byte) error {
	var env stepEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	tokens := make([]Token, 0, len(env.Tokens))
	for _, raw := range env.Tokens {
		token, err := raw.token()
		if err != nil {
			return err
		}
		tokens = append(tokens, token)
	}
	*s = Step{Index: env.Index, Section: env.Section, Tokens: tokens}
	return nil
}

// MarshalYAML mirrors the JSON encoding.
func (s Step) MarshalYAML() (any, error) {
	return s.envelope(), nil
}
