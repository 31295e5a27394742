package metadata

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-cooklang/internal/quantity"
)

// Canonical metadata keys.
const (
	KeyTitle       = "title"
	KeyServings    = "servings"
	KeySource      = "source"
	KeyAuthor      = "author"
	KeySourceURL   = "source_url"
	KeyTotalTime   = "totalTime"
	KeyPrepTime    = "prepTime"
	KeyCookTime    = "cookTime"
	KeyCourse      = "course"
	KeyLocale      = "locale"
	KeyDifficulty  = "difficulty"
	KeyCuisine     = "cuisine"
	KeyDiet        = "diet"
	KeyTags        = "tags"
	KeyImage       = "image"
	KeyImages      = "images"
	KeyDescription = "description"
)

type normalizer func(Value) (Value, bool)

type canonicalField struct {
	key       string
	synonyms  []string
	normalize normalizer
}

// canonicalFields lists the canonical schema in output order. Synonyms are
// written in normalized form (lowercase, "_" separated).
var canonicalFields = []canonicalField{
	{KeyTitle, []string{"title", "name", "recipe", "recipe_name"}, normalizeString},
	{KeyServings, []string{"servings", "serves", "serving", "yield", "yields", "portions"}, normalizeServings},
	{KeySource, []string{"source", "source_name"}, normalizeString},
	{KeyAuthor, []string{"author", "source_author", "by", "chef"}, normalizeString},
	{KeySourceURL, []string{"source_url", "sourceurl", "url", "link", "original_url"}, normalizeString},
	{KeyTotalTime, []string{"total_time", "totaltime", "time", "duration", "ready_in"}, normalizeDuration},
	{KeyPrepTime, []string{"prep_time", "preptime", "preparation_time", "prep"}, normalizeDuration},
	{KeyCookTime, []string{"cook_time", "cooktime", "cooking_time", "cook"}, normalizeDuration},
	{KeyCourse, []string{"course", "category", "meal", "meal_type"}, normalizeString},
	{KeyLocale, []string{"locale", "language", "lang"}, normalizeString},
	{KeyDifficulty, []string{"difficulty", "level", "skill"}, normalizeString},
	{KeyCuisine, []string{"cuisine", "origin"}, normalizeString},
	{KeyDiet, []string{"diet", "diets", "dietary"}, normalizeList},
	{KeyTags, []string{"tags", "tag", "keywords", "labels"}, normalizeList},
	{KeyDescription, []string{"description", "summary", "intro", "introduction"}, normalizeString},
}

var (
	imageSynonyms  = []string{"image", "picture", "photo", "cover"}
	imagesSynonyms = []string{"images", "pictures", "photos"}
)

var (
	keySeparatorPattern = regexp.MustCompile(`[^a-z0-9]+`)
	digitRunPattern     = regexp.MustCompile(`\d+`)
	reservedKeys        = buildReservedKeys()
)

// Canonicalize maps raw document metadata onto the canonical schema. Each
// canonical field takes the first non-empty value among its synonyms; a value
// the field's normalizer rejects is omitted. Raw keys that match no synonym
// pass through unchanged. A "source" mapping has its name, url and author
// lifted into source, source_url and source_author. Canonicalize never fails.
func Canonicalize(raw *Fields) *Fields {
	lookup := buildLookup(raw)
	out := NewFields()

	for _, field := range canonicalFields {
		value, ok := firstNonEmpty(lookup, field.synonyms)
		if !ok {
			continue
		}
		if normalized, ok := field.normalize(value); ok {
			out.Set(field.key, normalized)
		}
	}

	canonicalizeImages(lookup, out)

	for _, key := range raw.Keys() {
		if _, reserved := reservedKeys[NormalizeKey(key)]; reserved {
			continue
		}
		value, _ := raw.Get(key)
		out.Set(key, value)
	}

	return out
}

// NormalizeKey lowercases key and collapses runs of non-alphanumeric
// characters into a single underscore.
func NormalizeKey(key string) string {
	normalized := keySeparatorPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(key)), "_")
	return strings.Trim(normalized, "_")
}

func buildLookup(raw *Fields) map[string]Value {
	lookup := make(map[string]Value, raw.Len())
	for _, key := range raw.Keys() {
		value, _ := raw.Get(key)
		lookup[NormalizeKey(key)] = value
	}

	source, ok := lookup["source"]
	if !ok || source.Kind() != KindMap {
		return lookup
	}
	nested, _ := source.AsMap()
	delete(lookup, "source")

	lifted := map[string]string{"name": "source", "url": "source_url", "author": "source_author"}
	for nestedKey, value := range nested {
		target, ok := lifted[NormalizeKey(nestedKey)]
		if !ok {
			continue
		}
		if existing, present := lookup[target]; present && !existing.IsEmpty() {
			continue
		}
		lookup[target] = value
	}
	return lookup
}

func firstNonEmpty(lookup map[string]Value, synonyms []string) (Value, bool) {
	for _, synonym := range synonyms {
		if value, ok := lookup[synonym]; ok && !value.IsEmpty() {
			return value, true
		}
	}
	return Value{}, false
}

func canonicalizeImages(lookup map[string]Value, out *Fields) {
	if value, ok := firstNonEmpty(lookup, imageSynonyms); ok {
		if value.Kind() == KindList {
			if images, ok := normalizeList(value); ok {
				out.Set(KeyImages, images)
			}
		} else if image, ok := normalizeString(value); ok {
			out.Set(KeyImage, image)
		}
	}

	if _, ok := out.Get(KeyImages); !ok {
		if value, ok := firstNonEmpty(lookup, imagesSynonyms); ok {
			if images, ok := normalizeList(value); ok {
				out.Set(KeyImages, images)
			}
		}
	}

	if _, ok := out.Get(KeyImage); ok {
		return
	}
	if images, ok := out.Get(KeyImages); ok {
		if items, _ := images.AsList(); len(items) > 0 {
			out.Set(KeyImage, items[0])
		}
	}
}

func normalizeString(value Value) (Value, bool) {
	text, ok := value.Scalar()
	if !ok {
		return Value{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Value{}, false
	}
	return String(text), true
}

func normalizeServings(value Value) (Value, bool) {
	if n, ok := value.AsInt(); ok {
		return Int(n), true
	}
	text, ok := value.AsString()
	if !ok {
		return Value{}, false
	}
	if n, ok := quantity.Truncate(text); ok {
		return Int(n), true
	}
	if run := digitRunPattern.FindString(text); run != "" {
		if n, err := strconv.Atoi(run); err == nil {
			return Int(n), true
		}
	}
	return Value{}, false
}

func normalizeDuration(value Value) (Value, bool) {
	if n, ok := value.AsInt(); ok {
		return Int(n), true
	}
	text, ok := value.AsString()
	if !ok {
		return Value{}, false
	}
	if n, ok := quantity.Truncate(text); ok {
		return Int(n), true
	}
	if minutes, ok := quantity.Minutes(text); ok {
		return Int(minutes), true
	}
	return Value{}, false
}

func normalizeList(value Value) (Value, bool) {
	var items []string
	switch value.Kind() {
	case KindString:
		text, _ := value.AsString()
		for _, part := range strings.Split(text, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	case KindList:
		list, _ := value.AsList()
		for _, item := range list {
			text, ok := item.Scalar()
			if !ok {
				continue
			}
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	case KindInt, KindBool:
		text, _ := value.Scalar()
		items = append(items, text)
	}
	if len(items) == 0 {
		return Value{}, false
	}
	return Strings(items...), true
}

func buildReservedKeys() map[string]struct{} {
	reserved := map[string]struct{}{}
	for _, field := range canonicalFields {
		for _, synonym := range field.synonyms {
			reserved[synonym] = struct{}{}
		}
	}
	for _, synonym := range imageSynonyms {
		reserved[synonym] = struct{}{}
	}
	for _, synonym := range imagesSynonyms {
		reserved[synonym] = struct{}{}
	}
	return reserved
}
