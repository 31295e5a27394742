package parser_test

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-cooklang/internal/parser"
	"github.com/goliatone/go-cooklang/pkg/testsupport"
)

// recipeSummary is the shape of testdata/*.golden.json.
type recipeSummary struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Steps       []string `json:"steps"`
	Sections    []string `json:"sections"`
	Ingredients []string `json:"ingredients"`
	Cookware    []string `json:"cookware"`
	Tags        []string `json:"tags"`
}

func TestParseMatchesGoldenSummaries(t *testing.T) {
	fixtures := []string{"garlic_bread.cook", "sourdough_pancakes.cook"}

	for _, name := range fixtures {
		t.Run(name, func(t *testing.T) {
			var want recipeSummary
			golden := filepath.Join("testdata", strings.TrimSuffix(name, ".cook")+".golden.json")
			if err := testsupport.LoadGolden(golden, &want); err != nil {
				t.Fatalf("load golden: %v", err)
			}

			slug := strings.TrimSuffix(name, ".cook")
			r, err := parser.New().ParseWithSlug(readFixture(t, name), slug)
			if err != nil {
				t.Fatalf("ParseWithSlug: %v", err)
			}

			got := recipeSummary{
				Slug:        r.Slug,
				Title:       r.Title(),
				Sections:    r.Sections(),
				Ingredients: r.IngredientNames(),
				Cookware:    r.CookwareNames(),
				Tags:        r.Tags(),
			}
			for _, step := range r.Steps {
				got.Steps = append(got.Steps, step.Text())
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("summary mismatch\n got: %+v\nwant: %+v", got, want)
			}
		})
	}
}
