package parser

import (
	"strings"

	"github.com/goliatone/go-cooklang/internal/recipe"
)

// summarize indexes ingredient and cookware tokens across steps. Entries are
// keyed by lowercase name, keep the first-seen display name, and appear in
// first-seen order.
func summarize(steps []recipe.Step) ([]recipe.Ingredient, []recipe.Cookware) {
	ingredients := []recipe.Ingredient{}
	cookware := []recipe.Cookware{}
	ingredientIndex := map[string]int{}
	cookwareIndex := map[string]int{}

	for _, step := range steps {
		for _, token := range step.Tokens {
			switch t := token.(type) {
			case recipe.IngredientToken:
				key := strings.ToLower(t.Name)
				pos, ok := ingredientIndex[key]
				if !ok {
					pos = len(ingredients)
					ingredientIndex[key] = pos
					ingredients = append(ingredients, recipe.Ingredient{Name: t.Name})
				}
				ingredients[pos].Occurrences = append(ingredients[pos].Occurrences, recipe.IngredientOccurrence{
					Step:        step.Index,
					Quantity:    t.Quantity,
					Unit:        t.Unit,
					Optional:    t.Optional,
					RawQuantity: t.RawQuantity,
					Section:     step.Section,
				})
			case recipe.CookwareToken:
				key := strings.ToLower(t.Name)
				pos, ok := cookwareIndex[key]
				if !ok {
					pos = len(cookware)
					cookwareIndex[key] = pos
					cookware = append(cookware, recipe.Cookware{Name: t.Name})
				}
				cookware[pos].Occurrences = append(cookware[pos].Occurrences, recipe.CookwareOccurrence{
					Step:    step.Index,
					Section: step.Section,
				})
			}
		}
	}

	return ingredients, cookware
}
