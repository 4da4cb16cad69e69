package storefront

import (
	"fmt"
	"slices"
)

// Recipe is one recipe card.
type Recipe struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Product     string   `yaml:"product"`
	Protein     string   `yaml:"protein"`
	MealType    string   `yaml:"meal_type"`
	Occasion    string   `yaml:"occasion"`
	Prep        int      `yaml:"prep"`
	Cook        int      `yaml:"cook"`
	Serves      int      `yaml:"serves"`
	Description string   `yaml:"description"`
	Featured    bool     `yaml:"featured"`
	Uses        []string `yaml:"uses"`
	Tags        []string `yaml:"tags"`
	Pairs       []string `yaml:"pairs"`
	ChefTips    string   `yaml:"chef_tips"`
}

// TotalTime is prep plus cook minutes.
func (r Recipe) TotalTime() int {
	return r.Prep + r.Cook
}

// RecipeFilter selects recipes. Empty fields and FilterAll match everything.
type RecipeFilter struct {
	Product  string
	Protein  string
	Meal     string
	Occasion string
	Use      string
	Tag      string
}

func matches(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

func contains(want string, got []string) bool {
	return want == "" || want == FilterAll || slices.Contains(got, want)
}

// Match reports whether r passes every dimension of f.
func (f RecipeFilter) Match(r Recipe) bool {
	return matches(f.Product, r.Product) &&
		matches(f.Protein, r.Protein) &&
		matches(f.Meal, r.MealType) &&
		matches(f.Occasion, r.Occasion) &&
		contains(f.Use, r.Uses) &&
		contains(f.Tag, r.Tags)
}

// FilterRecipes returns the recipes matching f in fixture order.
func FilterRecipes(recipes []Recipe, f RecipeFilter) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// FeaturedRecipes returns the recipes flagged as featured.
func FeaturedRecipes(recipes []Recipe) []Recipe {
	out := make([]Recipe, 0, 3)
	for _, r := range recipes {
		if r.Featured {
			out = append(out, r)
		}
	}
	return out
}

// RecipeBySlug finds a recipe by slug.
func RecipeBySlug(recipes []Recipe, slug string) (Recipe, error) {
	i := slices.IndexFunc(recipes, func(r Recipe) bool { return r.Slug == slug })
	if i < 0 {
		return Recipe{}, fmt.Errorf("%w: %q", ErrRecipeNotFound, slug)
	}
	return recipes[i], nil
}

// RecipeOptions lists the distinct values of each filter dimension in first-seen order.
type RecipeOptions struct {
	Products  []string
	Proteins  []string
	Meals     []string
	Occasions []string
	Uses      []string
	Tags      []string
}

// Options collects RecipeOptions from recipes.
func Options(recipes []Recipe) RecipeOptions {
	var o RecipeOptions
	for _, r := range recipes {
		o.Products = appendDistinct(o.Products, r.Product)
		o.Proteins = appendDistinct(o.Proteins, r.Protein)
		o.Meals = appendDistinct(o.Meals, r.MealType)
		o.Occasions = appendDistinct(o.Occasions, r.Occasion)
		o.Uses = appendDistinct(o.Uses, r.Uses...)
		o.Tags = appendDistinct(o.Tags, r.Tags...)
	}
	return o
}

func appendDistinct(list []string, values ...string) []string {
	for _, v := range values {
		if v != "" && !slices.Contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}
