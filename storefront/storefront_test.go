package storefront

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFixtures(t *testing.T) {
	f := DefaultFixtures()
	assert.Len(t, f.Wheel, 5)
	assert.Len(t, f.Shop.Packs, 3)
	assert.Len(t, f.Reviews, 3)
	assert.Len(t, f.Recipes, 8)
	assert.NotEmpty(t, f.Product.Name)

	f.Recipes[0].Title = "changed"
	assert.NotEqual(t, "changed", DefaultFixtures().Recipes[0].Title)
}

func TestLoadFixtures_OverridesSections(t *testing.T) {
	f, err := LoadFixtures(strings.NewReader(`
wheel:
  - {label: "50%", weight: 1}
`))
	require.NoError(t, err)
	require.Len(t, f.Wheel, 1)
	assert.Equal(t, "50%", f.Wheel[0].Label)
	assert.Len(t, f.Recipes, 8)
}

func TestLoadFixtures_Invalid(t *testing.T) {
	_, err := LoadFixtures(strings.NewReader("shop:\n  default_pack: crate\n"))
	assert.ErrorIs(t, err, ErrUnknownPack)

	_, err = LoadFixtures(strings.NewReader("wheel:\n  - {label: x, weight: 0}\n"))
	assert.Error(t, err)

	_, err = LoadFixtures(strings.NewReader("wheel: [\n"))
	assert.Error(t, err)
}

func TestLoadFixturesFile_EmptyPath(t *testing.T) {
	f, err := LoadFixturesFile("")
	require.NoError(t, err)
	assert.Len(t, f.Recipes, 8)

	_, err = LoadFixturesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPickDiscount_CumulativeWeights(t *testing.T) {
	wheel := DefaultFixtures().Wheel
	cases := []struct {
		u    float64
		want string
	}{
		{0, "5%"},
		{0.35, "5%"},
		{0.36, "10%"},
		{0.65, "10%"},
		{0.66, "15%"},
		{0.83, "15%"},
		{0.84, "25%"},
		{0.93, "25%"},
		{0.94, "40%"},
		{0.999, "40%"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pickDiscount(wheel, tc.u).Label, "u=%v", tc.u)
	}
}

func TestPickDiscount_FallsBackToFirst(t *testing.T) {
	wheel := DefaultFixtures().Wheel
	assert.Equal(t, "5%", pickDiscount(wheel, 1.5).Label)
}

func TestSpinMessage(t *testing.T) {
	assert.Equal(t, "Enter your email to spin.", SpinMessage(ErrEmailRequired))
	assert.Equal(t, "That email doesn't look right yet.", SpinMessage(fmt.Errorf("spin: %w", ErrEmailInvalid)))
	assert.Empty(t, SpinMessage(errors.New("disk full")))
	assert.Empty(t, SpinMessage(nil))
}

func TestWheel_Spin(t *testing.T) {
	store := NewMemoryPlayStore()
	w := NewWheel(DefaultFixtures().Wheel, WithRandom(func() float64 { return 0.9 }), WithPlayStore(store))
	assert.True(t, w.ShouldOpen())

	_, err := w.Spin("")
	assert.ErrorIs(t, err, ErrEmailRequired)
	_, err = w.Spin("   ")
	assert.ErrorIs(t, err, ErrEmailInvalid)
	_, err = w.Spin("not-an-email")
	assert.ErrorIs(t, err, ErrEmailInvalid)
	assert.True(t, w.ShouldOpen())

	res, err := w.Spin("cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, "25%", res.Discount.Label)
	assert.Equal(t, "OIISHI25", res.Code)
	assert.False(t, w.ShouldOpen())
	assert.Equal(t, "25%", w.LastResult())

	v, ok := store.Get(PlayedKey)
	assert.True(t, ok)
	assert.Equal(t, "25%", v)
}

func TestWheel_Dismiss(t *testing.T) {
	w := NewWheel(DefaultFixtures().Wheel)
	require.NoError(t, w.Dismiss())
	assert.False(t, w.ShouldOpen())
	assert.Empty(t, w.LastResult())
	assert.Equal(t, []string{"5%", "10%", "15%", "25%", "40%"}, w.Segments())
}

func TestNewWheel_PanicsWithoutDiscounts(t *testing.T) {
	assert.Panics(t, func() { NewWheel(nil) })
}

func TestFilePlayStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	store := NewFilePlayStore(path)
	_, ok := store.Get(PlayedKey)
	assert.False(t, ok)

	require.NoError(t, store.Set(PlayedKey, "10%"))

	reopened := NewWheel(DefaultFixtures().Wheel, WithPlayStore(NewFilePlayStore(path)))
	assert.False(t, reopened.ShouldOpen())
	assert.Equal(t, "10%", reopened.LastResult())
}

func TestQuote_OneTime(t *testing.T) {
	shop := DefaultFixtures().Shop
	q, err := shop.Quote("", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "trio", q.Pack.ID)
	assert.Equal(t, PurchaseOneTime, q.PurchaseType)
	assert.Equal(t, "$48.00", q.PriceText())
	assert.Equal(t, "15%", q.SavingsLabel)
	assert.Zero(t, q.Frequency.Days)
}

func TestQuote_SubscriptionPricing(t *testing.T) {
	shop := DefaultFixtures().Shop
	want := map[string]string{"solo": "$15.30", "trio": "$40.80", "case": "$76.50"}
	for id, price := range want {
		q, err := shop.Quote(id, PurchaseSubscribe, 0)
		require.NoError(t, err)
		assert.Equal(t, price, q.PriceText(), id)
		assert.Equal(t, 30, q.Frequency.Days)
	}

	q, err := shop.Quote("case", PurchaseSubscribe, 90)
	require.NoError(t, err)
	assert.Equal(t, "Every 3 months", q.Frequency.Label)
	assert.InDelta(t, 76.5, q.Price, 1e-9)
}

func TestQuote_Errors(t *testing.T) {
	shop := DefaultFixtures().Shop
	_, err := shop.Quote("crate", PurchaseOneTime, 0)
	assert.ErrorIs(t, err, ErrUnknownPack)
	_, err = shop.Quote("solo", "rent", 0)
	assert.ErrorIs(t, err, ErrUnknownPurchaseType)
	_, err = shop.Quote("solo", PurchaseSubscribe, 7)
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func reviewIDs(reviews []Review) []int {
	ids := make([]int, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	return ids
}

func TestReviews_SortAndFilter(t *testing.T) {
	all := DefaultFixtures().Reviews

	got, err := Reviews(all, SortRecent, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, reviewIDs(got))

	got, err = Reviews(all, SortRating, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2}, reviewIDs(got))
	assert.Equal(t, []int{1, 2, 3}, reviewIDs(all))

	got, err = Reviews(all, SortRecent, "5")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, reviewIDs(got))

	got, err = Reviews(all, SortRecent, "1")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Reviews(all, "oldest", FilterAll)
	assert.Error(t, err)
	_, err = Reviews(all, SortRecent, "six")
	assert.Error(t, err)

	assert.InDelta(t, 14.0/3, AverageRating(all), 1e-9)
	assert.Zero(t, AverageRating(nil))
}

func recipeSlugs(recipes []Recipe) []string {
	slugs := make([]string, len(recipes))
	for i, r := range recipes {
		slugs[i] = r.Slug
	}
	return slugs
}

func TestFilterRecipes(t *testing.T) {
	recipes := DefaultFixtures().Recipes

	assert.Len(t, FilterRecipes(recipes, RecipeFilter{}), 8)
	assert.Len(t, FilterRecipes(recipes, RecipeFilter{Product: FilterAll, Tag: FilterAll}), 8)

	assert.Equal(t,
		[]string{"charred-short-rib", "glazed-miso-eggplant", "crispy-rice-salmon", "yakitori-skewers"},
		recipeSlugs(FilterRecipes(recipes, RecipeFilter{Product: "Original"})))

	assert.Equal(t,
		[]string{"glazed-miso-eggplant", "crispy-rice-salmon", "karaage-sliders"},
		recipeSlugs(FilterRecipes(recipes, RecipeFilter{Use: "dip"})))

	assert.Equal(t,
		[]string{"charred-short-rib", "smokehouse-burnt-ends"},
		recipeSlugs(FilterRecipes(recipes, RecipeFilter{Protein: "Beef", Meal: "Dinner"})))

	assert.Equal(t,
		[]string{"karaage-sliders"},
		recipeSlugs(FilterRecipes(recipes, RecipeFilter{Tag: "Most Loved", Product: "Spicy"})))

	assert.Empty(t, FilterRecipes(recipes, RecipeFilter{Occasion: "Brunch"}))
}

func TestFeaturedAndBySlug(t *testing.T) {
	recipes := DefaultFixtures().Recipes
	assert.Equal(t,
		[]string{"charred-short-rib", "glazed-miso-eggplant", "midnight-yaki-udon"},
		recipeSlugs(FeaturedRecipes(recipes)))

	r, err := RecipeBySlug(recipes, "smokehouse-burnt-ends")
	require.NoError(t, err)
	assert.Equal(t, 270, r.TotalTime())

	_, err = RecipeBySlug(recipes, "nope")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestOptions(t *testing.T) {
	o := Options(DefaultFixtures().Recipes)
	assert.Equal(t, []string{"Original", "Spicy", "Yuzu", "Smoked"}, o.Products)
	assert.Equal(t, []string{"Beef", "Vegetarian", "Seafood", "Poultry"}, o.Proteins)
	assert.Equal(t, []string{"Dinner", "Late Night", "Appetizer", "Lunch"}, o.Meals)
	assert.Equal(t, []string{"marinade", "finishing", "dip"}, o.Uses)
	assert.Contains(t, o.Tags, "Showstopper")
	assert.Len(t, o.Occasions, 8)
}
