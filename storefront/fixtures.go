// Package storefront holds the shop data around the bottle viewer: the discount wheel,
// pack pricing, reviews and recipes. Fixtures are plain data; every operation is a
// function of them.
package storefront

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var embeddedFixtures []byte

var (
	// ErrRecipeNotFound is returned when no recipe has the requested slug.
	ErrRecipeNotFound = errors.New("storefront: recipe not found")

	// ErrUnknownPack is returned when a quote names a pack that does not exist.
	ErrUnknownPack = errors.New("storefront: unknown pack")

	// ErrUnknownFrequency is returned when a subscription names an unsupported delivery frequency.
	ErrUnknownFrequency = errors.New("storefront: unknown delivery frequency")

	// ErrUnknownPurchaseType is returned for purchase types other than one-time and subscribe.
	ErrUnknownPurchaseType = errors.New("storefront: unknown purchase type")
)

// Product describes the sauce itself.
type Product struct {
	Name        string   `yaml:"name"`
	SKU         string   `yaml:"sku"`
	Description string   `yaml:"description"`
	Ingredients []string `yaml:"ingredients"`
}

// Fixtures is every piece of storefront data.
type Fixtures struct {
	Product Product    `yaml:"product"`
	Wheel   []Discount `yaml:"wheel"`
	Shop    ShopData   `yaml:"shop"`
	Reviews []Review   `yaml:"reviews"`
	Recipes []Recipe   `yaml:"recipes"`
}

// DefaultFixtures returns a fresh copy of the embedded fixtures.
func DefaultFixtures() *Fixtures {
	f, err := decodeFixtures(embeddedFixtures)
	if err != nil {
		panic(fmt.Sprintf("storefront: embedded fixtures: %v", err))
	}
	return f
}

// LoadFixtures decodes fixtures from r. Sections absent from r keep their embedded values.
//
// Parameters:
//   - r: YAML in the embedded fixtures' layout
//
// Returns:
//   - *Fixtures: the merged fixtures
//   - error: decode or validation error
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	f := DefaultFixtures()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadFixturesFile reads fixtures from path; an empty path returns the embedded fixtures.
func LoadFixturesFile(path string) (*Fixtures, error) {
	if path == "" {
		return DefaultFixtures(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer file.Close()
	return LoadFixtures(file)
}

func decodeFixtures(data []byte) (*Fixtures, error) {
	f := &Fixtures{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the invariants the storefront functions rely on.
func (f *Fixtures) Validate() error {
	if len(f.Wheel) == 0 {
		return errors.New("storefront: wheel has no discounts")
	}
	for _, d := range f.Wheel {
		if d.Weight <= 0 {
			return fmt.Errorf("storefront: discount %q has non-positive weight", d.Label)
		}
	}
	if len(f.Shop.Packs) == 0 {
		return errors.New("storefront: shop has no packs")
	}
	if _, ok := f.Shop.pack(f.Shop.DefaultPack); !ok {
		return fmt.Errorf("storefront: default pack %q: %w", f.Shop.DefaultPack, ErrUnknownPack)
	}
	if f.Shop.SubscriptionDiscount < 0 || f.Shop.SubscriptionDiscount >= 1 {
		return fmt.Errorf("storefront: subscription discount %v out of range", f.Shop.SubscriptionDiscount)
	}
	if _, ok := f.Shop.frequency(f.Shop.DefaultFrequency); !ok {
		return fmt.Errorf("storefront: default frequency %d: %w", f.Shop.DefaultFrequency, ErrUnknownFrequency)
	}
	seen := make(map[string]struct{}, len(f.Recipes))
	for _, r := range f.Recipes {
		if _, dup := seen[r.Slug]; dup {
			return fmt.Errorf("storefront: duplicate recipe slug %q", r.Slug)
		}
		seen[r.Slug] = struct{}{}
	}
	return nil
}
