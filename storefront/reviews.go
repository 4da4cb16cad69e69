package storefront

import (
	"fmt"
	"slices"
	"strconv"
)

// Review sort orders.
const (
	SortRecent = "recent"
	SortRating = "rating"
)

// FilterAll matches every value of a filter dimension.
const FilterAll = "all"

// Review is a customer review. Fixture order is newest first.
type Review struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Rating int    `yaml:"rating"`
	Title  string `yaml:"title"`
	Body   string `yaml:"body"`
	Date   string `yaml:"date"`
}

// Reviews filters and sorts reviews without modifying the input.
//
// Parameters:
//   - reviews: reviews in fixture order
//   - sortBy: SortRecent keeps fixture order, SortRating orders by rating, highest first
//   - rating: FilterAll or a star count such as "5"
//
// Returns:
//   - []Review: the matching reviews
//   - error: an unknown sort order or a malformed rating
func Reviews(reviews []Review, sortBy, rating string) ([]Review, error) {
	want := 0
	if rating != "" && rating != FilterAll {
		n, err := strconv.Atoi(rating)
		if err != nil || n < 1 || n > 5 {
			return nil, fmt.Errorf("storefront: invalid rating filter %q", rating)
		}
		want = n
	}

	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if want == 0 || r.Rating == want {
			out = append(out, r)
		}
	}

	switch sortBy {
	case "", SortRecent:
	case SortRating:
		slices.SortStableFunc(out, func(a, b Review) int { return b.Rating - a.Rating })
	default:
		return nil, fmt.Errorf("storefront: unknown review sort %q", sortBy)
	}
	return out, nil
}

// AverageRating returns the mean rating, or 0 for no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
