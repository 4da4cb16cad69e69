package storefront

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
)

// Wheel play-state keys and values.
const (
	PlayedKey      = "oishii_spin_played"
	DismissedValue = "dismissed"
)

var (
	// ErrEmailRequired is returned when Spin is called with an empty email.
	ErrEmailRequired = errors.New("storefront: email required")

	// ErrEmailInvalid is returned when the email does not look like an address.
	ErrEmailInvalid = errors.New("storefront: invalid email")

	emailPattern = regexp.MustCompile(`(?i).+@.+\..+`)
)

// Discount is one wheel segment.
type Discount struct {
	Label  string `yaml:"label"`
	Weight int    `yaml:"weight"`
}

// Code is the checkout code for the discount, e.g. OIISHI15 for "15%".
func (d Discount) Code() string {
	return "OIISHI" + strings.TrimSuffix(d.Label, "%")
}

// PlayStore persists whether the wheel was played. It mirrors the browser storage the
// wheel state used to live in.
type PlayStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryPlayStore is a PlayStore held in memory.
type MemoryPlayStore struct {
	mu     sync.Mutex
	values map[string]string
}

var _ PlayStore = &MemoryPlayStore{}

// NewMemoryPlayStore creates an empty MemoryPlayStore.
func NewMemoryPlayStore() *MemoryPlayStore {
	return &MemoryPlayStore{values: make(map[string]string)}
}

func (s *MemoryPlayStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryPlayStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// SpinResult is the outcome of one spin.
type SpinResult struct {
	Discount Discount
	Code     string
}

// Wheel is the spin-to-win discount wheel.
type Wheel struct {
	discounts []Discount
	store     PlayStore
	random    func() float64
}

// WheelOption is a functional option for NewWheel.
type WheelOption func(*Wheel)

// WithRandom replaces the uniform [0, 1) source used to pick a segment.
func WithRandom(random func() float64) WheelOption {
	return func(w *Wheel) {
		if random != nil {
			w.random = random
		}
	}
}

// WithPlayStore sets where the played state is kept. The default is in memory.
func WithPlayStore(store PlayStore) WheelOption {
	return func(w *Wheel) {
		if store != nil {
			w.store = store
		}
	}
}

// NewWheel creates a wheel over discounts, which must be non-empty.
//
// Parameters:
//   - discounts: the segments in display order
//   - options: variadic list of WheelOption functions
//
// Returns:
//   - *Wheel: the wheel
func NewWheel(discounts []Discount, options ...WheelOption) *Wheel {
	if len(discounts) == 0 {
		panic("storefront: NewWheel requires discounts")
	}
	w := &Wheel{
		discounts: discounts,
		store:     NewMemoryPlayStore(),
		random:    rand.Float64,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Segments returns the wheel labels in display order.
func (w *Wheel) Segments() []string {
	labels := make([]string, len(w.discounts))
	for i, d := range w.discounts {
		labels[i] = d.Label
	}
	return labels
}

// Pick samples a discount by weight: the first segment whose running weight reaches
// random()*total, or the first segment if none does.
func (w *Wheel) Pick() Discount {
	return pickDiscount(w.discounts, w.random())
}

func pickDiscount(discounts []Discount, u float64) Discount {
	total := 0
	for _, d := range discounts {
		total += d.Weight
	}
	threshold := u * float64(total)
	running := 0
	for _, d := range discounts {
		running += d.Weight
		if threshold <= float64(running) {
			return d
		}
	}
	return discounts[0]
}

// Spin validates email, picks a discount and records it as played.
//
// Parameters:
//   - email: the entrant's email address
//
// Returns:
//   - SpinResult: the won discount and its code
//   - error: ErrEmailRequired, ErrEmailInvalid or a PlayStore error
func (w *Wheel) Spin(email string) (SpinResult, error) {
	if email == "" {
		return SpinResult{}, ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return SpinResult{}, ErrEmailInvalid
	}
	d := w.Pick()
	if err := w.store.Set(PlayedKey, d.Label); err != nil {
		return SpinResult{}, err
	}
	return SpinResult{Discount: d, Code: d.Code()}, nil
}

// SpinMessage returns the copy shown to the entrant for a Spin validation error, or ""
// for any other error.
func SpinMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmailRequired):
		return "Enter your email to spin."
	case errors.Is(err, ErrEmailInvalid):
		return "That email doesn't look right yet."
	default:
		return ""
	}
}

// Dismiss closes the wheel without playing; it will not open again.
func (w *Wheel) Dismiss() error {
	return w.store.Set(PlayedKey, DismissedValue)
}

// ShouldOpen reports whether the wheel has never been played or dismissed.
func (w *Wheel) ShouldOpen() bool {
	v, ok := w.store.Get(PlayedKey)
	return !ok || v == ""
}

// LastResult returns the recorded label, or "" if the wheel was dismissed or never played.
func (w *Wheel) LastResult() string {
	v, ok := w.store.Get(PlayedKey)
	if !ok || v == DismissedValue {
		return ""
	}
	return v
}
