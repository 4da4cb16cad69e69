package storefront

import (
	"fmt"
	"math"
)

// Purchase types accepted by Quote.
const (
	PurchaseOneTime   = "one-time"
	PurchaseSubscribe = "subscribe"
)

// Pack is one purchasable bundle.
type Pack struct {
	ID          string  `yaml:"id"`
	Label       string  `yaml:"label"`
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description"`
	Badge       string  `yaml:"badge"`
}

// Frequency is a subscription delivery interval.
type Frequency struct {
	Days  int    `yaml:"days"`
	Label string `yaml:"label"`
}

// ShopData is the pack and subscription catalogue.
type ShopData struct {
	DefaultPack          string      `yaml:"default_pack"`
	SubscriptionDiscount float64     `yaml:"subscription_discount"`
	DefaultFrequency     int         `yaml:"default_frequency"`
	Packs                []Pack      `yaml:"packs"`
	Frequencies          []Frequency `yaml:"frequencies"`
}

// Quote is the price summary shown beside the add-to-cart button.
type Quote struct {
	Pack         Pack
	PurchaseType string
	// Frequency is zero for one-time purchases.
	Frequency Frequency
	Price     float64
	// SubscriptionPrice is the discounted price, always computed so the UI can show both.
	SubscriptionPrice float64
	SavingsLabel      string
}

// PriceText formats the charged price as dollars.
func (q Quote) PriceText() string {
	return FormatPrice(q.Price)
}

// FormatPrice formats a dollar amount with two decimals.
func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

func (s ShopData) pack(id string) (Pack, bool) {
	for _, p := range s.Packs {
		if p.ID == id {
			return p, true
		}
	}
	return Pack{}, false
}

func (s ShopData) frequency(days int) (Frequency, bool) {
	for _, f := range s.Frequencies {
		if f.Days == days {
			return f, true
		}
	}
	return Frequency{}, false
}

// SubscriptionPrice applies the subscription discount and rounds to cents.
func (s ShopData) SubscriptionPrice(price float64) float64 {
	return math.Round(price*(1-s.SubscriptionDiscount)*100) / 100
}

// SavingsLabel is the subscription discount as a whole percentage, e.g. "15%".
func (s ShopData) SavingsLabel() string {
	return fmt.Sprintf("%d%%", int(math.Round(s.SubscriptionDiscount*100)))
}

// Quote prices a pack.
//
// An empty packID selects the default pack, an empty purchaseType means one-time and a
// zero frequency selects the default frequency for subscriptions.
//
// Parameters:
//   - packID: the pack id
//   - purchaseType: PurchaseOneTime or PurchaseSubscribe
//   - frequency: delivery interval in days, subscriptions only
//
// Returns:
//   - Quote: the priced selection
//   - error: ErrUnknownPack, ErrUnknownPurchaseType or ErrUnknownFrequency
func (s ShopData) Quote(packID, purchaseType string, frequency int) (Quote, error) {
	if packID == "" {
		packID = s.DefaultPack
	}
	p, ok := s.pack(packID)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownPack, packID)
	}
	q := Quote{
		Pack:              p,
		Price:             p.Price,
		SubscriptionPrice: s.SubscriptionPrice(p.Price),
		SavingsLabel:      s.SavingsLabel(),
	}

	switch purchaseType {
	case "", PurchaseOneTime:
		q.PurchaseType = PurchaseOneTime
	case PurchaseSubscribe:
		if frequency == 0 {
			frequency = s.DefaultFrequency
		}
		f, ok := s.frequency(frequency)
		if !ok {
			return Quote{}, fmt.Errorf("%w: %d days", ErrUnknownFrequency, frequency)
		}
		q.PurchaseType = PurchaseSubscribe
		q.Frequency = f
		q.Price = q.SubscriptionPrice
	default:
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownPurchaseType, purchaseType)
	}
	return q, nil
}
