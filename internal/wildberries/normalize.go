package wildberries

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/teenxsky/wb-analytics/internal/model"
)

// ErrUnparseable marks an item whose structure could not be decoded at all.
var ErrUnparseable = errors.New("unparseable product item")

const (
	nameFallback = "Unknown"
	nameMaxLen   = 512
)

type rawProduct struct {
	Name         string          `json:"name"`
	Title        string          `json:"title"`
	Sizes        json.RawMessage `json:"sizes"`
	ReviewRating float64         `json:"reviewRating"`
	Feedbacks    int             `json:"feedbacks"`
}

type rawSize struct {
	Price struct {
		Basic int64 `json:"basic"`
		Total int64 `json:"total"`
	} `json:"price"`
}

// Normalize converts one raw search item into a canonical Product.
// The transform is all-or-nothing: a structurally broken item comes back
// as ErrUnparseable, never as a half-filled record. A missing or malformed
// sizes block is not a rejection, it only zeroes both prices.
func Normalize(item RawItem) (model.Product, error) {
	var raw rawProduct
	if err := json.Unmarshal(item, &raw); err != nil {
		return model.Product{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	name := raw.Name
	if name == "" {
		name = raw.Title
	}
	if name == "" {
		name = nameFallback
	}
	if runes := []rune(name); len(runes) > nameMaxLen {
		name = string(runes[:nameMaxLen])
	}

	// sizes that is absent, empty or not a list degrades to zero prices;
	// a size entry that is a list but does not decode rejects the item.
	var price, discounted float64
	var sizeList []json.RawMessage
	if len(raw.Sizes) > 0 && json.Unmarshal(raw.Sizes, &sizeList) == nil && len(sizeList) > 0 {
		var first rawSize
		if err := json.Unmarshal(sizeList[0], &first); err != nil {
			return model.Product{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
		// kopecks to rubles
		price = float64(first.Price.Basic) / 100
		discounted = float64(first.Price.Total) / 100
	}

	return model.Product{
		Name:            name,
		Price:           price,
		DiscountedPrice: discounted,
		Rating:          raw.ReviewRating,
		ReviewsCount:    raw.Feedbacks,
	}, nil
}
