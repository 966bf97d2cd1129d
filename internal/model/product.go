package model

import "time"

// Product is the canonical record built from a Wildberries search item.
// Prices are in rubles with two decimal places; the source API reports kopecks.
type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DiscountedPrice float64   `json:"discounted_price"`
	Rating          float64   `json:"rating"`
	ReviewsCount    int       `json:"reviews_count"`
	CreatedAt       time.Time `json:"created_at"`
}
