package view

import (
	"fmt"
	"math"
)

// MaxPrice is the largest price a product may carry. It keeps cents within int64.
const MaxPrice = 1_000_000

// PriceFromCents converts stored cents to the decimal price used on the wire.
func PriceFromCents(cents int64) float64 {
	return float64(cents) / 100
}

// CentsFromPrice rounds a decimal price to whole cents.
func CentsFromPrice(price float64) int64 {
	return int64(math.Round(price * 100))
}

// FormatPrice renders a wire price for display, e.g. "19.99g".
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2fg", price)
}
