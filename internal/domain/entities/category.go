package entities

// Category is a hospital ranking strategy
type Category string

const (
	// CategoryNearest orders by province, city and district match
	CategoryNearest Category = "terdekat"

	// CategoryCheapest orders by ascending estimated cost
	CategoryCheapest Category = "biaya_termurah"

	// CategoryMostServices orders by descending service count
	CategoryMostServices Category = "pelayanan_terbanyak"
)

// IsKnown reports whether the category has its own ordering rule.
func (c Category) IsKnown() bool {
	switch c {
	case CategoryNearest, CategoryCheapest, CategoryMostServices:
		return true
	}
	return false
}
