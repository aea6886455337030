package services

import (
	"math"
	"sort"

	"github.com/wecare/hospitalbot/internal/domain/entities"
)

// FilterHospitals orders hospitals by the category's rule. The input slice
// is never modified: reordering categories return a sorted copy, and the
// identity cases (unknown category, nearest without a location) return the
// input as is.
func FilterHospitals(hospitals []entities.Hospital, category entities.Category, location *entities.UserLocation) []entities.Hospital {
	switch category {
	case entities.CategoryNearest:
		if location == nil {
			return hospitals
		}
		out := entities.CloneHospitals(hospitals)
		sort.SliceStable(out, func(i, j int) bool {
			return locationRank(out[i], *location) > locationRank(out[j], *location)
		})
		return out

	case entities.CategoryCheapest:
		out := entities.CloneHospitals(hospitals)
		sort.SliceStable(out, func(i, j int) bool {
			return costOf(out[i]) < costOf(out[j])
		})
		return out

	case entities.CategoryMostServices:
		out := entities.CloneHospitals(hospitals)
		sort.SliceStable(out, func(i, j int) bool {
			return len(out[i].Services) > len(out[j].Services)
		})
		return out
	}
	return hospitals
}

// locationRank packs (province, city, district) matches into an int that
// orders like the boolean tuple.
func locationRank(h entities.Hospital, location entities.UserLocation) int {
	province, city, district := location.Matches(h)
	rank := 0
	if province {
		rank += 4
	}
	if city {
		rank += 2
	}
	if district {
		rank++
	}
	return rank
}

func costOf(h entities.Hospital) float64 {
	if h.EstimatedCost == nil {
		return math.Inf(1)
	}
	return *h.EstimatedCost
}
