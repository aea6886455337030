package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wecare/hospitalbot/internal/application/services"
	"github.com/wecare/hospitalbot/internal/domain/entities"
)

func ids(hospitals []entities.Hospital) []int {
	out := make([]int, len(hospitals))
	for i, h := range hospitals {
		out[i] = h.ID
	}
	return out
}

func TestFilterHospitals_CheapestAscendingWithMissingLast(t *testing.T) {
	hospitals := []entities.Hospital{
		{ID: 1, EstimatedCost: floatPtr(500)},
		{ID: 2},
		{ID: 3, EstimatedCost: floatPtr(100)},
	}

	got := services.FilterHospitals(hospitals, entities.CategoryCheapest, nil)

	assert.Equal(t, []int{3, 1, 2}, ids(got))
	assert.Equal(t, []int{1, 2, 3}, ids(hospitals), "input must not be reordered")
}

func TestFilterHospitals_CheapestIsStable(t *testing.T) {
	hospitals := []entities.Hospital{
		{ID: 1, EstimatedCost: floatPtr(200)},
		{ID: 2, EstimatedCost: floatPtr(100)},
		{ID: 3, EstimatedCost: floatPtr(200)},
		{ID: 4, EstimatedCost: floatPtr(100)},
	}

	got := services.FilterHospitals(hospitals, entities.CategoryCheapest, nil)

	assert.Equal(t, []int{2, 4, 1, 3}, ids(got))
}

func TestFilterHospitals_MostServicesDescending(t *testing.T) {
	hospitals := []entities.Hospital{
		{ID: 1, Services: []string{"a"}},
		{ID: 2, Services: []string{"a", "b", "c"}},
		{ID: 3},
		{ID: 4, Services: []string{"x", "y", "z"}},
	}

	got := services.FilterHospitals(hospitals, entities.CategoryMostServices, nil)

	assert.Equal(t, []int{2, 4, 1, 3}, ids(got))
}

func TestFilterHospitals_NearestRanksByLocationTuple(t *testing.T) {
	loc := &entities.UserLocation{Provinsi: "DKI Jakarta", Kota: "Jakarta Selatan", Kecamatan: "Kebayoran Baru"}
	hospitals := []entities.Hospital{
		{ID: 1, Provinsi: "Jawa Barat", Kota: "Bandung", Kecamatan: "Coblong"},
		{ID: 2, Provinsi: "DKI Jakarta", Kota: "Jakarta Pusat", Kecamatan: "Gambir"},
		{ID: 3, Provinsi: "DKI Jakarta", Kota: "Jakarta Selatan", Kecamatan: "Kebayoran Baru"},
		{ID: 4, Provinsi: "DKI Jakarta", Kota: "Jakarta Selatan", Kecamatan: "Tebet"},
		{ID: 5, Provinsi: "Banten", Kota: "Tangerang", Kecamatan: "Kebayoran Baru"},
	}

	got := services.FilterHospitals(hospitals, entities.CategoryNearest, loc)

	assert.Equal(t, []int{3, 4, 2, 5, 1}, ids(got))
}

func TestFilterHospitals_NearestWithoutLocationIsIdentity(t *testing.T) {
	hospitals := []entities.Hospital{{ID: 2}, {ID: 1}}

	got := services.FilterHospitals(hospitals, entities.CategoryNearest, nil)

	assert.Equal(t, []int{2, 1}, ids(got))
}

func TestFilterHospitals_UnknownCategoryIsIdentity(t *testing.T) {
	hospitals := []entities.Hospital{
		{ID: 1, EstimatedCost: floatPtr(900)},
		{ID: 2, EstimatedCost: floatPtr(100)},
	}

	got := services.FilterHospitals(hospitals, entities.Category("acak"), nil)

	assert.Equal(t, []int{1, 2}, ids(got))
}

func TestFilterHospitals_Empty(t *testing.T) {
	assert.Empty(t, services.FilterHospitals(nil, entities.CategoryCheapest, nil))
	assert.Empty(t, services.FilterHospitals([]entities.Hospital{}, entities.CategoryMostServices, nil))
}
