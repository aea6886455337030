package entities

// Hospital represents a hospital returned by the We Care directory API
type Hospital struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type,omitempty"`
	Provinsi        string   `json:"provinsi"`
	Kota            string   `json:"kota"`
	Kecamatan       string   `json:"kecamatan"`
	Kodepos         string   `json:"kodepos,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Image           string   `json:"image,omitempty"`
	Services        []string `json:"services"`
	OpenTime        string   `json:"openTime,omitempty"`
	CloseTime       string   `json:"closeTime,omitempty"`
	OffDays         []string `json:"offDays,omitempty"`
	Holidays        []string `json:"holidays,omitempty"`
	PriceMultiplier *float64 `json:"priceMultiplier,omitempty"`

	// EstimatedCost is the summed cost estimate attached by the fetcher.
	// Nil means no estimate is known.
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
}

// Disease is only used as a join key for cost estimates
type Disease struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// UserLocation is the administrative location used for nearest ordering
type UserLocation struct {
	Provinsi  string `json:"provinsi"`
	Kota      string `json:"kota"`
	Kecamatan string `json:"kecamatan"`
}

// Matches reports province, city and district equality against a hospital.
func (l UserLocation) Matches(h Hospital) (province, city, district bool) {
	return h.Provinsi == l.Provinsi, h.Kota == l.Kota, h.Kecamatan == l.Kecamatan
}

// CloneHospitals returns a shallow copy of the slice.
func CloneHospitals(hospitals []Hospital) []Hospital {
	if hospitals == nil {
		return nil
	}
	out := make([]Hospital, len(hospitals))
	copy(out, hospitals)
	return out
}
