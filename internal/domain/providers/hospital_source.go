package providers

import (
	"context"

	"github.com/wecare/hospitalbot/internal/domain/entities"
)

// HospitalSource yields the hospital directory with estimated costs
// attached. Implementations fail soft and return an empty slice on error.
type HospitalSource interface {
	FetchHospitals(ctx context.Context) []entities.Hospital
}
