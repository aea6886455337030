package services

import (
	"context"

	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/internal/domain/providers"
	"github.com/wecare/hospitalbot/internal/infrastructure/clients/wecareapi"
	"github.com/wecare/hospitalbot/internal/infrastructure/observability"
	"github.com/wecare/hospitalbot/pkg/config"
	apperrors "github.com/wecare/hospitalbot/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// HospitalFetcher loads the hospital directory from the We Care API and
// attaches a summed cost estimate to every hospital.
type HospitalFetcher struct {
	client      wecareapi.Client
	policy      string
	diseaseID   int
	pageSize    int
	maxPages    int
	concurrency int
	limiter     *rate.Limiter
	metrics     *observability.Metrics
}

var _ providers.HospitalSource = (*HospitalFetcher)(nil)

func NewHospitalFetcher(client wecareapi.Client, cfg config.FetcherConfig, metrics *observability.Metrics) *HospitalFetcher {
	f := &HospitalFetcher{
		client:      client,
		policy:      cfg.CostPolicy,
		diseaseID:   cfg.CostDiseaseID,
		pageSize:    cfg.PageSize,
		maxPages:    cfg.MaxPages,
		concurrency: cfg.CostConcurrency,
		metrics:     metrics,
	}
	if f.policy == "" {
		f.policy = config.CostPolicyAllDiseases
	}
	if f.pageSize <= 0 {
		f.pageSize = 100
	}
	if f.maxPages <= 0 {
		f.maxPages = 50
	}
	if f.concurrency <= 0 {
		f.concurrency = 1
	}
	if cfg.CostRPS > 0 {
		burst := int(cfg.CostRPS)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.CostRPS), burst)
	}
	return f
}

// Policy returns the cost estimate policy in effect.
func (f *HospitalFetcher) Policy() string {
	return f.policy
}

// FetchHospitals never fails: listing errors are logged and yield an empty
// slice, and failed cost estimates contribute nothing to the total.
func (f *HospitalFetcher) FetchHospitals(ctx context.Context) []entities.Hospital {
	ctx, span := observability.StartSpan(ctx, "HospitalFetcher.FetchHospitals")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	hospitals, err := collectPages(ctx, f.maxPages, func(page int) ([]entities.Hospital, *wecareapi.Pagination, error) {
		resp, err := f.client.ListHospitals(ctx, wecareapi.ListRequest{Page: page, Limit: f.pageSize})
		if err != nil {
			return nil, nil, err
		}
		return resp.Hospitals, resp.Pagination, nil
	})
	if err != nil {
		err = apperrors.NewFetchError("list hospitals", err)
		observability.RecordError(span, err)
		logger.Error().Err(err).Msg("Gagal ambil data rumah sakit dari API")
		return []entities.Hospital{}
	}
	if len(hospitals) == 0 {
		return []entities.Hospital{}
	}

	var diseases []entities.Disease
	switch f.policy {
	case config.CostPolicyNone:
		return hospitals
	case config.CostPolicySingleDisease:
		diseases = []entities.Disease{{ID: f.diseaseID}}
	default:
		diseases, err = collectPages(ctx, f.maxPages, func(page int) ([]entities.Disease, *wecareapi.Pagination, error) {
			resp, err := f.client.ListDiseases(ctx, wecareapi.ListRequest{Page: page, Limit: f.pageSize})
			if err != nil {
				return nil, nil, err
			}
			return resp.Diseases, resp.Pagination, nil
		})
		if err != nil {
			err = apperrors.NewFetchError("list diseases", err)
			observability.RecordError(span, err)
			logger.Error().Err(err).Msg("Gagal ambil data penyakit dari API")
			return []entities.Hospital{}
		}
	}

	f.attachCosts(ctx, hospitals, diseases)

	span.SetAttributes(
		attribute.Int("hospitals.count", len(hospitals)),
		attribute.Int("diseases.count", len(diseases)),
	)
	logger.Info().
		Int("hospitals", len(hospitals)).
		Int("diseases", len(diseases)).
		Int("cost_calls", len(hospitals)*len(diseases)).
		Str("policy", f.policy).
		Msg("hospital directory fetched")

	return hospitals
}

// attachCosts runs one estimate per hospital/disease pair with bounded
// parallelism. Every cell of amounts is written by exactly one goroutine and
// totals are summed in disease order afterwards.
func (f *HospitalFetcher) attachCosts(ctx context.Context, hospitals []entities.Hospital, diseases []entities.Disease) {
	amounts := make([][]float64, len(hospitals))
	for i := range amounts {
		amounts[i] = make([]float64, len(diseases))
	}

	var g errgroup.Group
	g.SetLimit(f.concurrency)

schedule:
	for i := range hospitals {
		for j := range diseases {
			if ctx.Err() != nil {
				break schedule
			}
			i, j := i, j
			hospitalID, diseaseID := hospitals[i].ID, diseases[j].ID
			g.Go(func() error {
				amounts[i][j] = f.estimate(ctx, hospitalID, diseaseID)
				return nil
			})
		}
	}
	_ = g.Wait()

	for i := range hospitals {
		var total float64
		for _, amount := range amounts[i] {
			total += amount
		}
		hospitals[i].EstimatedCost = &total
	}
}

// estimate returns 0 for any failed or unsuccessful estimate.
func (f *HospitalFetcher) estimate(ctx context.Context, hospitalID, diseaseID int) float64 {
	logger := observability.LoggerFromContext(ctx)

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return 0
		}
	}

	est, err := f.client.EstimateCost(ctx, wecareapi.CostEstimateRequest{DiseaseID: diseaseID, HospitalID: hospitalID})
	if err != nil {
		observability.RecordCostEstimate(ctx, f.metrics, false)
		logger.Debug().
			Err(apperrors.NewCostEstimateError("estimate cost", err)).
			Int("hospital_id", hospitalID).
			Int("disease_id", diseaseID).
			Msg("cost estimate omitted")
		return 0
	}
	if !est.Success {
		observability.RecordCostEstimate(ctx, f.metrics, false)
		logger.Debug().
			Int("hospital_id", hospitalID).
			Int("disease_id", diseaseID).
			Msg("cost estimate unsuccessful, omitted")
		return 0
	}

	observability.RecordCostEstimate(ctx, f.metrics, true)
	return est.Amount
}

// collectPages follows pagination until the API reports no next page, an
// empty page is returned, or maxPages is reached.
func collectPages[T any](ctx context.Context, maxPages int, fetch func(page int) ([]T, *wecareapi.Pagination, error)) ([]T, error) {
	var all []T
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, pagination, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if pagination == nil || !pagination.HasNextPage || len(items) == 0 {
			break
		}
	}
	return all, nil
}
