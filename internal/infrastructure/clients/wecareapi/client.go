package wecareapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/internal/infrastructure/observability"
)

const (
	hospitalsPath    = "/api/hospitals"
	diseasesPath     = "/api/diseases"
	costEstimatePath = "/api/treatments/cost-estimate"
)

// Client is the read side of the We Care REST API plus the cost estimator.
type Client interface {
	ListHospitals(ctx context.Context, req ListRequest) (*HospitalPage, error)
	ListDiseases(ctx context.Context, req ListRequest) (*DiseasePage, error)
	EstimateCost(ctx context.Context, req CostEstimateRequest) (*CostEstimate, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

type ListRequest struct {
	Page  int
	Limit int
}

type Pagination struct {
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type HospitalPage struct {
	Hospitals  []entities.Hospital
	Pagination *Pagination
}

type DiseasePage struct {
	Diseases   []entities.Disease
	Pagination *Pagination
}

type CostEstimateRequest struct {
	DiseaseID  int `json:"diseaseId"`
	HospitalID int `json:"hospitalId"`
}

// CostEstimate is a decoded cost estimate. Amount is only meaningful when
// Success is true.
type CostEstimate struct {
	Success  bool
	Amount   float64
	Currency string
}

type listEnvelope[T any] struct {
	Data struct {
		Data       []T         `json:"data"`
		Pagination *Pagination `json:"pagination"`
	} `json:"data"`
}

type costEstimateEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		CostEstimate json.RawMessage `json:"costEstimate"`
	} `json:"data"`
}

// costBreakdown is the object form returned by the live API.
type costBreakdown struct {
	BaseCost  *float64 `json:"baseCost"`
	TotalCost *float64 `json:"totalCost"`
	Currency  string   `json:"currency"`
}

// StatusError is returned for non-success HTTP statuses.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("we care api returned status %d for %s", e.StatusCode, e.Endpoint)
}

func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
	}
}

func (c *HTTPClient) ListHospitals(ctx context.Context, req ListRequest) (*HospitalPage, error) {
	out := &listEnvelope[entities.Hospital]{}
	if err := c.list(ctx, hospitalsPath, req, out); err != nil {
		return nil, err
	}
	return &HospitalPage{Hospitals: out.Data.Data, Pagination: out.Data.Pagination}, nil
}

func (c *HTTPClient) ListDiseases(ctx context.Context, req ListRequest) (*DiseasePage, error) {
	out := &listEnvelope[entities.Disease]{}
	if err := c.list(ctx, diseasesPath, req, out); err != nil {
		return nil, err
	}
	return &DiseasePage{Diseases: out.Data.Data, Pagination: out.Data.Pagination}, nil
}

func (c *HTTPClient) EstimateCost(ctx context.Context, req CostEstimateRequest) (*CostEstimate, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	out := &costEstimateEnvelope{}
	status, err := c.doJSON(ctx, http.MethodPost, c.baseURL+costEstimatePath, bytes.NewReader(body), out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || !out.Success {
		return &CostEstimate{Success: false}, nil
	}

	amount, currency, err := parseCostEstimate(out.Data.CostEstimate)
	if err != nil {
		return nil, err
	}
	return &CostEstimate{Success: true, Amount: amount, Currency: currency}, nil
}

// parseCostEstimate accepts either a bare number or the
// {baseCost,totalCost,currency} object.
func parseCostEstimate(raw json.RawMessage) (float64, string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, "", errors.New("cost estimate missing from response")
	}

	var amount float64
	if err := json.Unmarshal(trimmed, &amount); err == nil {
		return amount, "", nil
	}

	var breakdown costBreakdown
	if err := json.Unmarshal(trimmed, &breakdown); err != nil {
		return 0, "", fmt.Errorf("decode cost estimate: %w", err)
	}
	switch {
	case breakdown.TotalCost != nil:
		return *breakdown.TotalCost, breakdown.Currency, nil
	case breakdown.BaseCost != nil:
		return *breakdown.BaseCost, breakdown.Currency, nil
	}
	return 0, "", errors.New("cost estimate has no totalCost")
}

func (c *HTTPClient) list(ctx context.Context, path string, req ListRequest, out interface{}) error {
	parsed, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}

	query := parsed.Query()
	if req.Page > 0 {
		query.Set("page", strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		query.Set("limit", strconv.Itoa(req.Limit))
	}
	parsed.RawQuery = query.Encode()

	status, err := c.doJSON(ctx, http.MethodGet, parsed.String(), nil, out)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &StatusError{StatusCode: status, Endpoint: path}
	}
	return nil
}

// doJSON issues the request and decodes 2xx bodies into out. Non-2xx
// statuses are reported through the returned status with a nil error for
// callers that inspect them, and the body is drained.
func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) (int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	route := routeOf(endpoint)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordAPIMetric(ctx, c.metrics, method, route, 0, time.Since(start))
		return 0, err
	}
	defer resp.Body.Close()
	observability.RecordAPIMetric(ctx, c.metrics, method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", route, err)
	}

	return resp.StatusCode, nil
}

func routeOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil {
		return parsed.Path
	}
	return endpoint
}
