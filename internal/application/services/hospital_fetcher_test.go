package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wecare/hospitalbot/internal/application/services"
	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/internal/infrastructure/clients/wecareapi"
	"github.com/wecare/hospitalbot/pkg/config"
)

func singlePage[T any](items []T) *wecareapi.Pagination {
	return &wecareapi.Pagination{Total: len(items), TotalPages: 1, CurrentPage: 1, Limit: 100}
}

func estimateOK(amount float64) *wecareapi.CostEstimate {
	return &wecareapi.CostEstimate{Success: true, Amount: amount, Currency: "IDR"}
}

func fetcherConfig(policy string, concurrency int) config.FetcherConfig {
	return config.FetcherConfig{
		PageSize:        100,
		MaxPages:        5,
		CostPolicy:      policy,
		CostConcurrency: concurrency,
	}
}

func TestHospitalFetcher_SumsEstimatesAcrossDiseases(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		client := new(MockWeCareClient)
		hospitals := []entities.Hospital{{ID: 1, Name: "RS A"}, {ID: 2, Name: "RS B"}}
		diseases := []entities.Disease{{ID: 10}, {ID: 20}}

		client.On("ListHospitals", mock.Anything, wecareapi.ListRequest{Page: 1, Limit: 100}).
			Return(&wecareapi.HospitalPage{Hospitals: hospitals, Pagination: singlePage(hospitals)}, nil)
		client.On("ListDiseases", mock.Anything, wecareapi.ListRequest{Page: 1, Limit: 100}).
			Return(&wecareapi.DiseasePage{Diseases: diseases, Pagination: singlePage(diseases)}, nil)
		client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 1, DiseaseID: 10}).Return(estimateOK(100), nil)
		client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 1, DiseaseID: 20}).Return(estimateOK(50), nil)
		client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 2, DiseaseID: 10}).Return(estimateOK(30), nil)
		client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 2, DiseaseID: 20}).Return(estimateOK(20), nil)

		fetcher := services.NewHospitalFetcher(client, fetcherConfig(config.CostPolicyAllDiseases, concurrency), nil)
		got := fetcher.FetchHospitals(context.Background())

		require.Len(t, got, 2)
		require.NotNil(t, got[0].EstimatedCost)
		require.NotNil(t, got[1].EstimatedCost)
		assert.Equal(t, 150.0, *got[0].EstimatedCost)
		assert.Equal(t, 50.0, *got[1].EstimatedCost)
		assert.Equal(t, "RS A", got[0].Name)
		client.AssertNumberOfCalls(t, "EstimateCost", 4)
	}
}

func TestHospitalFetcher_FailedEstimatesCountAsZero(t *testing.T) {
	client := new(MockWeCareClient)
	hospitals := []entities.Hospital{{ID: 1}}
	diseases := []entities.Disease{{ID: 10}, {ID: 20}, {ID: 30}}

	client.On("ListHospitals", mock.Anything, mock.Anything).
		Return(&wecareapi.HospitalPage{Hospitals: hospitals, Pagination: singlePage(hospitals)}, nil)
	client.On("ListDiseases", mock.Anything, mock.Anything).
		Return(&wecareapi.DiseasePage{Diseases: diseases, Pagination: singlePage(diseases)}, nil)
	client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 1, DiseaseID: 10}).Return(estimateOK(75), nil)
	client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 1, DiseaseID: 20}).
		Return(nil, &wecareapi.StatusError{StatusCode: 404, Endpoint: "/api/treatments/cost-estimate"})
	client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 1, DiseaseID: 30}).
		Return(&wecareapi.CostEstimate{Success: false, Amount: 999}, nil)

	fetcher := services.NewHospitalFetcher(client, fetcherConfig(config.CostPolicyAllDiseases, 2), nil)
	got := fetcher.FetchHospitals(context.Background())

	require.Len(t, got, 1)
	require.NotNil(t, got[0].EstimatedCost)
	assert.Equal(t, 75.0, *got[0].EstimatedCost)
}

func TestHospitalFetcher_AllEstimatesFailingYieldsZero(t *testing.T) {
	client := new(MockWeCareClient)
	hospitals := []entities.Hospital{{ID: 1}}
	diseases := []entities.Disease{{ID: 10}}

	client.On("ListHospitals", mock.Anything, mock.Anything).
		Return(&wecareapi.HospitalPage{Hospitals: hospitals, Pagination: singlePage(hospitals)}, nil)
	client.On("ListDiseases", mock.Anything, mock.Anything).
		Return(&wecareapi.DiseasePage{Diseases: diseases, Pagination: singlePage(diseases)}, nil)
	client.On("EstimateCost", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	got := services.NewHospitalFetcher(client, fetcherConfig(config.CostPolicyAllDiseases, 1), nil).
		FetchHospitals(context.Background())

	require.Len(t, got, 1)
	require.NotNil(t, got[0].EstimatedCost)
	assert.Equal(t, 0.0, *got[0].EstimatedCost)
}

func TestHospitalFetcher_HospitalListFailureReturnsEmpty(t *testing.T) {
	client := new(MockWeCareClient)
	client.On("ListHospitals", mock.Anything, mock.Anything).
		Return(nil, &wecareapi.StatusError{StatusCode: 500, Endpoint: "/api/hospitals"})

	got := services.NewHospitalFetcher(client, fetcherConfig(config.CostPolicyAllDiseases, 4), nil).
		FetchHospitals(context.Background())

	assert.NotNil(t, got)
	assert.Empty(t, got)
	client.AssertNotCalled(t, "ListDiseases", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "EstimateCost", mock.Anything, mock.Anything)
}

func TestHospitalFetcher_DiseaseListFailureReturnsEmpty(t *testing.T) {
	client := new(MockWeCareClient)
	hospitals := []entities.Hospital{{ID: 1}}
	client.On("ListHospitals", mock.Anything, mock.Anything).
		Return(&wecareapi.HospitalPage{Hospitals: hospitals, Pagination: singlePage(hospitals)}, nil)
	client.On("ListDiseases", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	got := services.NewHospitalFetcher(client, fetcherConfig(config.CostPolicyAllDiseases, 4), nil).
		FetchHospitals(context.Background())

	assert.Empty(t, got)
	client.AssertNotCalled(t, "EstimateCost", mock.Anything, mock.Anything)
}

func TestHospitalFetcher_FollowsPagination(t *testing.T) {
	client := new(MockWeCareClient)
	page1 := []entities.Hospital{{ID: 1}, {ID: 2}}
	page2 := []entities.Hospital{{ID: 3}}

	client.On("ListHospitals", mock.Anything, wecareapi.ListRequest{Page: 1, Limit: 2}).
		Return(&wecareapi.HospitalPage{Hospitals: page1, Pagination: &wecareapi.Pagination{Total: 3, TotalPages: 2, CurrentPage: 1, Limit: 2, HasNextPage: true}}, nil)
	client.On("ListHospitals", mock.Anything, wecareapi.ListRequest{Page: 2, Limit: 2}).
		Return(&wecareapi.HospitalPage{Hospitals: page2, Pagination: &wecareapi.Pagination{Total: 3, TotalPages: 2, CurrentPage: 2, Limit: 2, HasPrevPage: true}}, nil)

	cfg := fetcherConfig(config.CostPolicyNone, 1)
	cfg.PageSize = 2
	got := services.NewHospitalFetcher(client, cfg, nil).FetchHospitals(context.Background())

	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].ID, got[1].ID, got[2].ID})
	client.AssertNumberOfCalls(t, "ListHospitals", 2)
}

func TestHospitalFetcher_NonePolicySkipsEstimates(t *testing.T) {
	client := new(MockWeCareClient)
	hospitals := []entities.Hospital{{ID: 1}}
	client.On("ListHospitals", mock.Anything, mock.Anything).
		Return(&wecareapi.HospitalPage{Hospitals: hospitals, Pagination: singlePage(hospitals)}, nil)

	fetcher := services.NewHospitalFetcher(client, fetcherConfig(config.CostPolicyNone, 1), nil)
	got := fetcher.FetchHospitals(context.Background())

	require.Len(t, got, 1)
	assert.Nil(t, got[0].EstimatedCost)
	assert.Equal(t, config.CostPolicyNone, fetcher.Policy())
	client.AssertNotCalled(t, "ListDiseases", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "EstimateCost", mock.Anything, mock.Anything)
}

func TestHospitalFetcher_SingleDiseasePolicy(t *testing.T) {
	client := new(MockWeCareClient)
	hospitals := []entities.Hospital{{ID: 1}, {ID: 2}}
	client.On("ListHospitals", mock.Anything, mock.Anything).
		Return(&wecareapi.HospitalPage{Hospitals: hospitals, Pagination: singlePage(hospitals)}, nil)
	client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 1, DiseaseID: 7}).Return(estimateOK(120), nil)
	client.On("EstimateCost", mock.Anything, wecareapi.CostEstimateRequest{HospitalID: 2, DiseaseID: 7}).Return(estimateOK(80), nil)

	cfg := fetcherConfig(config.CostPolicySingleDisease, 2)
	cfg.CostDiseaseID = 7
	got := services.NewHospitalFetcher(client, cfg, nil).FetchHospitals(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, 120.0, *got[0].EstimatedCost)
	assert.Equal(t, 80.0, *got[1].EstimatedCost)
	client.AssertNotCalled(t, "ListDiseases", mock.Anything, mock.Anything)
}

func TestHospitalFetcher_DefaultsToAllDiseases(t *testing.T) {
	fetcher := services.NewHospitalFetcher(new(MockWeCareClient), config.FetcherConfig{}, nil)
	assert.Equal(t, config.CostPolicyAllDiseases, fetcher.Policy())
}
