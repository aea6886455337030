package services_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/internal/domain/providers"
	"github.com/wecare/hospitalbot/internal/infrastructure/clients/wecareapi"
)

// MockWeCareClient is a testify mock of the We Care API client
type MockWeCareClient struct {
	mock.Mock
}

func (m *MockWeCareClient) ListHospitals(ctx context.Context, req wecareapi.ListRequest) (*wecareapi.HospitalPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wecareapi.HospitalPage), args.Error(1)
}

func (m *MockWeCareClient) ListDiseases(ctx context.Context, req wecareapi.ListRequest) (*wecareapi.DiseasePage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wecareapi.DiseasePage), args.Error(1)
}

func (m *MockWeCareClient) EstimateCost(ctx context.Context, req wecareapi.CostEstimateRequest) (*wecareapi.CostEstimate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wecareapi.CostEstimate), args.Error(1)
}

// MockCompletionProvider is a testify mock of the LLM provider
type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Complete(ctx context.Context, prompt string) (entities.Completion, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(entities.Completion), args.Error(1)
}

func (m *MockCompletionProvider) Model() string {
	return "test-model"
}

// MockHospitalSource counts fetches and returns a fixed directory
type MockHospitalSource struct {
	mu        sync.Mutex
	hospitals []entities.Hospital
	calls     int
}

func (m *MockHospitalSource) FetchHospitals(ctx context.Context) []entities.Hospital {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.hospitals
}

func (m *MockHospitalSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCacheProvider is an in-memory cache
type MockCacheProvider struct {
	mu     sync.RWMutex
	data   map[string][]byte
	ttls   map[string]int
	getErr error
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{
		data: make(map[string][]byte),
		ttls: make(map[string]int),
	}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = expirationSeconds
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
