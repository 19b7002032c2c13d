package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/internal/event"
	"github.com/espengetz/brandprotocol/internal/knowledge"
	"github.com/espengetz/brandprotocol/internal/storage"
	"github.com/espengetz/brandprotocol/internal/webpage"
)

// --- Mock Repositories ---

type mockBrandRepository struct {
	mock.Mock
}

func (m *mockBrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *mockBrandRepository) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}

func (m *mockBrandRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Brand, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	return args.Get(0).([]domain.Brand), args.Int(1), args.Error(2)
}

func (m *mockBrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *mockBrandRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSourceRepository struct {
	mock.Mock
}

func (m *mockSourceRepository) Create(ctx context.Context, source *domain.BrandSource) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

func (m *mockSourceRepository) GetByID(ctx context.Context, id string) (*domain.BrandSource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BrandSource), args.Error(1)
}

func (m *mockSourceRepository) ListByBrand(ctx context.Context, brandID string) ([]*domain.BrandSource, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BrandSource), args.Error(1)
}

func (m *mockSourceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockAssetRepository struct {
	mock.Mock
}

func (m *mockAssetRepository) Create(ctx context.Context, asset *domain.BrandAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *mockAssetRepository) GetByID(ctx context.Context, id string) (*domain.BrandAsset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BrandAsset), args.Error(1)
}

func (m *mockAssetRepository) ListByBrand(ctx context.Context, brandID string) ([]domain.BrandAsset, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BrandAsset), args.Error(1)
}

func (m *mockAssetRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Storage ---

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockStorage) GetURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// --- Fakes ---

// fakeGenerator returns canned model responses.
type fakeGenerator struct {
	response    string
	docResponse string
	webContent  string
	err         error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func (f *fakeGenerator) GenerateWithDocument(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	if f.docResponse != "" {
		return f.docResponse, f.err
	}
	return f.response, f.err
}

func (f *fakeGenerator) GenerateWithWebSearch(_ context.Context, _ string) (string, error) {
	return f.webContent, f.err
}

// fakeFetcher serves a fixed page or error.
type fakeFetcher struct {
	page *webpage.Page
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*webpage.Page, error) {
	return f.page, f.err
}

// fakeDownloader serves canned bodies per URL.
type fakeDownloader struct {
	responses map[string]string
	status    int
	err       error
}

func (f *fakeDownloader) Get(_ context.Context, url string) (*http.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.responses[url]
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}, nil
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestCache(t *testing.T) *knowledge.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return knowledge.NewCache(client, 0, newTestLogger())
}

func noopPublisher() event.Publisher {
	return event.NoopPublisher{}
}

func strPtr(s string) *string {
	return &s
}
