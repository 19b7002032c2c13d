package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/espengetz/brandprotocol/internal/assets"
	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/internal/event"
	"github.com/espengetz/brandprotocol/internal/extract"
	"github.com/espengetz/brandprotocol/internal/knowledge"
	"github.com/espengetz/brandprotocol/internal/repository"
	"github.com/espengetz/brandprotocol/internal/service"
	"github.com/espengetz/brandprotocol/internal/storage"
	"github.com/espengetz/brandprotocol/internal/storage/memory"
	"github.com/espengetz/brandprotocol/internal/webpage"
	apperrors "github.com/espengetz/brandprotocol/pkg/errors"
	"github.com/espengetz/brandprotocol/pkg/health"
)

const (
	brandID  = "4f1c8f0a-8f0e-4f6a-9f5a-1c2d3e4f5a6b"
	sourceID = "7a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d"
	assetID  = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
)

// Compile-time interface checks.
var _ repository.BrandRepository = (*mockBrandRepository)(nil)
var _ repository.SourceRepository = (*mockSourceRepository)(nil)
var _ repository.AssetRepository = (*mockAssetRepository)(nil)

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

// --- Fakes for the ingestion path ---

type fakeGenerator struct {
	response   string
	webContent string
	err        error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func (f *fakeGenerator) GenerateWithDocument(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	return f.response, f.err
}

func (f *fakeGenerator) GenerateWithWebSearch(_ context.Context, _ string) (string, error) {
	return f.webContent, f.err
}

type fakeFetcher struct {
	page *webpage.Page
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*webpage.Page, error) {
	return f.page, f.err
}

type fakeDownloader struct{}

func (fakeDownloader) Get(_ context.Context, _ string) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte("\x89PNG data"))),
		Header:     http.Header{},
	}, nil
}

// --- Test Setup ---

type testEnv struct {
	brands  *mockBrandRepository
	sources *mockSourceRepository
	assets  *mockAssetRepository
	store   storage.Storage
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	cache := knowledge.NewCache(redisClient, 0, logger)

	brands := new(mockBrandRepository)
	sources := new(mockSourceRepository)
	assetRepo := new(mockAssetRepository)
	store := memory.New("https://cdn.test")
	publisher := event.NoopPublisher{}

	extractor := extract.NewExtractor(&fakeGenerator{response: `{"brand_name":"Acme"}`}, logger)
	pipeline := service.NewAssetPipeline(assetRepo, store, fakeDownloader{}, publisher, logger)

	fetcher := &fakeFetcher{page: &webpage.Page{
		URL:  "https://acme.example",
		Body: []byte("<html><head><title>Acme</title></head><body><p>Brand</p></body></html>"),
	}}

	services := &Services{
		Brands:    service.NewBrandService(brands, sources, assetRepo, store, cache, publisher, logger),
		Sources:   service.NewSourceService(brands, sources, assetRepo, store, fetcher, webpage.NewConverter(), extractor, assets.NewDiscoverer(), pipeline, cache, publisher, logger),
		Knowledge: service.NewKnowledgeService(brands, sources, cache, logger),
		Assets:    service.NewAssetService(assetRepo, logger),
	}

	return &testEnv{
		brands:  brands,
		sources: sources,
		assets:  assetRepo,
		store:   store,
		handler: NewRouter(services, health.NewHandler(), logger),
	}
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestCreateBrand(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("Create", mock.Anything, mock.AnythingOfType("*domain.Brand")).Return(nil)

	body := []byte(`{"user_id":"user-1","name":"Acme","description":"Anvils"}`)
	rec := doRequest(t, env.handler, http.MethodPost, "/api/v1/brands", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data domain.Brand `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.Data.Name)
	assert.NotEmpty(t, resp.Data.ID)
}

func TestCreateBrand_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.handler, http.MethodPost, "/api/v1/brands", []byte(`{"name":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestCreateBrand_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.handler, http.MethodPost, "/api/v1/brands", []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBrand_InvalidUUID(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/brands/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PARAMETER")
}

func TestGetBrand_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("GetByID", mock.Anything, brandID).Return(nil, apperrors.NotFound("brand", brandID))

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/brands/"+brandID, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestListBrands(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("ListByUser", mock.Anything, "user-1", 0, 20).Return([]domain.Brand{
		{ID: brandID, UserID: "user-1", Name: "Acme"},
	}, 1, nil)

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/brands?user_id=user-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":1`)
}

func TestListBrands_MissingUserID(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/brands", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBrands_BadPage(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/brands?user_id=user-1&page=zero", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PARAMETER")
}

func TestUpdateBrand(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("GetByID", mock.Anything, brandID).
		Return(&domain.Brand{ID: brandID, UserID: "user-1", Name: "Acme"}, nil)
	env.brands.On("Update", mock.Anything, mock.AnythingOfType("*domain.Brand")).Return(nil)

	rec := doRequest(t, env.handler, http.MethodPut, "/api/v1/brands/"+brandID, []byte(`{"name":"Acme Corp"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Corp")
}

func TestDeleteBrand(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("GetByID", mock.Anything, brandID).Return(&domain.Brand{ID: brandID}, nil)
	env.assets.On("ListByBrand", mock.Anything, brandID).Return([]domain.BrandAsset{}, nil)
	env.brands.On("Delete", mock.Anything, brandID).Return(nil)

	rec := doRequest(t, env.handler, http.MethodDelete, "/api/v1/brands/"+brandID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted")
}

func TestIngestURL(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("GetByID", mock.Anything, brandID).Return(&domain.Brand{ID: brandID, Name: "Acme"}, nil)
	env.sources.On("Create", mock.Anything, mock.AnythingOfType("*domain.BrandSource")).Return(nil)

	body := []byte(`{"url":"https://acme.example/brand"}`)
	rec := doRequest(t, env.handler, http.MethodPost, "/api/v1/brands/"+brandID+"/sources/url", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data service.IngestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.Data.Source.Content.BrandName)
}

func TestIngestURL_MissingURL(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.handler, http.MethodPost, "/api/v1/brands/"+brandID+"/sources/url", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestDocument(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("GetByID", mock.Anything, brandID).Return(&domain.Brand{ID: brandID}, nil)
	env.sources.On("Create", mock.Anything, mock.AnythingOfType("*domain.BrandSource")).Return(nil)
	env.assets.On("Create", mock.Anything, mock.AnythingOfType("*domain.BrandAsset")).Return(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "guidelines.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Acme brand colors: red"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands/"+brandID+"/sources/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestIngestDocument_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands/"+brandID+"/sources/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSources(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("GetByID", mock.Anything, brandID).Return(&domain.Brand{ID: brandID}, nil)
	env.sources.On("ListByBrand", mock.Anything, brandID).Return([]*domain.BrandSource{
		{ID: sourceID, BrandID: brandID, Type: domain.SourceTypeURL, Name: "Acme"},
	}, nil)

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/brands/"+brandID+"/sources", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), sourceID)
}

func TestDeleteSource(t *testing.T) {
	env := newTestEnv(t)
	env.sources.On("GetByID", mock.Anything, sourceID).
		Return(&domain.BrandSource{ID: sourceID, BrandID: brandID}, nil)
	env.assets.On("ListByBrand", mock.Anything, brandID).Return([]domain.BrandAsset{}, nil)
	env.sources.On("Delete", mock.Anything, sourceID).Return(nil)

	rec := doRequest(t, env.handler, http.MethodDelete, "/api/v1/brands/"+brandID+"/sources/"+sourceID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetKnowledge(t *testing.T) {
	env := newTestEnv(t)
	env.brands.On("GetByID", mock.Anything, brandID).
		Return(&domain.Brand{ID: brandID, Name: "Acme", Description: "Anvils"}, nil)
	env.sources.On("ListByBrand", mock.Anything, brandID).Return([]*domain.BrandSource{}, nil)

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/brands/"+brandID+"/knowledge", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"brand_name":"Acme"`)
}

func TestListBrandAssets(t *testing.T) {
	env := newTestEnv(t)
	env.assets.On("ListByBrand", mock.Anything, brandID).Return([]domain.BrandAsset{
		{ID: assetID, BrandID: brandID, Type: domain.AssetTypeLogo, Name: "logo"},
	}, nil)

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/brands/"+brandID+"/assets", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"logo"`)
}

func TestGetAsset(t *testing.T) {
	env := newTestEnv(t)
	env.assets.On("GetByID", mock.Anything, assetID).Return(&domain.BrandAsset{
		ID: assetID, BrandID: brandID, Type: domain.AssetTypeLogo,
	}, nil)

	rec := doRequest(t, env.handler, http.MethodGet, "/api/v1/assets/"+assetID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), assetID)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.handler, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, env.handler, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
