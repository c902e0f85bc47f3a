package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *RepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *RepoMock) Create(ctx context.Context, c model.ProductCandidate) (model.Product, error) {
	args := m.Called(ctx, c)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *RepoMock) Update(ctx context.Context, id string, c model.ProductCandidate) (model.Product, error) {
	args := m.Called(ctx, id, c)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *RepoMock) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestInstrumentRepository_CountsOnlyStorageErrors(t *testing.T) {
	m := New()
	inner := new(RepoMock)
	r := m.InstrumentRepository(inner)

	inner.On("List", mock.Anything).Return([]model.Product{}, fmt.Errorf("%w: disk", repo.ErrStorage)).Once()
	inner.On("FindByID", mock.Anything, "x").Return(model.Product{}, repo.ErrNotFound).Once()
	inner.On("Delete", mock.Anything, "y").Return(true, nil).Once()

	_, err := r.List(context.Background())
	assert.ErrorIs(t, err, repo.ErrStorage)
	_, err = r.FindByID(context.Background(), "x")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	ok, err := r.Delete(context.Background(), "y")
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("list")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("find")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("delete")))
	inner.AssertExpectations(t)
}

func TestMiddleware_RecordsRoutePath(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/products/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues(http.MethodGet, "/api/products/:id", "404")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory_http_requests_total")
}
