package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecole-stages/stage-api/internal/models"
	appErrors "github.com/ecole-stages/stage-api/pkg/errors"
)

type fakeStatisticsSrv struct {
	stats *models.DeclarationStats
	hit   bool
	err   error
}

func (f *fakeStatisticsSrv) Get(context.Context) (*models.DeclarationStats, bool, error) {
	return f.stats, f.hit, f.err
}

func TestStatisticsHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStatisticsHandler(&fakeStatisticsSrv{
		stats: &models.DeclarationStats{Total: 6, Pending: 3, Approved: 2, Rejected: 1},
		hit:   true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/statistics", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.DeclarationStats    `json:"data"`
		Meta map[string]interface{}     `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, int64(6), envelope.Data.Total)
	assert.Equal(t, envelope.Data.Total, envelope.Data.Pending+envelope.Data.Approved+envelope.Data.Rejected)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestStatisticsHandlerGetStorageError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStatisticsHandler(&fakeStatisticsSrv{err: appErrors.Clone(appErrors.ErrInternal, "failed to compute statistics")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/statistics", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to compute statistics")
}
