package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecole-stages/stage-api/internal/models"
	"github.com/ecole-stages/stage-api/internal/service"
	appErrors "github.com/ecole-stages/stage-api/pkg/errors"
)

type fakeUserSrv struct {
	listResp   []models.User
	listErr    error
	getResp    *models.User
	getErr     error
	createResp *models.User
	createErr  error
	deleteErr  error
	lastEmail  string
	lastCreate service.CreateUserRequest
	lastDelete int64
}

func (f *fakeUserSrv) List(context.Context) ([]models.User, error) {
	return f.listResp, f.listErr
}

func (f *fakeUserSrv) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.lastEmail = email
	return f.getResp, f.getErr
}

func (f *fakeUserSrv) Create(_ context.Context, req service.CreateUserRequest) (*models.User, error) {
	f.lastCreate = req
	return f.createResp, f.createErr
}

func (f *fakeUserSrv) Delete(_ context.Context, id int64) error {
	f.lastDelete = id
	return f.deleteErr
}

func TestUserHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeUserSrv{listResp: []models.User{{ID: 1, Name: "Wafae El Kari", Email: "wafae.elkari@etudiant.ma", Role: models.RoleStudent, CreatedAt: time.Now()}}}
	handler := NewUserHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/users", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"wafae.elkari@etudiant.ma"`)
}

func TestUserHandlerGetByEmailNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(&fakeUserSrv{getErr: appErrors.Clone(appErrors.ErrNotFound, "user not found")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/email/ghost@ecole.ma", nil)
	c.Params = gin.Params{{Key: "email", Value: "ghost@ecole.ma"}}

	handler.GetByEmail(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")
}

func TestUserHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeUserSrv{createResp: &models.User{ID: 7, Name: "Amina Tazi", Email: "amina@etudiant.ma", Role: models.RoleStudent}}
	handler := NewUserHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	body := `{"name":"Amina Tazi","email":"amina@etudiant.ma","role":"student"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "amina@etudiant.ma", srv.lastCreate.Email)

	var envelope struct {
		Data models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, int64(7), envelope.Data.ID)
}

func TestUserHandlerCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(&fakeUserSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandlerDeleteInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(&fakeUserSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/users/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeUserSrv{}
	handler := NewUserHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/users/3", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), srv.lastDelete)
	assert.Contains(t, rec.Body.String(), "user deleted")
}
