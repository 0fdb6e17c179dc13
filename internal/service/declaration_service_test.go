package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecole-stages/stage-api/internal/models"
	appErrors "github.com/ecole-stages/stage-api/pkg/errors"
)

type mockDeclarationRepo struct {
	declarations map[int64]*models.DeclarationDetail
	nextID       int64
	updateCalls  int
}

func newMockDeclarationRepo() *mockDeclarationRepo {
	return &mockDeclarationRepo{declarations: make(map[int64]*models.DeclarationDetail)}
}

func (m *mockDeclarationRepo) List(ctx context.Context) ([]models.DeclarationDetail, error) {
	var result []models.DeclarationDetail
	for _, d := range m.declarations {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDeclarationRepo) FindByID(ctx context.Context, id int64) (*models.DeclarationDetail, error) {
	if d, ok := m.declarations[id]; ok {
		copy := *d
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDeclarationRepo) ListByStudent(ctx context.Context, studentID int64) ([]models.DeclarationDetail, error) {
	var result []models.DeclarationDetail
	for _, d := range m.declarations {
		if d.StudentID == studentID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDeclarationRepo) Create(ctx context.Context, decl *models.Declaration) error {
	m.nextID++
	decl.ID = m.nextID
	decl.CreatedAt = time.Now().UTC().Add(-time.Second)
	decl.UpdatedAt = decl.CreatedAt
	m.declarations[decl.ID] = &models.DeclarationDetail{
		Declaration:  *decl,
		StudentName:  "Amina Tazi",
		StudentEmail: "amina@etudiant.ma",
	}
	return nil
}

func (m *mockDeclarationRepo) UpdateStatus(ctx context.Context, id int64, status models.DeclarationStatus, comment *string) error {
	m.updateCalls++
	d, ok := m.declarations[id]
	if !ok {
		return sql.ErrNoRows
	}
	d.Status = status
	d.Comment = comment
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockDeclarationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.declarations[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.declarations, id)
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) {
	c.calls++
}

func validCreateRequest() CreateDeclarationRequest {
	return CreateDeclarationRequest{
		StudentID: 2,
		Company:   "Atlas Tech",
		Subject:   "Backend internship",
		StartDate: "2024-06-01",
		EndDate:   "2024-08-31",
	}
}

func TestDeclarationServiceCreateStartsPending(t *testing.T) {
	repo := newMockDeclarationRepo()
	svc := NewDeclarationService(repo, nil, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Nil(t, created.Comment)
	assert.Equal(t, "Amina Tazi", created.StudentName)
	assert.Equal(t, "2024-06-01", created.StartDate.String())
}

func TestDeclarationServiceCreateMissingField(t *testing.T) {
	svc := NewDeclarationService(newMockDeclarationRepo(), nil, validator.New(), zap.NewNop())

	req := validCreateRequest()
	req.Company = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeclarationServiceCreateBadDate(t *testing.T) {
	svc := NewDeclarationService(newMockDeclarationRepo(), nil, validator.New(), zap.NewNop())

	req := validCreateRequest()
	req.StartDate = "01/06/2024"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeclarationServiceCreateAcceptsReversedDates(t *testing.T) {
	svc := NewDeclarationService(newMockDeclarationRepo(), nil, validator.New(), zap.NewNop())

	req := validCreateRequest()
	req.StartDate = "2024-08-31"
	req.EndDate = "2024-06-01"
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
}

func TestDeclarationServiceUpdateStatus(t *testing.T) {
	repo := newMockDeclarationRepo()
	invalidator := &countingInvalidator{}
	svc := NewDeclarationService(repo, invalidator, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	before := created.UpdatedAt

	comment := "Great fit"
	updated, err := svc.UpdateStatus(context.Background(), created.ID, UpdateStatusRequest{Status: "approved", Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "Great fit", *updated.Comment)
	assert.True(t, updated.UpdatedAt.After(before))
	assert.Equal(t, 2, invalidator.calls)
}

func TestDeclarationServiceUpdateStatusInvalid(t *testing.T) {
	repo := newMockDeclarationRepo()
	svc := NewDeclarationService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 1, UpdateStatusRequest{Status: "archived"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.updateCalls)
}

func TestDeclarationServiceUpdateStatusNotFound(t *testing.T) {
	svc := NewDeclarationService(newMockDeclarationRepo(), nil, validator.New(), zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 404, UpdateStatusRequest{Status: "rejected"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeclarationServiceUpdateStatusOverwritesReviewed(t *testing.T) {
	repo := newMockDeclarationRepo()
	svc := NewDeclarationService(repo, nil, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, UpdateStatusRequest{Status: "approved"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, UpdateStatusRequest{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)
	assert.Nil(t, updated.Comment)
}

func TestDeclarationServiceDelete(t *testing.T) {
	repo := newMockDeclarationRepo()
	invalidator := &countingInvalidator{}
	svc := NewDeclarationService(repo, invalidator, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.declarations)
	assert.Equal(t, 2, invalidator.calls)

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeclarationServiceListByStudentEmpty(t *testing.T) {
	svc := NewDeclarationService(newMockDeclarationRepo(), nil, validator.New(), zap.NewNop())

	declarations, err := svc.ListByStudent(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, declarations)
	assert.Empty(t, declarations)
}
