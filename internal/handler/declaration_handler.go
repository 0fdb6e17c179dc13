package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecole-stages/stage-api/internal/models"
	"github.com/ecole-stages/stage-api/internal/service"
	appErrors "github.com/ecole-stages/stage-api/pkg/errors"
	"github.com/ecole-stages/stage-api/pkg/response"
)

type declarationService interface {
	List(ctx context.Context) ([]models.DeclarationDetail, error)
	Get(ctx context.Context, id int64) (*models.DeclarationDetail, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.DeclarationDetail, error)
	Create(ctx context.Context, req service.CreateDeclarationRequest) (*models.DeclarationDetail, error)
	UpdateStatus(ctx context.Context, id int64, req service.UpdateStatusRequest) (*models.DeclarationDetail, error)
	Delete(ctx context.Context, id int64) error
}

type exportService interface {
	Declarations(ctx context.Context, format string) (*service.ExportResult, error)
}

// DeclarationHandler exposes internship declaration endpoints.
type DeclarationHandler struct {
	declarations declarationService
	exports      exportService
}

// NewDeclarationHandler constructs DeclarationHandler.
func NewDeclarationHandler(declarations declarationService, exports exportService) *DeclarationHandler {
	return &DeclarationHandler{declarations: declarations, exports: exports}
}

// List godoc
// @Summary List all declarations
// @Tags Declarations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /declarations [get]
func (h *DeclarationHandler) List(c *gin.Context) {
	declarations, err := h.declarations.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, declarations)
}

// Get godoc
// @Summary Get a declaration
// @Tags Declarations
// @Produce json
// @Param id path int true "Declaration ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /declarations/{id} [get]
func (h *DeclarationHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.declarations.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// ListByStudent godoc
// @Summary List one student's declarations
// @Tags Declarations
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /declarations/student/{id} [get]
func (h *DeclarationHandler) ListByStudent(c *gin.Context) {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	declarations, err := h.declarations.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, declarations)
}

// Create godoc
// @Summary Declare an internship
// @Tags Declarations
// @Accept json
// @Produce json
// @Param payload body service.CreateDeclarationRequest true "Declaration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /declarations [post]
func (h *DeclarationHandler) Create(c *gin.Context) {
	var req service.CreateDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	detail, err := h.declarations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// UpdateStatus godoc
// @Summary Review a declaration
// @Tags Declarations
// @Accept json
// @Produce json
// @Param id path int true "Declaration ID"
// @Param payload body service.UpdateStatusRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /declarations/{id}/status [put]
func (h *DeclarationHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	detail, err := h.declarations.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Delete godoc
// @Summary Delete a declaration
// @Tags Declarations
// @Produce json
// @Param id path int true "Declaration ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /declarations/{id} [delete]
func (h *DeclarationHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.declarations.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "declaration deleted")
}

// Export godoc
// @Summary Export all declarations as CSV or PDF
// @Tags Declarations
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /declarations/export [get]
func (h *DeclarationHandler) Export(c *gin.Context) {
	result, err := h.exports.Declarations(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
