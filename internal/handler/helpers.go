package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/ecole-stages/stage-api/pkg/errors"
)

// parseIDParam reads a numeric path parameter, rejecting anything that is
// not a positive integer.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" parameter")
	}
	return id, nil
}
