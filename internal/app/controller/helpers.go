package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eatwell/eatwell-backend/internal/app/service"
	apperrors "github.com/eatwell/eatwell-backend/internal/errors"
)

// respondValidation writes a 400 with per-field messages if err is a validation failure.
func respondValidation(c *gin.Context, err error) bool {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	apperrors.RespondWithValidationError(c, verr.Message, verr.Fields)
	return true
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// idValue accepts an identifier sent either as a JSON number or a numeric string.
type idValue uint

func (v *idValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid identifier %q", s)
	}
	*v = idValue(n)
	return nil
}
