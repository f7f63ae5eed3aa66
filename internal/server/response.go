package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
	"github.com/revlinelabs/revline/pkg/db/pagination"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrMissingOrg   = errors.New("missing_org_id")
)

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func respondList(c *gin.Context, data any, pageInfo *pagination.PageInfo) {
	if pageInfo == nil {
		c.JSON(http.StatusOK, gin.H{"data": data})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "page_info": pageInfo})
}

// AbortWithError maps domain sentinels onto HTTP status codes. Unknown
// errors surface as 500 without leaking internals.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, matchingdomain.ErrLineItemNotFound):
		status = http.StatusNotFound
		code = err.Error()
	case errors.Is(err, matchingdomain.ErrInvalidLineID):
		status = http.StatusBadRequest
		code = err.Error()
	case errors.Is(err, ErrMissingOrg):
		status = http.StatusBadRequest
		code = err.Error()
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
		code = err.Error()
	}

	var verr *validationError
	if errors.As(err, &verr) {
		status = http.StatusBadRequest
		code = verr.Code
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": err.Error()}})
}

type validationError struct {
	Field   string
	Code    string
	Message string
}

func (e *validationError) Error() string { return e.Message }

func newValidationError(field, code, message string) error {
	return &validationError{Field: field, Code: code, Message: message}
}
