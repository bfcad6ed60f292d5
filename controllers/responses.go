package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"agency-backoffice-api/services"
	"agency-backoffice-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const policyHasClaimsMessage = "Cannot delete policy with existing claims. You must remove all claims first."

func respondOK(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondError maps service errors to a status and a user-facing message.
// Unknown errors are logged and answered with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var ve *utils.ValidationError
	switch {
	case errors.As(err, &ve):
		respondFail(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, services.ErrNotFound):
		respondFail(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, services.ErrPolicyHasClaims):
		respondFail(c, http.StatusConflict, policyHasClaimsMessage)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrPolicyNumberTaken):
		respondFail(c, http.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, services.ErrCannotDeleteSelf),
		errors.Is(err, services.ErrInvalidResetToken),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrFileTypeForbidden):
		respondFail(c, http.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, services.ErrDependencyConflict),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		respondFail(c, http.StatusConflict, "Record is referenced by other records")
	default:
		log.Printf("%s: %v", fallback, err)
		respondFail(c, http.StatusInternalServerError, fallback)
	}
}

func isValidation(err error) bool {
	var ve *utils.ValidationError
	return errors.As(err, &ve)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondFail(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
