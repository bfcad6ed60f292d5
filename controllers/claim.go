package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"agency-backoffice-api/services"
	"agency-backoffice-api/utils"

	"github.com/gin-gonic/gin"
)

const evidenceField = "evidence_documents"

func parseFormDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// bindClaimForm reads the multipart claim form.
func bindClaimForm(c *gin.Context) (*services.ClaimInput, error) {
	policyID, err := strconv.ParseUint(c.PostForm("policy_id"), 10, 64)
	if err != nil {
		return nil, utils.NewValidationError("policy_id", "is required")
	}
	incident, err := parseFormDate(c.PostForm("incident_date"))
	if err != nil {
		return nil, utils.NewValidationError("incident_date", "must be a date (YYYY-MM-DD)")
	}
	var loss float64
	if raw := strings.TrimSpace(c.PostForm("estimated_loss_kes")); raw != "" {
		if loss, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, utils.NewValidationError("estimated_loss_kes", "must be a number")
		}
	}
	return &services.ClaimInput{
		PolicyID:         uint(policyID),
		IncidentDate:     incident,
		Type:             c.PostForm("type"),
		EstimatedLossKes: loss,
		Description:      c.PostForm("description"),
		Status:           c.PostForm("status"),
	}, nil
}

func newClaimService() *services.ClaimService {
	return services.NewClaimService(getDB(), services.NewFileStorage(""))
}

// GET /claims
func ListClaims(c *gin.Context) {
	claims, err := newClaimService().List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load claims")
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": claims, "total": len(claims)})
}

// GET /claims/policy-lookup?number=
func LookupPolicyByNumber(c *gin.Context) {
	policy, err := services.NewPolicyService(getDB()).FindByNumber(c.Request.Context(), c.Query("number"))
	if err != nil {
		switch {
		case isValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Policy number is required", "policy": nil})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Policy not found", "policy": nil})
		default:
			respondError(c, err, "Failed to look up policy")
		}
		return
	}
	respondOK(c, http.StatusOK, "Policy found", gin.H{"policy": policy})
}

// POST /claims (multipart)
func SubmitClaim(c *gin.Context) {
	in, err := bindClaimForm(c)
	if err != nil {
		respondError(c, err, "Failed to submit claim")
		return
	}
	claim, err := newClaimService().Create(c.Request.Context(), in, formFiles(c, evidenceField))
	if err != nil {
		respondError(c, err, "Failed to submit claim: Internal server error.")
		return
	}
	respondOK(c, http.StatusCreated, "Claim submitted successfully!", gin.H{"claimId": claim.ClaimID})
}

// PUT /claims/:id (multipart)
func EditClaim(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	in, err := bindClaimForm(c)
	if err != nil {
		respondError(c, err, "Failed to edit claim")
		return
	}
	if _, err := newClaimService().Update(c.Request.Context(), id, in, formFiles(c, evidenceField)); err != nil {
		respondError(c, err, "Failed to edit claim due to an internal error.")
		return
	}
	respondOK(c, http.StatusOK, "Claim updated successfully.", nil)
}

// DELETE /claims/:id (admin)
func DeleteClaim(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := newClaimService().Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete claim")
		return
	}
	respondOK(c, http.StatusOK, "Claim deleted", nil)
}
