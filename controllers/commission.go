package controllers

import (
	"net/http"

	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

// GET /commissions (admin)
func ListCommissions(c *gin.Context) {
	commissions, err := services.NewCommissionService(getDB()).List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load commissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": commissions, "total": len(commissions)})
}

// POST /commissions (admin)
func CreateCommission(c *gin.Context) {
	var req services.CommissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "All fields are required")
		return
	}
	cm, err := services.NewCommissionService(getDB()).Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to add commission")
		return
	}
	respondOK(c, http.StatusCreated, "Commission added successfully", gin.H{"commissionId": cm.CommissionID})
}

// PUT /commissions/:id (admin)
func UpdateCommission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CommissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid input.")
		return
	}
	cm, err := services.NewCommissionService(getDB()).Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update commission")
		return
	}
	respondOK(c, http.StatusOK, "Commission updated", gin.H{"commissionId": cm.CommissionID})
}

// DELETE /commissions/:id (admin)
func DeleteCommission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewCommissionService(getDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete commission")
		return
	}
	respondOK(c, http.StatusOK, "Commission deleted", nil)
}
