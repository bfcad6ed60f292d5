package controllers

import (
	"net/http"

	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

// GET /leads
func ListLeads(c *gin.Context) {
	leads, err := services.NewLeadService(getDB()).List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load leads")
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads, "total": len(leads)})
}

// POST /leads
func CreateLead(c *gin.Context) {
	var req services.LeadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid lead data: "+err.Error())
		return
	}
	lead, err := services.NewLeadService(getDB()).Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create lead")
		return
	}
	respondOK(c, http.StatusCreated, "Lead added successfully", gin.H{"lead": lead})
}

// PUT /leads/:id
func UpdateLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.LeadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid lead data: "+err.Error())
		return
	}
	lead, err := services.NewLeadService(getDB()).Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update lead")
		return
	}
	respondOK(c, http.StatusOK, "Lead updated successfully", gin.H{"lead": lead})
}

// POST /leads/:id/convert
func ConvertLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lead, err := services.NewLeadService(getDB()).Convert(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to convert lead")
		return
	}
	respondOK(c, http.StatusOK, "Lead converted", gin.H{"lead": lead})
}

// DELETE /leads/:id (admin)
func DeleteLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewLeadService(getDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete lead")
		return
	}
	respondOK(c, http.StatusOK, "Lead deleted", nil)
}
