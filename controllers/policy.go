package controllers

import (
	"net/http"
	"strings"

	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

// GET /policies
func ListPolicies(c *gin.Context) {
	policies, err := services.NewPolicyService(getDB()).List(c.Request.Context(), strings.TrimSpace(c.Query("status")))
	if err != nil {
		respondError(c, err, "Failed to load policies")
		return
	}
	c.JSON(http.StatusOK, gin.H{"policies": policies, "total": len(policies)})
}

// GET /policies/:id
func GetPolicy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	policy, err := services.NewPolicyService(getDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load policy")
		return
	}
	c.JSON(http.StatusOK, gin.H{"policy": policy})
}

// POST /policies
func CreatePolicy(c *gin.Context) {
	var req services.PolicyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid policy data: "+err.Error())
		return
	}
	policy, err := services.NewPolicyService(getDB()).Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create policy")
		return
	}
	respondOK(c, http.StatusCreated, "Policy created successfully", gin.H{"policy": policy})
}

// PUT /policies/:id
func UpdatePolicy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.PolicyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid policy data: "+err.Error())
		return
	}
	policy, err := services.NewPolicyService(getDB()).Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update policy")
		return
	}
	respondOK(c, http.StatusOK, "Policy updated successfully", gin.H{"policy": policy})
}

// DELETE /policies/:id (admin)
func DeletePolicy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewPolicyService(getDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete policy")
		return
	}
	respondOK(c, http.StatusOK, "Policy deleted successfully", nil)
}
