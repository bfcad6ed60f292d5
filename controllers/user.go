package controllers

import (
	"net/http"

	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

type updateUserRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// GET /users (admin)
func ListUsers(c *gin.Context) {
	users, err := services.NewUserService(getDB()).List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// PUT /users/:id (admin)
func UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Name and role are required")
		return
	}
	user, err := services.NewUserService(getDB()).Update(c.Request.Context(), id, req.Name, req.Role)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	respondOK(c, http.StatusOK, "User updated successfully", gin.H{"user": user})
}

// DELETE /users/:id (admin)
func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, _ := getCurrentUserID(c)
	if err := services.NewUserService(getDB()).Delete(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	respondOK(c, http.StatusOK, "User deleted successfully", nil)
}

// PUT /users/:id/password (admin)
func ChangeUserPassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "New password is required")
		return
	}
	if err := services.NewUserService(getDB()).ChangePassword(c.Request.Context(), id, req.NewPassword); err != nil {
		respondError(c, err, "Failed to change password")
		return
	}
	respondOK(c, http.StatusOK, "Password changed successfully", nil)
}
