package controllers

import (
	"errors"
	"log"
	"net/http"

	"agency-backoffice-api/config"
	"agency-backoffice-api/services"
	"agency-backoffice-api/utils"

	"github.com/gin-gonic/gin"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword e-mails a reset link. The answer is the same whether or not
// the address is registered.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		respondFail(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	svc := services.NewAuthService(getDB(), newMailer())
	if err := svc.RequestPasswordReset(c.Request.Context(), req.Email, config.Current.AppBaseURL); err != nil {
		if errors.Is(err, config.ErrMailerNotConfigured) {
			log.Printf("forgot-password: %v", err)
		} else {
			log.Printf("forgot-password: failed to send reset email: %v", err)
		}
		respondFail(c, http.StatusInternalServerError, "Failed to send reset email")
		return
	}

	respondOK(c, http.StatusOK, "If the email exists, a reset link has been sent.", nil)
}

// ResetPassword sets a new password using a token from ForgotPassword.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Token == "" {
		respondFail(c, http.StatusBadRequest, "Reset token is required")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondFail(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if err := services.NewAuthService(getDB(), nil).ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}
	respondOK(c, http.StatusOK, "Password has been reset. Please sign in.", nil)
}
