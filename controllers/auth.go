package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/middleware"
	"agency-backoffice-api/models"
	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// setSessionCookie writes the signed session token as an HttpOnly cookie.
func setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName(), value, maxAge, "/", "", config.Current.IsRelease(), true)
}

// SignUp registers a regular user account.
func SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	user, err := services.NewAuthService(getDB(), nil).SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	respondOK(c, http.StatusCreated, "Account created successfully", gin.H{"user": user})
}

// SignIn checks credentials and starts a session.
func SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := c.Request.Context()
	user, err := services.NewAuthService(getDB(), nil).Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondFail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respondError(c, err, "Failed to sign in")
		return
	}

	sessions := services.NewDefaultSessionService()
	signed, sess, err := sessions.Create(ctx, user, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err, "Failed to start session")
		return
	}
	setSessionCookie(c, signed, int(sessions.TTL()/time.Second))

	respondOK(c, http.StatusOK, "Signed in successfully", gin.H{
		"user":       user,
		"expires_at": sess.ExpiresAt,
	})
}

// SignOut revokes the current session, if any, and clears the cookie.
func SignOut(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookieName()); err == nil && token != "" {
		if err := services.NewDefaultSessionService().Revoke(c.Request.Context(), token); err != nil &&
			!errors.Is(err, services.ErrInvalidSessionToken) {
			log.Printf("sign-out: failed to revoke session: %v", err)
		}
	}
	setSessionCookie(c, "", -1)
	respondOK(c, http.StatusOK, "Signed out", nil)
}

// GetSession returns the signed-in user. Requires RequireSession.
func GetSession(c *gin.Context) {
	v, ok := c.Get("user")
	user, _ := v.(*models.User)
	if !ok || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"isAdmin": user.IsAdmin(),
	})
}
