package controllers

import (
	"net/http"

	"insuranceapi/middleware"
	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/services"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

var authSrv services.AuthService

// SetAuthService sets the auth service used by the auth and user handlers.
func SetAuthService(s services.AuthService) {
	authSrv = s
}

// login signs a user in and starts a session
// @Summary Log in
// @Description Verifies the credentials, starts a cookie session and returns the CSRF token for it
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} utils.ErrorBody "Missing username or password"
// @Failure 401 {object} utils.ErrorBody "Invalid username or password"
// @Router /api/auth/login [post]
func login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindRequest(c, &req) {
		return
	}

	user, err := authSrv.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	token, err := middleware.SignIn(c, user)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "Logged in", SessionInfo{User: *user, CSRFToken: token})
}

// logout ends the session
// @Summary Log out
// @Tags Auth
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} MessageResponse
// @Router /api/auth/logout [post]
func logout(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	if err := middleware.SignOut(c); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("User %q logged out", actor.Username)
	utils.OKResponse(c, http.StatusOK, "Logged out", nil)
}

// getMe returns the signed-in user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} utils.ErrorBody
// @Router /api/auth/me [get]
func getMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	user, err := authSrv.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", user)
}

// getCSRF returns the CSRF token of the current session, creating the session if needed
// @Summary CSRF token
// @Tags Auth
// @Produce json
// @Success 200 {object} CSRFResponse
// @Router /api/auth/csrf [get]
func getCSRF(c *gin.Context) {
	token, err := middleware.CSRFToken(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", gin.H{"csrf_token": token})
}

// changePassword changes the signed-in user's password
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param body body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} utils.ErrorBody "New password too weak"
// @Failure 403 {object} utils.ErrorBody "Current password is wrong"
// @Router /api/auth/password [put]
func changePassword(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindRequest(c, &req) {
		return
	}
	if err := authSrv.ChangePassword(c.Request.Context(), actor, req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "Password changed", nil)
}

// listUsers lists operator accounts
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} UserListResponse
// @Failure 403 {object} utils.ErrorBody "Admin only"
// @Router /api/users [get]
func listUsers(c *gin.Context) {
	users, err := authSrv.ListUsers(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", users)
}

// createUser adds an operator account
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param user body dto.CreateUserRequest true "New user"
// @Success 201 {object} UserResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody "Username taken"
// @Router /api/users [post]
func createUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.CreateUserRequest
	if !bindRequest(c, &req) {
		return
	}
	user, err := authSrv.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusCreated, "User created", user)
}

// RegisterPublicAuthRoutes registers the endpoints reachable without a session.
func RegisterPublicAuthRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", login)
		auth.GET("/csrf", getCSRF)
	}
}

// RegisterAuthRoutes registers the session endpoints and admin user management.
// rg must already require a session.
func RegisterAuthRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/logout", logout)
		auth.GET("/me", getMe)
		auth.PUT("/password", changePassword)
	}
	users := rg.Group("/users", middleware.RequireRole(models.RoleAdmin))
	{
		users.GET("", listUsers)
		users.POST("", createUser)
	}
}
