package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/service"
	apperrors "github.com/veissa/tiredOfLife/internal/errors"
	"github.com/veissa/tiredOfLife/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email       string              `json:"email" binding:"required,email"`
	Password    string              `json:"password" binding:"required,min=6"`
	Role        string              `json:"role"`
	ProfileData RegisterProfileData `json:"profileData"`
}

// RegisterProfileData holds the producer or customer fields of a
// registration; only the ones matching the role are used.
type RegisterProfileData struct {
	ShopName       string                     `json:"shopName"`
	Description    string                     `json:"description"`
	Address        string                     `json:"address"`
	Certifications stringList                 `json:"certifications"`
	PickupInfo     pickupField                `json:"pickupInfo"`
	FirstName      string                     `json:"firstName"`
	LastName       string                     `json:"lastName"`
	Phone          string                     `json:"phone"`
	Preferences    *model.CustomerPreferences `json:"preferences"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration
// POST /api/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, "Invalid registration data", bindingFields(err))
		return
	}

	user, token, err := ctrl.authService.Register(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     model.UserRole(req.Role),
		Profile: service.ProfileData{
			ShopName:       req.ProfileData.ShopName,
			Description:    req.ProfileData.Description,
			Address:        req.ProfileData.Address,
			Certifications: req.ProfileData.Certifications,
			PickupInfo:     req.ProfileData.PickupInfo.PickupInfo,
			FirstName:      req.ProfileData.FirstName,
			LastName:       req.ProfileData.LastName,
			Phone:          req.ProfileData.Phone,
			Preferences:    req.ProfileData.Preferences,
		},
	})
	if err != nil {
		respondServiceError(c, err, "register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login handles user login
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, "Invalid login data", bindingFields(err))
		return
	}

	user, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me returns the caller with their profile
// GET /api/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.Me(userID)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// Logout revokes the caller's token when revocation is enabled
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, claims, ok := middleware.GetToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token, claims); err != nil {
		respondServiceError(c, err, "logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
