package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"localride/internal/middleware"
	"localride/internal/models"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

type signupInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`

	// Driver onboarding fields, required when role is "driver"
	VehicleType   string `json:"vehicle_type"`
	VehicleNumber string `json:"vehicle_number"`
	LicenseNumber string `json:"license_number"`
}

// SignupUser registers a customer or driver. The User, its Profile and
// (for drivers) its DriverProfile are created in one transaction.
func (ac *AuthController) SignupUser(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Role = role

	if role == "driver" {
		if input.VehicleNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_number is required for driver role"})
			return
		}
		if !models.ValidVehicleType(input.VehicleType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_type must be one of auto, car, bike"})
			return
		}
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	tx := ac.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	user := models.User{
		Email:    input.Email,
		Password: hashedPassword,
		FullName: input.FullName,
		Phone:    input.Phone,
		Role:     input.Role,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	profile := models.Profile{
		UserID:   user.ID,
		FullName: input.FullName,
		Phone:    input.Phone,
		UserType: input.Role,
	}
	if err := tx.Create(&profile).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create profile: " + err.Error()})
		return
	}
	user.Profile = &profile

	if input.Role == "driver" {
		driverProfile := models.DriverProfile{
			UserID:        user.ID,
			VehicleType:   input.VehicleType,
			VehicleNumber: input.VehicleNumber,
			LicenseNumber: input.LicenseNumber,
		}
		if err := tx.Create(&driverProfile).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create driver profile: " + err.Error()})
			return
		}
		user.DriverProfile = &driverProfile
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func (ac *AuthController) LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := ac.DB.Where("email = ?", body.Email).
		Preload("Profile").
		Preload("DriverProfile")

	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = "customer"
	}
	switch role {
	case "customer", "driver":
		return role, nil
	default:
		return "", errors.New("invalid role")
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// prepareUserResponse constructs the JSON response map for the user,
// including nested actor details.
func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"ID":        user.ID,
		"CreatedAt": user.CreatedAt,
		"UpdatedAt": user.UpdatedAt,
		"full_name": user.FullName,
		"email":     user.Email,
		"phone":     user.Phone,
		"role":      user.Role,
	}

	if user.Profile != nil {
		responseUser["profile"] = gin.H{
			"ID":        user.Profile.ID,
			"full_name": user.Profile.FullName,
			"phone":     user.Profile.Phone,
			"user_type": user.Profile.UserType,
		}
	}
	if user.DriverProfile != nil {
		responseUser["driver_profile"] = gin.H{
			"ID":             user.DriverProfile.ID,
			"vehicle_type":   user.DriverProfile.VehicleType,
			"vehicle_number": user.DriverProfile.VehicleNumber,
			"license_number": user.DriverProfile.LicenseNumber,
			"is_available":   user.DriverProfile.IsAvailable,
		}
	}
	return responseUser
}
