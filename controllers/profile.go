package controllers

import (
	"errors"
	"net/http"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateProfileInput defines the expected JSON structure for updating the salon profile
type UpdateProfileInput struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	SalonName         *string `json:"salonName"`
	SalonAddress      *string `json:"salonAddress"`
	WhatsAppReminders *bool   `json:"whatsappReminders"`
}

// GetProfile returns the salon profile
func GetProfile(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":              user.Name,
		"email":             user.Email,
		"phone":             user.Phone,
		"salonName":         user.SalonName,
		"salonAddress":      user.SalonAddress,
		"whatsappReminders": user.WhatsAppReminders,
	})
}

// UpdateProfile updates the salon profile and reminder settings
func UpdateProfile(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		user.Phone = *input.Phone
	}
	if input.SalonName != nil {
		user.SalonName = *input.SalonName
	}
	if input.SalonAddress != nil {
		user.SalonAddress = *input.SalonAddress
	}
	if input.WhatsAppReminders != nil {
		user.WhatsAppReminders = *input.WhatsAppReminders
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
