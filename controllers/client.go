package controllers

import (
	"errors"
	"net/http"
	"strings"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/schollz/closestmatch"
	"gorm.io/gorm"
)

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name     string `json:"name" binding:"required"`
	WhatsApp string `json:"whatsapp"`
	Notes    string `json:"notes"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name     *string `json:"name"`
	WhatsApp *string `json:"whatsapp"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateClient creates a new client for the salon
func CreateClient(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	whatsapp := utils.NormalizeWhatsApp(input.WhatsApp)
	if whatsapp != "" {
		if !utils.ValidatePhone(whatsapp) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid WhatsApp number format")
			return
		}

		// Check if the number already belongs to another client
		var existing models.Client
		if err := config.DB.Where("user_id = ? AND whats_app = ?", userUUID, whatsapp).
			First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Client with this WhatsApp number already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
	}

	client := models.Client{
		UserID:   userUUID,
		Name:     strings.TrimSpace(input.Name),
		WhatsApp: whatsapp,
		Notes:    input.Notes,
		IsActive: true,
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients retrieves all clients for the salon
func GetClients(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var clients []models.Client
	if err := config.DB.Where("user_id = ?", userUUID).Order("name").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// SearchClients fuzzy-matches the client selector query against client
// names, so "maira" still finds "Maria"
func SearchClients(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing query parameter q")
		return
	}

	var clients []models.Client
	if err := config.DB.Where("user_id = ? AND is_active = true", userUUID).Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	byName := make(map[string]models.Client, len(clients))
	names := make([]string, 0, len(clients))
	for _, client := range clients {
		key := strings.ToLower(client.Name)
		if _, seen := byName[key]; !seen {
			names = append(names, key)
		}
		byName[key] = client
	}

	matches := []models.Client{}
	if len(names) > 0 {
		cm := closestmatch.New(names, []int{2, 3, 4})
		for _, name := range cm.ClosestN(strings.ToLower(query), 5) {
			if name == "" {
				continue
			}
			matches = append(matches, byName[name])
		}
	}

	c.JSON(http.StatusOK, matches)
}

// GetClient retrieves a specific client by ID
func GetClient(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	clientUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient updates an existing client
func UpdateClient(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	clientUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
	}
	if input.WhatsApp != nil {
		whatsapp := utils.NormalizeWhatsApp(*input.WhatsApp)
		if whatsapp != "" {
			if !utils.ValidatePhone(whatsapp) {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid WhatsApp number format")
				return
			}
			if client.WhatsApp != whatsapp {
				var existing models.Client
				if err := config.DB.Where("user_id = ? AND whats_app = ?", userUUID, whatsapp).
					First(&existing).Error; err == nil {
					utils.RespondWithError(c, http.StatusConflict, "Another client with this WhatsApp number already exists")
					return
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
					return
				}
			}
		}
		client.WhatsApp = whatsapp
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient soft deletes a client
func DeleteClient(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	clientUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, clientUUID).
		Delete(&models.Client{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
