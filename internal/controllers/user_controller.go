package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/taist-api/internal/integrations"
	"github.com/franciscosanchezn/taist-api/internal/middleware"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/services"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	users    services.UserService
	menus    services.MenuService
	payments integrations.PaymentMethods
}

func NewUserController(users services.UserService, menus services.MenuService, payments integrations.PaymentMethods) *UserController {
	return &UserController{users: users, menus: menus, payments: payments}
}

// ChefProfile is a chef with the size of their menu.
type ChefProfile struct {
	*models.User
	MenuCount int64 `json:"menu_count"`
}

// GetUsers godoc
// @Summary List users
// @Description Customers and chefs, without admins
// @Tags users
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.User}
// @Security BearerAuth
// @Router /api/get_users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.users.ListUsers()
	if err != nil {
		respondInternal(c, err, "Failed to list users")
		return
	}
	respondOK(c, users)
}

// GetChefProfile godoc
// @Summary Get a chef's profile
// @Tags users
// @Produce json
// @Param id path int true "Chef user ID"
// @Success 200 {object} models.Envelope{data=ChefProfile}
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /api/get_chef_profile/{id} [get]
func (uc *UserController) GetChefProfile(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	user, err := uc.users.GetUserByID(id)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		respondInternal(c, err, "Failed to load chef")
		return
	}
	if err != nil || !user.IsChef() {
		respondError(c, http.StatusNotFound, models.ErrNotFound, "Chef not found")
		return
	}

	count, err := uc.menus.CountMenus(user.ID)
	if err != nil {
		respondInternal(c, err, "Failed to count menus")
		return
	}
	respondOK(c, ChefProfile{User: user, MenuCount: count})
}

// GetPaymentMethod godoc
// @Summary Get the caller's saved card
// @Description data is null when no card is on file
// @Tags users
// @Produce json
// @Success 200 {object} models.Envelope{data=integrations.PaymentMethod}
// @Failure 502 {object} models.Envelope
// @Security BearerAuth
// @Router /api/get_payment_method [get]
func (uc *UserController) GetPaymentMethod(c *gin.Context) {
	user, err := uc.users.GetUserByID(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(c, http.StatusNotFound, models.ErrNotFound, "User not found")
			return
		}
		respondInternal(c, err, "Failed to load user")
		return
	}

	pm, err := uc.payments.DefaultPaymentMethod(c.Request.Context(), user.StripeCustomerID)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Failed to load payment method")
		respondError(c, http.StatusBadGateway, models.ErrUpstream, "We could not load your payment method. Please try again.")
		return
	}
	// a nil *PaymentMethod would be dropped by omitempty
	c.JSON(http.StatusOK, struct {
		Success int                         `json:"success"`
		Data    *integrations.PaymentMethod `json:"data"`
	}{Success: 1, Data: pm})
}

// UpdateFCMToken godoc
// @Summary Store the device push token
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param fcm_token formData string true "Firebase Cloud Messaging token"
// @Success 200 {object} models.Envelope
// @Security BearerAuth
// @Router /api/update_fcm_token [post]
func (uc *UserController) UpdateFCMToken(c *gin.Context) {
	var req struct {
		FCMToken string `form:"fcm_token"`
	}
	if !bindForm(c, &req) {
		return
	}
	if req.FCMToken == "" {
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, "fcm_token is required")
		return
	}

	if err := uc.users.UpdateFCMToken(middleware.UserID(c), req.FCMToken); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(c, http.StatusNotFound, models.ErrNotFound, "User not found")
			return
		}
		respondInternal(c, err, "Failed to store push token")
		return
	}
	respondOK(c, gin.H{"updated": true})
}
