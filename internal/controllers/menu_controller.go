package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/integrations"
	"github.com/franciscosanchezn/taist-api/internal/middleware"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/services"
	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MenuController handles a chef's menu items.
type MenuController struct {
	menus  services.MenuService
	events integrations.Publisher
}

func NewMenuController(menus services.MenuService, events integrations.Publisher) *MenuController {
	return &MenuController{menus: menus, events: events}
}

// menuRequest is the create_menu / update_menu form. Numbers arrive as text
// so the field rules can report them with their own messages.
type menuRequest struct {
	Title          string `form:"title"`
	Description    string `form:"description"`
	CategoryIDs    string `form:"category_ids"`
	Appliances     string `form:"appliances"`
	Allergens      string `form:"allergens"`
	EstimatedTime  string `form:"estimated_time"`
	ServingSize    string `form:"serving_size"`
	Price          string `form:"price"`
	Customizations string `form:"customizations"`
	IsLive         int    `form:"is_live"`
}

// apply validates the form and copies it onto menu.
func (r *menuRequest) apply(menu *models.Menu) error {
	categories := draft.FromWireFormat(r.CategoryIDs)
	var missingCategory error
	if categories.Len() == 0 {
		missingCategory = &validation.Error{Field: "category_ids", Message: validation.MsgMissingCategory}
	}
	if err := validation.First(
		validation.Required("title", r.Title, validation.MsgMissingTitle),
		validation.Required("description", r.Description, validation.MsgMissingDescription),
		missingCategory,
		validation.Price(r.Price),
		validation.ServingSize(r.ServingSize),
	); err != nil {
		return err
	}

	price, err := draft.ParseMoney(r.Price)
	if err != nil {
		return err
	}
	minutes, err := parseEstimatedTime(r.EstimatedTime)
	if err != nil {
		return err
	}
	customizations, err := parseCustomizations(r.Customizations)
	if err != nil {
		return err
	}
	servingSize, _ := strconv.Atoi(strings.TrimSpace(r.ServingSize))

	menu.Title = strings.TrimSpace(r.Title)
	menu.Description = strings.TrimSpace(r.Description)
	menu.CategoryIDs = categories.ToWireFormat()
	menu.Appliances = draft.FromWireFormat(r.Appliances).ToWireFormat()
	menu.Allergens = draft.FromWireFormat(r.Allergens).ToWireFormat()
	menu.EstimatedTime = minutes
	menu.ServingSize = servingSize
	menu.Price = price.Float64()
	menu.Customizations = customizations
	menu.IsLive = 0
	if r.IsLive != 0 {
		menu.IsLive = 1
	}
	return nil
}

// parseEstimatedTime accepts any non-negative minute count; values outside
// the app's buckets are kept and shown as the default bucket.
func parseEstimatedTime(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	minutes, err := strconv.Atoi(text)
	if err != nil || minutes < 0 {
		return 0, &validation.Error{Field: "estimated_time", Message: "Please choose a completion time"}
	}
	return minutes, nil
}

func parseCustomizations(raw string) ([]models.MenuCustomization, error) {
	out := []models.MenuCustomization{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	var items []struct {
		Name          string          `json:"name"`
		UpchargePrice decimal.Decimal `json:"upcharge_price"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &validation.Error{Field: "customizations", Message: validation.MsgInvalidUpcharge}
	}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, &validation.Error{Field: "customizations", Message: validation.MsgMissingCustomName}
		}
		if item.UpchargePrice.IsNegative() {
			return nil, &validation.Error{Field: "upcharge_price", Message: validation.MsgInvalidUpcharge}
		}
		upcharge, _ := item.UpchargePrice.Round(2).Float64()
		out = append(out, models.MenuCustomization{Name: strings.TrimSpace(item.Name), UpchargePrice: upcharge})
	}
	return out, nil
}

// GetChefMenus godoc
// @Summary List a chef's menu items
// @Tags menus
// @Produce json
// @Param id path int true "Chef user ID"
// @Success 200 {object} models.Envelope{data=[]models.Menu}
// @Security BearerAuth
// @Router /api/get_chef_menus/{id} [get]
func (mc *MenuController) GetChefMenus(c *gin.Context) {
	chefID, ok := paramID(c)
	if !ok {
		return
	}
	menus, err := mc.menus.GetMenusByChef(chefID)
	if err != nil {
		respondInternal(c, err, "Failed to load menus")
		return
	}
	respondOK(c, menus)
}

// CreateMenu godoc
// @Summary Create a menu item
// @Tags menus
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param category_ids formData string true "Comma separated category ids"
// @Param price formData string true "Price in dollars"
// @Param serving_size formData int true "Serving size, 1 to 10"
// @Param customizations formData string false "JSON array of {name, upcharge_price}"
// @Success 200 {object} models.Envelope{data=models.Menu}
// @Failure 400 {object} models.Envelope
// @Security BearerAuth
// @Router /api/create_menu [post]
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req menuRequest
	if !bindForm(c, &req) {
		return
	}

	menu := &models.Menu{UserID: middleware.UserID(c)}
	if err := req.apply(menu); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := mc.menus.CreateMenu(menu); err != nil {
		respondInternal(c, err, "Failed to create menu")
		return
	}

	log.WithFields(logrus.Fields{"menu_id": menu.ID, "user_id": menu.UserID}).Info("Menu created")
	mc.publish(c, integrations.NewEvent(integrations.EventMenuCreated, menu))
	respondOK(c, menu)
}

// UpdateMenu godoc
// @Summary Update a menu item
// @Description Replaces every field and the customizations of a menu item the caller owns
// @Tags menus
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Menu ID"
// @Success 200 {object} models.Envelope{data=models.Menu}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /api/update_menu/{id} [post]
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	menu, ok := mc.ownedMenu(c)
	if !ok {
		return
	}
	var req menuRequest
	if !bindForm(c, &req) {
		return
	}
	if err := req.apply(menu); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := mc.menus.UpdateMenu(menu); err != nil {
		respondInternal(c, err, "Failed to update menu")
		return
	}

	log.WithField("menu_id", menu.ID).Info("Menu updated")
	mc.publish(c, integrations.NewEvent(integrations.EventMenuUpdated, menu))
	respondOK(c, menu)
}

// DeleteMenu godoc
// @Summary Delete a menu item
// @Tags menus
// @Produce json
// @Param id path int true "Menu ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /api/delete_menu/{id} [delete]
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	menu, ok := mc.ownedMenu(c)
	if !ok {
		return
	}
	if err := mc.menus.DeleteMenu(menu.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(c, http.StatusNotFound, models.ErrMenuNotFound, "Menu item not found")
			return
		}
		respondInternal(c, err, "Failed to delete menu")
		return
	}
	log.WithField("menu_id", menu.ID).Info("Menu deleted")
	respondOK(c, gin.H{"id": menu.ID})
}

// ownedMenu loads the :id menu when the caller owns it or is an admin.
func (mc *MenuController) ownedMenu(c *gin.Context) (*models.Menu, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}
	menu, err := mc.menus.GetMenuByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(c, http.StatusNotFound, models.ErrMenuNotFound, "Menu item not found")
			return nil, false
		}
		respondInternal(c, err, "Failed to load menu")
		return nil, false
	}
	if menu.UserID != middleware.UserID(c) && !middleware.IsAdmin(c) {
		respondError(c, http.StatusForbidden, models.ErrMenuForbidden, "You can only change your own menu items")
		return nil, false
	}
	return menu, true
}

func (mc *MenuController) publish(c *gin.Context, e integrations.Event) {
	if err := mc.events.Publish(c.Request.Context(), e); err != nil {
		log.WithError(err).WithField("event", e.Type).Warn("Failed to publish event")
	}
}
