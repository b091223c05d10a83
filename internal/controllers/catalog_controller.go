package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/taist-api/internal/middleware"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/services"
	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CatalogController serves the reference tables and chef-proposed categories.
type CatalogController struct {
	catalog services.CatalogService
}

func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// GetAppliances godoc
// @Summary List appliances
// @Tags catalog
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Appliance}
// @Router /api/get_appliances [get]
func (cc *CatalogController) GetAppliances(c *gin.Context) {
	items, err := cc.catalog.GetAppliances()
	if err != nil {
		respondInternal(c, err, "Failed to load appliances")
		return
	}
	respondOK(c, items)
}

// GetAllergens godoc
// @Summary List allergens
// @Tags catalog
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Allergen}
// @Router /api/get_allergens [get]
func (cc *CatalogController) GetAllergens(c *gin.Context) {
	items, err := cc.catalog.GetAllergens()
	if err != nil {
		respondInternal(c, err, "Failed to load allergens")
		return
	}
	respondOK(c, items)
}

// GetZipcodes godoc
// @Summary List served ZIP codes
// @Tags catalog
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Zipcode}
// @Router /api/get_zipcodes [get]
func (cc *CatalogController) GetZipcodes(c *gin.Context) {
	items, err := cc.catalog.GetZipcodes()
	if err != nil {
		respondInternal(c, err, "Failed to load zipcodes")
		return
	}
	respondOK(c, items)
}

// GetCategories godoc
// @Summary List categories
// @Description Approved categories, plus the caller's pending proposals when a bearer token is sent
// @Tags catalog
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Category}
// @Router /api/get_categories [get]
func (cc *CatalogController) GetCategories(c *gin.Context) {
	items, err := cc.catalog.GetCategories(middleware.UserID(c))
	if err != nil {
		respondInternal(c, err, "Failed to load categories")
		return
	}
	respondOK(c, items)
}

// CreateCategory godoc
// @Summary Propose a category
// @Description The category stays pending until an admin approves it
// @Tags catalog
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Category name"
// @Success 200 {object} models.Envelope{data=models.Category}
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Security BearerAuth
// @Router /api/create_category [post]
func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `form:"name"`
	}
	if !bindForm(c, &req) {
		return
	}
	if respondValidation(c, validation.Required("name", req.Name, validation.MsgMissingNewCategory)) {
		return
	}

	category, err := cc.catalog.CreateCategory(req.Name, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			respondError(c, http.StatusConflict, models.ErrCategoryExists, "This category already exists")
			return
		}
		respondInternal(c, err, "Failed to create category")
		return
	}

	log.WithFields(logrus.Fields{"category_id": category.ID, "user_id": middleware.UserID(c)}).Info("Category proposed")
	respondOK(c, category)
}

// DeleteCategory godoc
// @Summary Withdraw a proposed category
// @Description Only the pending categories the caller proposed can be deleted
// @Tags catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /api/delete_category/{id} [delete]
func (cc *CatalogController) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	err := cc.catalog.DeleteCategory(id, middleware.UserID(c))
	switch {
	case err == nil:
		respondOK(c, gin.H{"id": id})
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, models.ErrCategoryNotFound, "Category not found")
	case errors.Is(err, services.ErrForbidden):
		respondError(c, http.StatusForbidden, models.ErrCategoryDeleteDenied, "You can only delete categories you proposed that are still pending")
	default:
		respondInternal(c, err, "Failed to delete category")
	}
}
