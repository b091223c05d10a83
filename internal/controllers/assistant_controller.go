package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/taist-api/internal/integrations"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/services"
	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/gin-gonic/gin"
)

// AssistantController exposes the menu writing helpers.
type AssistantController struct {
	assistant integrations.MenuAssistant
	catalog   services.CatalogService
}

func NewAssistantController(assistant integrations.MenuAssistant, catalog services.CatalogService) *AssistantController {
	return &AssistantController{assistant: assistant, catalog: catalog}
}

type assistantRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

// AnalyzeMenuMetadata godoc
// @Summary Suggest category, allergen and appliance ids
// @Tags assistant
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Menu item title"
// @Param description formData string false "Menu item description"
// @Success 200 {object} models.Envelope{data=integrations.MenuMetadata}
// @Failure 502 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Security BearerAuth
// @Router /api/AnalyzeMenuMetadataAPI [post]
func (ac *AssistantController) AnalyzeMenuMetadata(c *gin.Context) {
	var req assistantRequest
	if !bindForm(c, &req) {
		return
	}
	if respondValidation(c, validation.Required("title", req.Title, validation.MsgMissingTitle)) {
		return
	}

	opts, err := ac.metadataOptions()
	if err != nil {
		respondInternal(c, err, "Failed to load reference tables")
		return
	}
	meta, err := ac.assistant.AnalyzeMetadata(c.Request.Context(), req.Title, req.Description, opts)
	if err != nil {
		respondAssistantError(c, err)
		return
	}
	respondOK(c, meta)
}

// metadataOptions lists the approved rows the model may choose from.
func (ac *AssistantController) metadataOptions() (integrations.MetadataOptions, error) {
	var opts integrations.MetadataOptions
	categories, err := ac.catalog.GetCategories(0)
	if err != nil {
		return opts, err
	}
	allergens, err := ac.catalog.GetAllergens()
	if err != nil {
		return opts, err
	}
	appliances, err := ac.catalog.GetAppliances()
	if err != nil {
		return opts, err
	}
	for _, row := range categories {
		opts.Categories = append(opts.Categories, integrations.RefOption{ID: int(row.ID), Name: row.Name})
	}
	for _, row := range allergens {
		opts.Allergens = append(opts.Allergens, integrations.RefOption{ID: int(row.ID), Name: row.Name})
	}
	for _, row := range appliances {
		opts.Appliances = append(opts.Appliances, integrations.RefOption{ID: int(row.ID), Name: row.Name})
	}
	return opts, nil
}

// GenerateMenuDescription godoc
// @Summary Suggest a description for a title
// @Tags assistant
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Menu item title"
// @Success 200 {object} models.Envelope
// @Failure 502 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Security BearerAuth
// @Router /api/GenerateMenuDescriptionAPI [post]
func (ac *AssistantController) GenerateMenuDescription(c *gin.Context) {
	var req assistantRequest
	if !bindForm(c, &req) {
		return
	}
	if respondValidation(c, validation.Required("title", req.Title, validation.MsgMissingTitle)) {
		return
	}

	text, err := ac.assistant.SuggestDescription(c.Request.Context(), req.Title)
	if err != nil {
		respondAssistantError(c, err)
		return
	}
	respondOK(c, gin.H{"description": text})
}

// EnhanceMenuDescription godoc
// @Summary Rewrite a description
// @Tags assistant
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Menu item title"
// @Param description formData string true "Description to improve"
// @Success 200 {object} models.Envelope
// @Failure 502 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Security BearerAuth
// @Router /api/EnhanceMenuDescriptionAPI [post]
func (ac *AssistantController) EnhanceMenuDescription(c *gin.Context) {
	var req assistantRequest
	if !bindForm(c, &req) {
		return
	}
	if respondValidation(c, validation.Required("description", req.Description, validation.MsgMissingDescription)) {
		return
	}

	text, err := ac.assistant.EnhanceDescription(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		respondAssistantError(c, err)
		return
	}
	respondOK(c, gin.H{"description": text})
}

func respondAssistantError(c *gin.Context, err error) {
	if errors.Is(err, integrations.ErrDisabled) {
		respondError(c, http.StatusServiceUnavailable, models.ErrUpstream, "Writing help is not available right now")
		return
	}
	log.WithError(err).WithField("path", c.FullPath()).Warn("Menu assistant failed")
	respondError(c, http.StatusBadGateway, models.ErrUpstream, "Writing help is not available right now")
}
