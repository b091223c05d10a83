package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/franciscosanchezn/taist-api/internal/middleware"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ClientController lets admins manage the API clients that sign in through
// /oauth/token. A client acts as the admin that created it.
type ClientController struct {
	clientService services.ClientService
}

func NewClientController(clientService services.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

// CreatedClient is returned once; the plain secret is never stored.
type CreatedClient struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Name         string `json:"name"`
	Scopes       string `json:"scopes"`
}

// CreateClient godoc
// @Summary Create an API client
// @Description Creates a client_credentials client acting as the calling admin
// @Tags clients
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Client name"
// @Param domain formData string false "Client domain"
// @Param scopes formData string false "Space separated scopes"
// @Success 200 {object} models.Envelope{data=CreatedClient}
// @Failure 400 {object} models.Envelope
// @Security BearerAuth
// @Router /api/admin/clients [post]
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req struct {
		Name   string `form:"name" json:"name"`
		Domain string `form:"domain" json:"domain"`
		Scopes string `form:"scopes" json:"scopes"`
	}
	if !bindForm(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, "name is required")
		return
	}

	client, secret, err := models.NewOAuthClient(req.Name, req.Domain, req.Scopes, middleware.UserID(c))
	if err != nil {
		respondInternal(c, err, "Failed to generate client secret")
		return
	}
	if err := cc.clientService.CreateClient(client); err != nil {
		respondInternal(c, err, "Failed to create client")
		return
	}

	log.WithField("client_id", client.ID).Info("API client created")
	respondOK(c, CreatedClient{ClientID: client.ID, ClientSecret: secret, Name: client.Name, Scopes: client.Scopes})
}

// ListClients godoc
// @Summary List the caller's API clients
// @Tags clients
// @Produce json
// @Success 200 {object} models.Envelope
// @Security BearerAuth
// @Router /api/admin/clients [get]
func (cc *ClientController) ListClients(c *gin.Context) {
	clients, err := cc.clientService.GetClientsByUserID(middleware.UserID(c))
	if err != nil {
		respondInternal(c, err, "Failed to list clients")
		return
	}

	out := make([]gin.H, 0, len(clients))
	for _, client := range clients {
		out = append(out, gin.H{
			"client_id":   client.ID,
			"name":        client.Name,
			"domain":      client.Domain,
			"scopes":      client.Scopes,
			"grant_types": client.GrantTypes,
		})
	}
	respondOK(c, out)
}

// DeleteClient godoc
// @Summary Delete an API client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /api/admin/clients/{id} [delete]
func (cc *ClientController) DeleteClient(c *gin.Context) {
	clientID := c.Param("id")

	if err := cc.clientService.DeleteClient(clientID, middleware.UserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(c, http.StatusNotFound, models.ErrNotFound, "Client not found")
			return
		}
		respondInternal(c, err, "Failed to delete client")
		return
	}
	respondOK(c, gin.H{"client_id": clientID})
}
