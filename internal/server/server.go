// Package server wires services, controllers and middleware into the gin
// router that cmd/main runs.
package server

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/taist-api/internal/auth"
	"github.com/franciscosanchezn/taist-api/internal/config"
	"github.com/franciscosanchezn/taist-api/internal/controllers"
	"github.com/franciscosanchezn/taist-api/internal/integrations"
	"github.com/franciscosanchezn/taist-api/internal/middleware"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/services"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Deps are the collaborators the router needs. Nil integrations are
// replaced by their local implementations.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Photos    integrations.PhotoStore
	Codes     integrations.CodeStore
	SMS       integrations.SMSSender
	Assistant integrations.MenuAssistant
	Payments  integrations.PaymentMethods
	Events    integrations.Publisher
}

func (d *Deps) fillDefaults() {
	if d.Photos == nil {
		d.Photos = integrations.DiskPhotos{Dir: d.Config.UploadDir, BaseURL: d.Config.PublicURL + "/uploads/"}
	}
	if d.Codes == nil {
		d.Codes = integrations.NewMemoryCodes()
	}
	if d.SMS == nil {
		d.SMS = integrations.LogSMS{}
	}
	if d.Assistant == nil {
		d.Assistant = integrations.DisabledAssistant{}
	}
	if d.Payments == nil {
		d.Payments = integrations.NoPayments{}
	}
	if d.Events == nil {
		d.Events = integrations.LogPublisher{}
	}
}

// New builds the router.
func New(deps Deps) *gin.Engine {
	deps.fillDefaults()
	cfg := deps.Config
	secret := []byte(cfg.JWTSecret)

	userService := services.NewUserService(deps.DB)
	catalogService := services.NewCatalogService(deps.DB)
	menuService := services.NewMenuService(deps.DB)
	clientService := services.NewClientService(deps.DB)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	oauthService := auth.NewOAuthService(deps.DB, cfg.JWTSecret)

	authController := controllers.NewAuthController(userService, tokens, deps.Photos, deps.Codes, deps.SMS, deps.Events)
	catalogController := controllers.NewCatalogController(catalogService)
	menuController := controllers.NewMenuController(menuService, deps.Events)
	userController := controllers.NewUserController(userService, menuService, deps.Payments)
	assistantController := controllers.NewAssistantController(deps.Assistant, catalogService)
	clientController := controllers.NewClientController(clientService)

	loginLimit := perMinute(cfg.LoginPerMinute)
	loginLimiter := middleware.NewRateLimiter(loginLimit, cfg.LoginBurst)
	codeLimiter := middleware.NewRateLimiter(loginLimit, cfg.LoginBurst)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.GET("/health", healthCheckHandler)
	router.POST("/oauth/token", oauthService.HandleToken)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.UploadDir != "" {
		router.Static("/uploads", cfg.UploadDir)
	}

	api := router.Group("/api")
	api.Use(middleware.APIKey(cfg.APIKey))
	{
		api.POST("/register", authController.Register)
		api.POST("/login", loginLimiter.Middleware(), authController.Login)
		api.POST("/verify_phone", codeLimiter.Middleware(), authController.VerifyPhone)

		api.GET("/get_appliances", catalogController.GetAppliances)
		api.GET("/get_allergens", catalogController.GetAllergens)
		api.GET("/get_zipcodes", catalogController.GetZipcodes)
		api.GET("/get_categories", middleware.OptionalJWTAuth(secret), catalogController.GetCategories)

		// Routes below need a bearer token from login or /oauth/token
		bearer := api.Group("")
		bearer.Use(middleware.JWTAuth(secret))
		{
			bearer.GET("/get_users", userController.GetUsers)
			bearer.GET("/get_chef_profile/:id", userController.GetChefProfile)
			bearer.GET("/get_chef_menus/:id", menuController.GetChefMenus)
			bearer.GET("/get_payment_method", userController.GetPaymentMethod)
			bearer.POST("/update_fcm_token", userController.UpdateFCMToken)

			bearer.POST("/AnalyzeMenuMetadataAPI", assistantController.AnalyzeMenuMetadata)
			bearer.POST("/GenerateMenuDescriptionAPI", assistantController.GenerateMenuDescription)
			bearer.POST("/EnhanceMenuDescriptionAPI", assistantController.EnhanceMenuDescription)

			chef := bearer.Group("")
			chef.Use(middleware.RequireRole(models.RoleChef, models.RoleAdmin))
			{
				chef.POST("/create_category", catalogController.CreateCategory)
				chef.DELETE("/delete_category/:id", catalogController.DeleteCategory)
				chef.POST("/create_menu", menuController.CreateMenu)
				chef.POST("/update_menu/:id", menuController.UpdateMenu)
				chef.DELETE("/delete_menu/:id", menuController.DeleteMenu)
			}

			admin := bearer.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/clients", clientController.CreateClient)
				admin.GET("/clients", clientController.ListClients)
				admin.DELETE("/clients/:id", clientController.DeleteClient)
			}
		}
	}

	return router
}

func perMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "taist-api",
	})
}
