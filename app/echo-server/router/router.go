package router

import (
	"darbFilters/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupMerchantRoutes(api *echo.Group, handler *rest.MerchantHandler, authRequired echo.MiddlewareFunc) {
	merchants := api.Group("/merchants")

	merchants.POST("/register", handler.Register)
	merchants.POST("/login", handler.Login)

	merchants.GET("/me", handler.GetProfile, authRequired)
}

func SetupStoreRoutes(api *echo.Group, handler *rest.StoreHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	stores := api.Group("/stores")

	// Salla app installation webhook
	stores.POST("/install", handler.Install)

	stores.GET("/me", handler.GetStore, authRequired)
	stores.GET("/me/embed-code", handler.GetEmbedCode, authRequired)
	stores.DELETE("/me", handler.Deactivate, authRequired)
	stores.GET("", handler.GetStores, authRequired, adminOnly)
}

func SetupCatalogRoutes(api *echo.Group, handler *rest.CatalogHandler, authRequired echo.MiddlewareFunc) {
	catalog := api.Group("/catalog", authRequired)

	catalog.GET("/brands", handler.GetBrands)
	catalog.POST("/brands", handler.CreateBrand)
	catalog.PUT("/brands/:id", handler.UpdateBrand)
	catalog.DELETE("/brands/:id", handler.DeleteBrand)

	catalog.GET("/models", handler.GetModels)
	catalog.POST("/models", handler.CreateModel)
	catalog.PUT("/models/:id", handler.UpdateModel)
	catalog.DELETE("/models/:id", handler.DeleteModel)

	catalog.GET("/years", handler.GetYears)
	catalog.POST("/years", handler.CreateYear)
	catalog.DELETE("/years/:id", handler.DeleteYear)

	catalog.GET("/sections", handler.GetSections)
	catalog.POST("/sections", handler.CreateSection)
	catalog.PUT("/sections/:id", handler.UpdateSection)
	catalog.DELETE("/sections/:id", handler.DeleteSection)

	catalog.GET("/keywords", handler.GetKeywords)
	catalog.POST("/keywords", handler.CreateKeyword)
	catalog.DELETE("/keywords/:id", handler.DeleteKeyword)
}

func SetupFilterConfigRoutes(api *echo.Group, handler *rest.FilterConfigHandler, authRequired echo.MiddlewareFunc) {
	config := api.Group("/filter-config", authRequired)

	config.GET("", handler.GetConfig)
	config.PUT("", handler.UpdateConfig)
}

func SetupWidgetRoutes(api *echo.Group, handler *rest.WidgetHandler, widgetSecret echo.MiddlewareFunc) {
	api.GET("/widget-data/:store_id", handler.GetWidgetData, widgetSecret)

	widget := api.Group("/widget", widgetSecret)
	widget.GET("/keywords", handler.GetKeywords)
	widget.POST("/event", handler.LogEvent)
	widget.GET("/store-domain", handler.GetStoreDomain)
	widget.POST("/search-url", handler.BuildSearchURL)
	widget.GET("/popup", handler.GetPopup)
	widget.POST("/popup-event", handler.LogPopupEvent)
	widget.POST("/product-view", handler.TrackProductView)
}

func SetupPriceDropRoutes(api *echo.Group, handler *rest.PriceDropHandler, authRequired echo.MiddlewareFunc) {
	campaigns := api.Group("/price-drops", authRequired)

	campaigns.POST("", handler.CreateCampaign)
	campaigns.GET("", handler.GetCampaigns)
	campaigns.GET("/:id", handler.GetCampaign)
	campaigns.PUT("/:id", handler.UpdateCampaign)
	campaigns.DELETE("/:id", handler.DeleteCampaign)

	campaigns.POST("/:id/attach-new-viewers", handler.AttachNewViewers)
	campaigns.GET("/:id/targets", handler.GetTargets)
	campaigns.POST("/:id/email-blast", handler.SendEmailBlast)
	campaigns.GET("/:id/funnel", handler.GetFunnel)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.AnalyticsHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	analytics := api.Group("/analytics", authRequired)

	analytics.GET("/summary", handler.GetStoreSummary)
	analytics.GET("/events", handler.GetRecentEvents)
	analytics.GET("/global", handler.GetGlobalSummary, adminOnly)
}
