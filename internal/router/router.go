package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veissa/tiredOfLife/config"
	"github.com/veissa/tiredOfLife/internal/app/controller"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	producerController *controller.ProducerController
	productController  *controller.ProductController
	customerController *controller.CustomerController
	pickupController   *controller.PickupController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	producerController *controller.ProducerController,
	productController *controller.ProductController,
	customerController *controller.CustomerController,
	pickupController *controller.PickupController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		producerController: producerController,
		productController:  productController,
		customerController: customerController,
		pickupController:   pickupController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	// multipart bodies beyond this spill to temp files
	router.MaxMultipartMemory = r.config.Upload.MaxBytes + 1<<20

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/uploads/:filename", r.uploadController.ServeUpload)

	producerOnly := []gin.HandlerFunc{
		r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireRole(model.RoleProducer),
	}
	customerOnly := []gin.HandlerFunc{
		r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireRole(model.RoleCustomer),
	}

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		producers := api.Group("/producers")
		{
			producers.GET("", r.producerController.ListProducers)

			profile := producers.Group("/profile", producerOnly...)
			{
				profile.GET("", r.producerController.GetOwnProfile)
				profile.GET("/:id", r.producerController.GetOwnProfile)
				profile.POST("", r.producerController.CreateProducer)
				profile.PUT("/:id", r.producerController.UpdateProducer)
				profile.DELETE("/:id", r.producerController.DeleteProducer)
			}
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/producer", append(producerOnly, r.productController.ListOwnProducts)...)
			products.GET("/producer/export", append(producerOnly, r.productController.ExportOwnProducts)...)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("", append(producerOnly, r.productController.CreateProduct)...)
			products.PUT("/:id", append(producerOnly, r.productController.UpdateProduct)...)
			products.DELETE("/:id", append(producerOnly, r.productController.DeleteProduct)...)
		}

		customers := api.Group("/customers/profile", customerOnly...)
		{
			customers.GET("", r.customerController.GetProfile)
			customers.PUT("", r.customerController.UpdateProfile)
		}

		api.GET("/pickup-points", r.pickupController.ListPickupPoints)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
