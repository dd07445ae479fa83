package rest

import (
	"github.com/Dhoini/Customer-microservice/config"
	"github.com/Dhoini/Customer-microservice/internal/api/rest/handlers"
	"github.com/Dhoini/Customer-microservice/internal/api/rest/middleware"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(
	customerHandler *handlers.CustomerHandler,
	aiHandler *handlers.AIHandler,
	registry *prometheus.Registry,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	// Корень и проверка работоспособности сервиса
	r.GET("/", handlers.Welcome(cfg.App.Name, cfg.App.Version))
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		// Клиенты
		customers := v1.Group("/customers")
		{
			customers.GET("", customerHandler.ListCustomers)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.POST("", customerHandler.CreateCustomer)
			customers.PATCH("/:id", customerHandler.UpdateCustomer)
			customers.DELETE("/:id", customerHandler.DeleteCustomer)
		}

		// Текстовая аналитика
		ai := v1.Group("/ai")
		{
			ai.POST("/sentiment", aiHandler.AnalyzeSentiment)
			ai.POST("/subject", aiHandler.SuggestSubject)
		}
	}

	return r
}
