package router

import (
	"net/http"

	"github.com/fieldtech/workorder-be/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "work-order-api-service",
		})
	})

	workOrderHandler := handler.NewWorkOrderHandler(deps)

	// POST /submit-work-order/ - run the submission workflow.
	// Trailing slash kept for compatibility with the deployed clients.
	r.POST("/submit-work-order/", workOrderHandler.SubmitWorkOrder)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		workOrders := v1.Group("/work-orders")
		{
			// GET /api/v1/work-orders - list records with filtering and pagination
			workOrders.GET("", workOrderHandler.ListWorkOrders)

			// GET /api/v1/work-orders/:work_order_id - get record details
			workOrders.GET("/:work_order_id", workOrderHandler.GetWorkOrder)
		}
	}

	return r
}
