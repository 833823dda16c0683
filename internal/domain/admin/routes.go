package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the admin console under v1/admin behind guard.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, guard gin.HandlerFunc) {
	admin := v1.Group("/admin", guard)
	{
		admin.GET("/overview", h.GetOverview)

		admin.GET("/kyc", h.GetKYCQueue)
		admin.POST("/kyc/:id/review", h.ReviewKYC)

		admin.GET("/disputes", h.ListDisputes)
		admin.GET("/disputes/:id", h.GetDispute)
		admin.PATCH("/disputes/:id", h.UpdateDispute)
	}
}
