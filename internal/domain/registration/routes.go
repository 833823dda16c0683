package registration

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the wizard under v1. auth guards everything that
// acts on an existing session.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, auth gin.HandlerFunc) {
	reg := v1.Group("/registration")
	{
		reg.POST("/sessions", h.StartSession)
	}

	session := reg.Group("/session", auth)
	{
		session.GET("", h.GetSession)
		session.PUT("/role", h.SelectRole)
		session.DELETE("/role", h.ChangeRole)
		session.PATCH("/identity", h.UpdateIdentity)
		session.PATCH("/provider", h.UpdateProvider)
		session.PATCH("/customer", h.UpdateCustomer)
		session.POST("/certifications", h.AddCertification)
		session.DELETE("/certifications/:index", h.RemoveCertification)
		session.PUT("/resume", h.AttachResume)
		session.PUT("/kyc", h.AttachKYC)
		session.POST("/resume/analyze", h.AnalyzeResume)
		session.POST("/resume/apply", h.ApplyAnalysis)
		session.POST("/next", h.Next)
		session.POST("/previous", h.Previous)
		session.POST("/submit", h.Submit)
	}
}
