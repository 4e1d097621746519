package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListInvoiceActivity(c *gin.Context) {
	entries, err := s.activitySvc.ListByInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
