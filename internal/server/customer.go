package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCustomers feeds the edit form's customer selector. Customers are
// managed elsewhere; this surface is read-only.
func (s *Server) ListCustomers(c *gin.Context) {
	customers, err := s.customerRepo.List(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customers})
}
