package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radiolab/OpenRadioCore/internal/types"
)

// GET /api/v1/profiles
func (s *Server) listProfileCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"vendors": s.lm.Catalog()})
}

// GET /api/v1/profiles/:id
func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.lm.Profiles().Load(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeProfileNotFound, "Profile not found", err.Error()))
		return
	}
	c.JSON(http.StatusOK, profile)
}
