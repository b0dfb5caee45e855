package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
)

func (s *Server) ListModifiers(c *gin.Context) {
	modifiers, err := s.catalogSvc.ListModifiers(c.Request.Context(), catalogdomain.ListRequest{
		Active: parseOptionalBool(c, "active"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": modifiers})
}

func (s *Server) CreateModifier(c *gin.Context) {
	var req catalogdomain.CreateModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	modifier, err := s.catalogSvc.CreateModifier(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, modifier)
}

func (s *Server) UpdateModifier(c *gin.Context) {
	var req catalogdomain.UpdateModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	modifier, err := s.catalogSvc.UpdateModifier(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, modifier)
}

func (s *Server) DeactivateModifier(c *gin.Context) {
	modifier, err := s.catalogSvc.DeactivateModifier(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, modifier)
}
