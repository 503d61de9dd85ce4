package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Catalog serves the reference lists behind the prediction form.
type Catalog interface {
	Regions() []string
	Products() []string
	Subcategories() []string
}

type MetadataHandler struct {
	catalog Catalog
}

func NewMetadataHandler(catalog Catalog) *MetadataHandler {
	return &MetadataHandler{catalog: catalog}
}

func (h *MetadataHandler) Regions(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Regions())
}

func (h *MetadataHandler) Products(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Products())
}

func (h *MetadataHandler) Subcategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Subcategories())
}
