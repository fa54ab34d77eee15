package v1

import (
	"net/http"

	"go-servicios-backend/internal/delivery/http/response"
	"go-servicios-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type DirectoryHandler struct {
	directoryUC domain.DirectoryUsecase
}

func NewDirectoryHandler(public *gin.RouterGroup, directoryUC domain.DirectoryUsecase) {
	handler := &DirectoryHandler{directoryUC: directoryUC}

	public.GET("/professionals", handler.List)
	public.GET("/categories", handler.Categories)
}

// List returns published professionals, optionally filtered by category.
func (h *DirectoryHandler) List(c *gin.Context) {
	category := domain.Category(c.Query("category"))

	profiles, err := h.directoryUC.ListPublished(c.Request.Context(), category)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Published professionals", gin.H{
		"professionals": profiles,
		"count":         len(profiles),
	})
}

// Categories returns the service category catalogue the frontend renders.
func (h *DirectoryHandler) Categories(c *gin.Context) {
	response.Success(c, http.StatusOK, "Service categories", domain.ValidCategories())
}
