package v1

import (
	"net/http"

	"go-servicios-backend/internal/delivery/http/middleware"
	"go-servicios-backend/internal/delivery/http/response"
	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, professional *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	protected.GET("/profile/me", handler.Me)
	// Editing the published service card is professional-only.
	professional.PUT("/profile/professional", handler.SaveProfessional)
}

func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.profileUC.Me(c.Request.Context(), identityFrom(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile", profile)
}

func (h *ProfileHandler) SaveProfessional(c *gin.Context) {
	var form domain.ProfessionalEditorForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := h.profileUC.SaveProfessionalProfile(c.Request.Context(), middleware.SessionID(c), identityFrom(c), &form)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile saved", profile)
}
