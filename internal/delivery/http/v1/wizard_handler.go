package v1

import (
	"net/http"

	"go-servicios-backend/internal/delivery/http/middleware"
	"go-servicios-backend/internal/delivery/http/response"
	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type WizardHandler struct {
	wizardUC domain.WizardUsecase
}

func NewWizardHandler(protected *gin.RouterGroup, wizardUC domain.WizardUsecase) {
	handler := &WizardHandler{wizardUC: wizardUC}

	wizard := protected.Group("/wizard")
	{
		wizard.GET("", handler.Enter)
		wizard.POST("/role", handler.SelectRole)
		wizard.POST("/client", handler.SubmitClient)
		wizard.POST("/professional", handler.SubmitProfessional)
		wizard.POST("/switch", handler.StartRoleSwitch)
		wizard.DELETE("/switch", handler.CancelRoleSwitch)
	}
}

// identityFrom reads the identity placed in the context by the auth middleware.
func identityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(string(domain.KeyIdentity))
	if !ok {
		return nil
	}
	ident, _ := v.(*domain.Identity)
	return ident
}

type SelectRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=client professional"`
}

type RoleSwitchRequest struct {
	To string `json:"to" binding:"required,oneof=client professional"`
}

func (h *WizardHandler) Enter(c *gin.Context) {
	preSelected := domain.Role(c.Query("preselect"))
	if preSelected != "" && !preSelected.IsValid() {
		c.Error(apperror.BadRequest("Unknown role"))
		return
	}

	state, err := h.wizardUC.Enter(c.Request.Context(), middleware.SessionID(c), identityFrom(c), preSelected)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Wizard state", state)
}

func (h *WizardHandler) SelectRole(c *gin.Context) {
	var req SelectRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	state, err := h.wizardUC.SelectRole(c.Request.Context(), middleware.SessionID(c), identityFrom(c), domain.Role(req.Role))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Role selected", state)
}

func (h *WizardHandler) SubmitClient(c *gin.Context) {
	var form domain.ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	intent, err := h.wizardUC.SubmitClient(c.Request.Context(), middleware.SessionID(c), identityFrom(c), &form)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile saved", gin.H{"intent": intent})
}

func (h *WizardHandler) SubmitProfessional(c *gin.Context) {
	var form domain.ProfessionalForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	intent, err := h.wizardUC.SubmitProfessional(c.Request.Context(), middleware.SessionID(c), identityFrom(c), &form)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile saved", gin.H{"intent": intent})
}

func (h *WizardHandler) StartRoleSwitch(c *gin.Context) {
	var req RoleSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	intent, err := h.wizardUC.StartRoleSwitch(c.Request.Context(), middleware.SessionID(c), identityFrom(c), domain.Role(req.To))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Role switch started", gin.H{"intent": intent})
}

func (h *WizardHandler) CancelRoleSwitch(c *gin.Context) {
	if err := h.wizardUC.CancelRoleSwitch(c.Request.Context(), middleware.SessionID(c)); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Role switch cancelled", nil)
}
