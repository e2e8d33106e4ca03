package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/internal/service"
	"suraksha.com/preparedness/pkg/apperror"
	"suraksha.com/preparedness/pkg/response"
	"suraksha.com/preparedness/pkg/validator"
)

type EmergencyHandler struct {
	emergencyService service.EmergencyService
}

func NewEmergencyHandler(emergencyService service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{emergencyService: emergencyService}
}

func (h *EmergencyHandler) PublicContacts(c *gin.Context) {
	contacts, err := h.emergencyService.ListPublicContacts(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contacts})
}

func (h *EmergencyHandler) ListContacts(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") != "false"
	offset, limit := pagination(c, 50)

	contacts, err := h.emergencyService.ListContacts(c.Request.Context(), activeOnly, offset, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contacts})
}

func (h *EmergencyHandler) CreateContact(c *gin.Context) {
	var input service.CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	contact, err := h.emergencyService.CreateContact(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

func (h *EmergencyHandler) ListAlerts(c *gin.Context) {
	query := service.AlertQuery{
		ActiveOnly: c.DefaultQuery("active_only", "true") != "false",
	}
	query.Offset, query.Limit = pagination(c, 50)

	if v := c.Query("severity"); v != "" {
		severity := model.AlertSeverity(v)
		query.Severity = &severity
	}
	if v := c.Query("alert_type"); v != "" {
		alertType := model.AlertType(v)
		query.AlertType = &alertType
	}

	alerts, err := h.emergencyService.ListAlerts(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

func (h *EmergencyHandler) CreateAlert(c *gin.Context) {
	var input service.CreateAlertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	alert, err := h.emergencyService.CreateAlert(c.Request.Context(), input, caller.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alert)
}

func (h *EmergencyHandler) DeactivateAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	if err := h.emergencyService.DeactivateAlert(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Alert deactivated successfully",
		"data":    gin.H{"alert_id": id},
	})
}

func (h *EmergencyHandler) TriggerSOS(c *gin.Context) {
	var input service.TriggerSOSInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	request, err := h.emergencyService.TriggerSOS(c.Request.Context(), caller, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *EmergencyHandler) ListSOS(c *gin.Context) {
	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var status *model.SOSStatus
	switch v := c.Query("status"); v {
	case "":
	case "active", "resolved", "cancelled":
		s := model.SOSStatus(v)
		status = &s
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: active resolved cancelled"})
		return
	}

	offset, limit := pagination(c, 50)

	requests, err := h.emergencyService.ListSOS(c.Request.Context(), caller, status, offset, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *EmergencyHandler) ResolveSOS(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var body struct {
		Notes *string `json:"notes"`
	}
	// Body is optional; ignore bind errors from an empty body
	_ = c.ShouldBindJSON(&body)

	if err := h.emergencyService.ResolveSOS(c.Request.Context(), id, caller.ID, body.Notes); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SOS request resolved successfully",
		"data":    gin.H{"sos_id": id},
	})
}
