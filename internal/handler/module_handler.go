package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"suraksha.com/preparedness/internal/service"
	"suraksha.com/preparedness/pkg/apperror"
	"suraksha.com/preparedness/pkg/response"
	"suraksha.com/preparedness/pkg/validator"
)

type ModuleHandler struct {
	moduleService service.ModuleService
}

func NewModuleHandler(moduleService service.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleService: moduleService}
}

func (h *ModuleHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") != "false"
	offset, limit := pagination(c, 100)

	modules, err := h.moduleService.List(c.Request.Context(), activeOnly, offset, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": modules})
}

func (h *ModuleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	module, err := h.moduleService.Get(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, module)
}

func (h *ModuleHandler) Create(c *gin.Context) {
	var input service.CreateModuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	module, err := h.moduleService.Create(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, module)
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	if err := h.moduleService.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Module deleted successfully",
		"data":    gin.H{"module_id": id},
	})
}

func (h *ModuleHandler) Questions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	phase := c.Query("phase")
	switch phase {
	case "", "before", "during", "after":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "phase must be one of: before during after"})
		return
	}

	questions, err := h.moduleService.Questions(c.Request.Context(), id, phase)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": questions})
}

func (h *ModuleHandler) GetProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	progress, err := h.moduleService.GetProgress(c.Request.Context(), userID, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *ModuleHandler) UpdateProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input service.UpdateProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	progress, err := h.moduleService.UpdateProgress(c.Request.Context(), userID, id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *ModuleHandler) UserProgress(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	records, err := h.moduleService.UserProgress(c.Request.Context(), caller, targetID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

func pagination(c *gin.Context, defaultLimit int) (int, int) {
	offset := 0
	if v, err := strconv.Atoi(c.DefaultQuery("skip", "0")); err == nil && v >= 0 {
		offset = v
	}

	limit := defaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v >= 1 && v <= 100 {
		limit = v
	}

	return offset, limit
}
