package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/mailroom-backend/internal/model"
	"github.com/stemsi/mailroom-backend/internal/response"
	"github.com/stemsi/mailroom-backend/internal/service"
	"github.com/stemsi/mailroom-backend/internal/validator"
)

// ClassHandler handles class management (CRUD). Any authenticated user may use it.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// GET /api/classes/
// Lists all classes without pagination.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrClassesFailed)
		return
	}

	response.Success(c, http.StatusOK, classes)
}

// CreateClass godoc
// POST /api/classes/
// Creates a new class with a unique name.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		if fields.Failed("payload") {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrMissingName)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingName):
			response.Fail(c, http.StatusBadRequest, response.ErrMissingName)
		case errors.Is(err, service.ErrDuplicateClass):
			response.Fail(c, http.StatusBadRequest, response.ErrClassExists)
		default:
			_ = c.Error(err)
			response.Fail(c, http.StatusInternalServerError, response.ErrClassCreate)
		}
		return
	}

	response.Success(c, http.StatusOK, class)
}

// UpdateClass godoc
// PUT /api/classes/:id
// Renames a class. An absent or empty name keeps the current one.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateClassRequest
	if fields := validator.BindOptional(c, &req); fields != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
		case errors.Is(err, service.ErrDuplicateClass):
			response.Fail(c, http.StatusBadRequest, response.ErrClassExists)
		default:
			_ = c.Error(err)
			response.Fail(c, http.StatusInternalServerError, response.ErrClassUpdate)
		}
		return
	}

	response.Success(c, http.StatusOK, class)
}

// DeleteClass godoc
// DELETE /api/classes/:id
// Deletes a class by ID. Users assigned to it are left untouched.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
			return
		}
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrClassDelete)
		return
	}

	response.OK(c)
}
