package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/beetagged/contacts-api/internal/middleware"
	"github.com/beetagged/contacts-api/internal/service"
)

// ImportHandler handles contact CSV ingestion.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler wires a handler backed by the import pipeline.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Upload handles POST /contacts/import requests.
func (h *ImportHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	ownerID := ownerIDFromContext(c)

	report, err := h.importService.ImportContacts(c.Request().Context(), file, ownerID)
	if err != nil {
		var validationErr service.ImportValidationError
		if errors.As(err, &validationErr) {
			return Error(c, http.StatusBadRequest, validationErr.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to process csv")
	}

	return Success(c, http.StatusOK, "contacts CSV processed", report)
}

// ownerIDFromContext resolves the authenticated user id, if any, set by the
// JWT middleware.
func ownerIDFromContext(c echo.Context) *uuid.UUID {
	raw, ok := c.Get(middleware.ContextKeyUserID).(string)
	if !ok || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
