package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/beetagged/contacts-api/internal/dto"
	"github.com/beetagged/contacts-api/internal/service"
)

// ContactsHandler exposes read endpoints over the stored contacts.
type ContactsHandler struct {
	contactsService *service.ContactsService
}

// NewContactsHandler constructs a ContactsHandler.
func NewContactsHandler(contactsService *service.ContactsService) *ContactsHandler {
	return &ContactsHandler{contactsService: contactsService}
}

// List handles GET /contacts requests, scoped to the authenticated user.
func (h *ContactsHandler) List(c echo.Context) error {
	filter := buildContactFilter(c)
	filter.OwnerID = ownerIDFromContext(c)

	contacts, err := h.contactsService.ListContacts(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list contacts")
	}

	return Success(c, http.StatusOK, "contacts retrieved", contacts)
}

// ListAdmin handles GET /admin/contacts requests across all owners.
func (h *ContactsHandler) ListAdmin(c echo.Context) error {
	filter := buildContactFilter(c)

	contacts, err := h.contactsService.ListContacts(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list contacts")
	}

	return Success(c, http.StatusOK, "contacts retrieved", contacts)
}

func buildContactFilter(c echo.Context) dto.ContactFilter {
	filter := dto.ContactFilter{
		Q:       c.QueryParam("q"),
		Source:  c.QueryParam("source"),
		Company: c.QueryParam("company"),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
		filter.PerPage = perPage
	}
	return filter
}
