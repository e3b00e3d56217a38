package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/repository"
	"virtual-vr-console/internal/service/admin"
	"virtual-vr-console/internal/service/console"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 200
	msgNotFound         = "Usuario no encontrado"
	msgLoadFailed       = console.LoadErrorMessage
)

// AdminHandler serves the admin console REST endpoints.
type AdminHandler struct {
	logger  logx.Logger
	console consoleUsecase
	admin   adminUsecase
	audit   auditHistory
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(logger logx.Logger, c consoleUsecase, a adminUsecase, history auditHistory) *AdminHandler {
	return &AdminHandler{logger: loggerOrNop(logger), console: c, admin: a, audit: history}
}

type activeRequest struct {
	Active *bool `json:"active"`
}

type preferentialRequest struct {
	Preferential *bool `json:"preferential"`
}

type historyResponse struct {
	Items []repository.AuditEntry `json:"items"`
}

// ListCouriers handles GET /api/admin/couriers.
func (h *AdminHandler) ListCouriers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := console.CourierFilter{Search: q.Get("search"), Status: q.Get("status"), VehicleType: q.Get("vehicleType")}

	items, stats, err := h.console.ListCouriers(r.Context(), f)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, console.CourierView{Items: items, Stats: stats})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("list couriers failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, msgLoadFailed)
	}
}

// ListCustomers handles GET /api/admin/customers.
func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := console.CustomerFilter{Search: q.Get("search"), Status: q.Get("status"), Preferential: q.Get("preferential")}

	items, stats, err := h.console.ListCustomers(r.Context(), f)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, console.CustomerView{Items: items, Stats: stats})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("list customers failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, msgLoadFailed)
	}
}

// GetCourier handles GET /api/admin/couriers/{id}.
func (h *AdminHandler) GetCourier(w http.ResponseWriter, r *http.Request) {
	c, err := h.admin.GetCourier(r.Context(), chi.URLParam(r, "id"))
	h.detail(w, r, c, err)
}

// GetCustomer handles GET /api/admin/customers/{id}.
func (h *AdminHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.admin.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	h.detail(w, r, c, err)
}

// ApproveCourier handles POST /api/admin/couriers/{id}/approve.
func (h *AdminHandler) ApproveCourier(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	c, err := h.admin.ApproveCourier(r.Context(), s.UID, chi.URLParam(r, "id"))
	h.mutated(w, r, domain.ActionApprove, c, err)
}

// RejectCourier handles POST /api/admin/couriers/{id}/reject.
func (h *AdminHandler) RejectCourier(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	c, err := h.admin.RejectCourier(r.Context(), s.UID, chi.URLParam(r, "id"))
	h.mutated(w, r, domain.ActionReject, c, err)
}

// SetCourierActive handles PUT /api/admin/couriers/{id}/active.
func (h *AdminHandler) SetCourierActive(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	var req activeRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Active == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "active is required")
		return
	}
	c, err := h.admin.SetCourierActive(r.Context(), s.UID, chi.URLParam(r, "id"), *req.Active)
	h.mutated(w, r, domain.ActionSetActive, c, err)
}

// UpdateCourier handles PATCH /api/admin/couriers/{id}.
func (h *AdminHandler) UpdateCourier(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	var patch map[string]any
	if ok := decodeJSON(h.logger, w, r, &patch); !ok {
		return
	}
	c, err := h.admin.UpdateCourier(r.Context(), s.UID, chi.URLParam(r, "id"), patch)
	h.mutated(w, r, domain.ActionUpdate, c, err)
}

// SetCustomerActive handles PUT /api/admin/customers/{id}/active.
func (h *AdminHandler) SetCustomerActive(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	var req activeRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Active == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "active is required")
		return
	}
	c, err := h.admin.SetCustomerActive(r.Context(), s.UID, chi.URLParam(r, "id"), *req.Active)
	h.mutated(w, r, domain.ActionSetActive, c, err)
}

// SetCustomerPreferential handles PUT /api/admin/customers/{id}/preferential.
func (h *AdminHandler) SetCustomerPreferential(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	var req preferentialRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Preferential == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "preferential is required")
		return
	}
	c, err := h.admin.SetCustomerPreferential(r.Context(), s.UID, chi.URLParam(r, "id"), *req.Preferential)
	h.mutated(w, r, domain.ActionSetPreferential, c, err)
}

// UpdateCustomer handles PATCH /api/admin/customers/{id}.
func (h *AdminHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	var patch map[string]any
	if ok := decodeJSON(h.logger, w, r, &patch); !ok {
		return
	}
	c, err := h.admin.UpdateCustomer(r.Context(), s.UID, chi.URLParam(r, "id"), patch)
	h.mutated(w, r, domain.ActionUpdate, c, err)
}

// CourierHistory handles GET /api/admin/couriers/{id}/history.
func (h *AdminHandler) CourierHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, domain.RoleDelivery)
}

// CustomerHistory handles GET /api/admin/customers/{id}/history.
func (h *AdminHandler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, domain.RoleUser)
}

func (h *AdminHandler) history(w http.ResponseWriter, r *http.Request, kind domain.Role) {
	limit, err := queryInt(r, "limit", historyDefaultLimit, historyMaxLimit)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.audit.ListByTarget(r.Context(), kind, chi.URLParam(r, "id"), limit)
	if err != nil {
		h.logger.Error("audit history failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, msgLoadFailed)
		return
	}
	if items == nil {
		items = []repository.AuditEntry{}
	}
	writeJSON(h.logger, w, r, http.StatusOK, historyResponse{Items: items})
}

func (h *AdminHandler) detail(w http.ResponseWriter, r *http.Request, v any, err error) {
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, v)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, msgNotFound)
	default:
		h.logger.Error("detail fetch failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, msgLoadFailed)
	}
}

// mutated answers a mutation with the re-fetched document or the fixed alert.
func (h *AdminHandler) mutated(w http.ResponseWriter, r *http.Request, action domain.ModerationAction, v any, err error) {
	if err == nil {
		writeJSON(h.logger, w, r, http.StatusOK, v)
		return
	}
	if ve, ok := apperr.AsValidation(err); ok {
		writeFieldErrors(h.logger, w, r, ve)
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, msgNotFound)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, admin.Alert(action))
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, admin.Alert(action))
	}
}
