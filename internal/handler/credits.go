package handler

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Dan9191/credit-service/internal/export"
	"github.com/Dan9191/credit-service/internal/models"
)

func pathKey(r *http.Request) models.Key {
	return models.ParseKey(mux.Vars(r)["key"])
}

// ListCredits returns every credit record
func (h *Handler) ListCredits(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListCredits(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// GetCredit returns one record addressed by id or company name
func (h *Handler) GetCredit(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetCredit(r.Context(), pathKey(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// CreateCredit stores a fully specified record
func (h *Handler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	var in models.CreditInput
	if issues := h.decodeBody(w, r, &in); issues != nil {
		h.writeValidation(w, issues)
		return
	}
	rec, err := h.svc.CreateCredit(r.Context(), in.Record())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// UpdateCredit applies a partial record to an existing one
func (h *Handler) UpdateCredit(w http.ResponseWriter, r *http.Request) {
	var patch models.CreditPatch
	if issues := h.decodeBody(w, r, &patch); issues != nil {
		h.writeValidation(w, issues)
		return
	}
	rec, err := h.svc.UpdateCredit(r.Context(), pathKey(r), patch)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// DeleteCredit removes one record
func (h *Handler) DeleteCredit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCredit(r.Context(), pathKey(r)); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: MsgDeleted})
}

// ExportCredits returns every record as an XML document
func (h *Handler) ExportCredits(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListCredits(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXML(&buf, records); err != nil {
		h.log.WithError(err).Error("failed to render credits export")
		h.writeDetail(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Health reports whether the store is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Healthy(r.Context()); err != nil {
		h.log.WithError(err).Warn("health check failed")
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
