package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-service/internal/service"
)

// Response messages
const (
	MsgNotFound      = "Credit information not found"
	MsgDuplicateName = "Entry with this company name already exists"
	MsgDuplicateID   = "Entry with this ID already exists"
	MsgDeleted       = "Credit information deleted successfully"
	MsgInternal      = "Internal server error"
)

// maxBodyBytes bounds request bodies accepted by mutating handlers
const maxBodyBytes = 1 << 20

type Handler struct {
	svc       *service.Service
	validator *validator.Validate
	log       *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{
		svc:       svc,
		validator: newValidator(),
		log:       log,
	}
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.WithError(err).Error("failed to encode response")
	}
}

func (h *Handler) writeDetail(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, detailResponse{Detail: detail})
}

// writeServiceError maps service errors onto HTTP statuses
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeDetail(w, http.StatusNotFound, MsgNotFound)
	case errors.Is(err, service.ErrDuplicateName):
		h.writeDetail(w, http.StatusBadRequest, MsgDuplicateName)
	case errors.Is(err, service.ErrDuplicateID):
		h.writeDetail(w, http.StatusBadRequest, MsgDuplicateID)
	default:
		h.writeDetail(w, http.StatusInternalServerError, MsgInternal)
	}
}
