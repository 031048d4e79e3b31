package handler

import (
	"net/http"
	"strconv"
	"time"

	"studiodesk/internal/reservations/service"
	apperrors "studiodesk/pkg/errors"
	httputil "studiodesk/pkg/http"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/middleware"
	"studiodesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	loc     *time.Location
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, loc *time.Location, log *logger.Logger) *ReservationHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationHandler{
		service: service,
		loc:     loc,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.ReservationCreate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservation, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, reservation)
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservation, err := h.service.Get(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

// List accepts member_id, resource_id, kind, status, from and to (inclusive
// YYYY-MM-DD dates) and include_hidden.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservations, total, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reservations, total, filter.Limit, filter.Offset)
}

func (h *ReservationHandler) parseFilter(r *http.Request) (model.ReservationFilter, error) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		return model.ReservationFilter{}, err
	}
	from, err := httputil.ExtractDate(r, "from", h.loc)
	if err != nil {
		return model.ReservationFilter{}, err
	}
	to, err := httputil.ExtractDate(r, "to", h.loc)
	if err != nil {
		return model.ReservationFilter{}, err
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}

	query := r.URL.Query()
	return model.ReservationFilter{
		MemberID:      query.Get("member_id"),
		ResourceID:    query.Get("resource_id"),
		Kind:          model.ReservationKind(query.Get("kind")),
		Status:        model.ReservationStatus(query.Get("status")),
		From:          from,
		To:            to,
		IncludeHidden: httputil.ExtractBool(r, "include_hidden"),
		Limit:         limit,
		Offset:        offset,
	}, nil
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var update model.StatusUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservation, err := h.service.UpdateStatus(r.Context(), actor, ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

// Cancel reads the confirming admin password from the X-Admin-Password
// header.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	password := r.Header.Get(middleware.AdminPasswordHeader)
	if err := h.service.Cancel(r.Context(), actor, ps.ByName("id"), password); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

type availabilityResponse struct {
	ResourceID      string                `json:"resource_id,omitempty"`
	Kind            model.ReservationKind `json:"kind"`
	Start           time.Time             `json:"start"`
	DurationMinutes int                   `json:"duration_minutes"`
	Available       bool                  `json:"available"`
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("start must be an RFC3339 timestamp"))
		return
	}
	duration, err := strconv.Atoi(query.Get("duration_minutes"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("duration_minutes must be an integer"))
		return
	}

	q := model.AvailabilityQuery{
		ResourceID:      query.Get("resource_id"),
		Kind:            model.ReservationKind(query.Get("kind")),
		Start:           start,
		DurationMinutes: duration,
		MemberID:        query.Get("member_id"),
	}
	available, err := h.service.IsAvailable(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, availabilityResponse{
		ResourceID:      q.ResourceID,
		Kind:            q.Kind,
		Start:           q.Start,
		DurationMinutes: q.DurationMinutes,
		Available:       available,
	})
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id/status", h.UpdateStatus)
	router.DELETE("/api/v1/reservations/id/:id", h.Cancel)
	router.GET("/api/v1/availability", h.Availability)
}
