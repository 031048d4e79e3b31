package handler

import (
	"net/http"

	"studiodesk/internal/ledger/service"
	httputil "studiodesk/pkg/http"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/middleware"
	"studiodesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MemberHandler struct {
	service service.LedgerService
	log     *logger.Logger
}

func NewMemberHandler(service service.LedgerService, log *logger.Logger) *MemberHandler {
	return &MemberHandler{
		service: service,
		log:     log,
	}
}

func (h *MemberHandler) Balances(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	member, err := h.service.Balances(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, member)
}

func (h *MemberHandler) Ledger(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, total, err := h.service.Journal(r.Context(), actor, ps.ByName("id"), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, entries, total, limit, offset)
}

func (h *MemberHandler) Credit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.CreditRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.Grant(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.log.Warn("Ticket grant rejected", "member_id", ps.ByName("id"), "actor_id", actor.ID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, entry)
}

func (h *MemberHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/members/:id/balances", h.Balances)
	router.GET("/api/v1/members/:id/ledger", h.Ledger)
	router.POST("/api/v1/members/:id/credits", h.Credit)
}
