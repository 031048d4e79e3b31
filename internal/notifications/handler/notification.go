package handler

import (
	"context"
	"net/http"

	"studiodesk/internal/notifications/service"
	httputil "studiodesk/pkg/http"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/middleware"
	"studiodesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	mailbox    *service.Mailbox
	dispatcher *service.Dispatcher
	log        *logger.Logger
}

func NewNotificationHandler(mailbox *service.Mailbox, dispatcher *service.Dispatcher, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		mailbox:    mailbox,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	items, total, err := h.mailbox.List(r.Context(), actor, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, items, total, limit, offset)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.mark(w, r, ps, h.mailbox.MarkRead)
}

func (h *NotificationHandler) MarkDeleted(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.mark(w, r, ps, h.mailbox.MarkDeleted)
}

func (h *NotificationHandler) Archive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.mark(w, r, ps, h.mailbox.Archive)
}

func (h *NotificationHandler) mark(w http.ResponseWriter, r *http.Request, ps httprouter.Params, fn func(context.Context, model.Actor, string) error) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := fn(r.Context(), actor, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequestActor(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.NoticeCreate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	n, err := h.dispatcher.Broadcast(r.Context(), actor, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, n)
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.List)
	router.POST("/api/v1/notifications/id/:id/read", h.MarkRead)
	router.POST("/api/v1/notifications/id/:id/delete", h.MarkDeleted)
	router.POST("/api/v1/notifications/id/:id/archive", h.Archive)
	router.POST("/api/v1/notices", h.Broadcast)
}
