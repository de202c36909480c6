package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/blog-service/services"
	"github.com/rs/zerolog/log"
)

type referenceHandler struct {
	responder Responder
	blogs     *services.BlogService
}

func newReferenceHandler(blogs *services.BlogService) referenceHandler {
	logger := log.With().Str("handlerName", "referenceHandler").Logger()

	return referenceHandler{
		responder: NewResponder(logger),
		blogs:     blogs,
	}
}

func listAll[T any](responder Responder, find func(ctx context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := find(r.Context())
		if err != nil {
			responder.WriteError(w, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		responder.WriteJSON(w, items)
	}
}

func (h referenceHandler) listArchives() http.HandlerFunc {
	return listAll(h.responder, h.blogs.Archives)
}

func (h referenceHandler) listCategories() http.HandlerFunc {
	return listAll(h.responder, h.blogs.Categories)
}

func (h referenceHandler) listTags() http.HandlerFunc {
	return listAll(h.responder, h.blogs.Tags)
}

type healthHandler struct {
	responder   Responder
	startupTime time.Time
}

func newHealthHandler(startupTime time.Time) healthHandler {
	return healthHandler{
		responder:   NewResponder(log.With().Str("handlerName", "healthHandler").Logger()),
		startupTime: startupTime,
	}
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"status":        "ok",
			"startupTime":   h.startupTime,
			"uptimeSeconds": int(time.Since(h.startupTime).Seconds()),
		})
	}
}
