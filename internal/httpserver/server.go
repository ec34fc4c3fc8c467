// Package httpserver exposes the engine's query and command operations to
// a local UI over HTTP, plus a server-sent event stream of captures.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/HugoSbl/clipster/internal/clipboard"
	"github.com/HugoSbl/clipster/internal/logger"
	"github.com/HugoSbl/clipster/internal/storage"
)

type Server struct {
	http   *http.Server
	broker *broker
	log    logger.Logger
}

func New(addr string, repo *storage.Repository, monitor *clipboard.Monitor, log logger.Logger) *Server {
	h := &handlers{repo: repo, monitor: monitor, log: log}
	b := newBroker(log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", h.listItems)
		r.Delete("/items", h.clearHistory)
		r.Get("/items/search", h.searchItems)
		r.Get("/items/{id}", h.getItem)
		r.Delete("/items/{id}", h.deleteItem)
		r.Post("/items/{id}/favorite", h.toggleFavorite)
		r.Put("/items/{id}/pinboard", h.setItemPinboard)
		r.Post("/items/{id}/copy", h.copyItem)

		r.Get("/pinboards", h.listPinboards)
		r.Post("/pinboards", h.createPinboard)
		r.Put("/pinboards/reorder", h.reorderPinboards)
		r.Get("/pinboards/{id}/items", h.listPinboardItems)
		r.Put("/pinboards/{id}", h.updatePinboard)
		r.Delete("/pinboards/{id}", h.deletePinboard)

		r.Get("/settings/{key}", h.getSetting)
		r.Put("/settings/{key}", h.setSetting)

		r.Get("/events", b.serveSSE)
	})

	s := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{http: s, broker: b, log: log}
}

// Start runs the HTTP server and fans monitor events out to SSE
// subscribers. Blocks until the listener fails or Stop is called.
func (s *Server) Start(events <-chan clipboard.Event) error {
	go s.broker.run(events)

	s.log.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	s.broker.close()
	return s.http.Shutdown(ctx)
}
