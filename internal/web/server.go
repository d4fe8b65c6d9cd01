// Package web serves a read-only browser mirror of the conversation.
package web

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"voxchat/internal/transcript"
)

// Source supplies the conversation to render.
type Source interface {
	LoadAll() []transcript.Entry
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server renders the persisted transcript on the index page and streams
// new entries to open pages over a websocket.
type Server struct {
	echo   *echo.Echo
	source Source
	log    *slog.Logger

	mu      sync.Mutex
	viewers map[string]*websocket.Conn
}

// New constructs the mirror server with routes.
func New(source Source, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		source:  source,
		log:     logger,
		viewers: make(map[string]*websocket.Conn),
	}
	e.GET("/", s.handleIndex)
	e.GET("/ws", s.handleSocket)
	return s
}

// Start listens on addr and blocks until shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleIndex(c echo.Context) error {
	var buf bytes.Buffer
	data := struct{ Entries []transcript.Entry }{Entries: s.source.LoadAll()}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.viewers[id] = conn
	s.mu.Unlock()
	s.log.Info("mirror viewer connected", "id", id)

	// Reads only detect the page going away.
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.viewers, id)
			s.mu.Unlock()
			conn.Close()
			s.log.Info("mirror viewer disconnected", "id", id)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

// Publish pushes a new entry to every open page.
func (s *Server) Publish(e transcript.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, conn := range s.viewers {
		if err := conn.WriteJSON(e); err != nil {
			conn.Close()
			delete(s.viewers, id)
		}
	}
}

func (s *Server) viewerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}
