// internal/handlers/api_server.go
package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/quizcraft/arena/internal/arena"
)

// Server bundles the arena with the live observer feed so handlers share one
// wiring point.
type Server struct {
	Arena  *arena.Arena
	Feed   *EventFeed
	Logger *logrus.Logger
}

// NewServer wraps an arena for HTTP exposure.
func NewServer(a *arena.Arena, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		Arena:  a,
		Feed:   NewEventFeed(),
		Logger: logger,
	}
}
