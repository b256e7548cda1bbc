// Package handler binds HTTP requests to the service layer.
package handler

import "nimbus_chat_server/internal/service"

// Handlers aggregates all handler instances for route registration.
type Handlers struct {
	Thread *ThreadHandler
	Auth   *AuthHandler
}

// NewHandlers builds every handler from the service aggregate.
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Thread: NewThreadHandler(svc.Thread),
		Auth:   NewAuthHandler(svc.Auth),
	}
}
