// Package contracts holds the small interfaces shared between services and
// the application shell.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler mounts a group of routes.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// RouteFunc lets a plain function act as a Handler.
type RouteFunc func(*httprouter.Router)

func (f RouteFunc) RegisterRoutes(router *httprouter.Router) {
	f(router)
}
