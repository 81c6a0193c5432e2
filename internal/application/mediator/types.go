package mediator

import "context"

// Request is a command (FindRoute) or a query (ListTargets, GetCoordinate, RouteHistory)
type Request interface{}

// Response is whatever the handler for a Request returns
type Response interface{}

// RequestHandler handles exactly one Request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to the handler chain
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware runs around every handler, outermost first
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)
