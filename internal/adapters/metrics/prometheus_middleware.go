package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/crow-router/crow/internal/application/mediator"
)

// PrometheusMiddleware measures every request passing through the mediator.
// With a nil collector requests pass straight through.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		done := collector.begin(requestName(request))
		started := time.Now()
		response, err := next(ctx, request)
		done(time.Since(started).Seconds(), err)

		return response, err
	}
}

// requestName strips package and pointer: *commands.FindRouteCommand is FindRouteCommand
func requestName(request mediator.Request) string {
	t := reflect.TypeOf(request)
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	s := t.String()
	return s[strings.LastIndex(s, ".")+1:]
}
