package logger

import "context"

type scopeKey struct{}

// scope is the request state a context carries: the logger handlers should
// use and the id of the request being served. log already has the request
// id attached; base is the logger it was derived from.
type scope struct {
	base      Logger
	log       Logger
	requestID string
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func (s scope) attach() scope {
	s.log = s.base
	if s.base != nil && s.requestID != "" {
		s.log = s.base.With("request_id", s.requestID)
	}
	return s
}

// WithLogger returns a copy of ctx carrying l. The request id of ctx, if
// any, is attached to l.
func WithLogger(ctx context.Context, l Logger) context.Context {
	s := scopeOf(ctx)
	s.base = l
	return context.WithValue(ctx, scopeKey{}, s.attach())
}

// WithRequestID returns a copy of ctx carrying id. A later FromContext
// logs it as request_id exactly once, whichever of WithLogger and
// WithRequestID ran first.
func WithRequestID(ctx context.Context, id string) context.Context {
	s := scopeOf(ctx)
	s.requestID = id
	return context.WithValue(ctx, scopeKey{}, s.attach())
}

// RequestIDFromContext returns the request id of ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	return scopeOf(ctx).requestID
}

// FromContext returns the logger of ctx, falling back to Default.
func FromContext(ctx context.Context) Logger {
	s := scopeOf(ctx)
	if s.log != nil {
		return s.log
	}
	if s.requestID != "" {
		return Default().With("request_id", s.requestID)
	}
	return Default()
}
