package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OperationFunc is the handler shape instrumented by ContextMiddleware.
type OperationFunc func(ctx context.Context, params interface{}) (interface{}, error)

// ContextMiddleware adds request context to dispatched operations
type ContextMiddleware struct {
	logger Logger
}

// NewContextMiddleware creates a new context middleware
func NewContextMiddleware(logger Logger) *ContextMiddleware {
	return &ContextMiddleware{logger: logger}
}

// WrapHandler wraps an operation with request-id propagation and
// start/finish logging
func (m *ContextMiddleware) WrapHandler(operation string, handler OperationFunc) OperationFunc {
	return func(ctx context.Context, params interface{}) (interface{}, error) {
		requestID := RequestIDFromContext(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
			ctx = ContextWithRequestID(ctx, requestID)
		}

		logger := m.logger.WithFields(
			String("request_id", requestID),
			String("operation", operation),
		)

		logger.Debug("Operation started", Any("params", params))

		start := time.Now()
		result, err := handler(ctx, params)
		duration := time.Since(start)

		if err != nil {
			logger.WithError(err).WithFields(
				Duration("duration", duration),
			).Error("Operation failed")
		} else {
			logger.WithFields(
				Duration("duration", duration),
			).Debug("Operation completed")
		}

		return result, err
	}
}

// RequestIDGenerator generates unique request IDs
type RequestIDGenerator interface {
	Generate() string
}

// UUIDGenerator generates UUID request IDs
type UUIDGenerator struct{}

// Generate generates a new UUID
func (g *UUIDGenerator) Generate() string {
	return uuid.New().String()
}

// PrefixedGenerator generates prefixed request IDs
type PrefixedGenerator struct {
	Prefix    string
	Generator RequestIDGenerator
}

// Generate generates a new prefixed ID
func (g *PrefixedGenerator) Generate() string {
	base := g.Generator.Generate()
	return fmt.Sprintf("%s-%s", g.Prefix, base)
}

// EnsureRequestID returns ctx carrying a request id, minting one when the
// caller supplied none, along with the id in effect.
func EnsureRequestID(ctx context.Context, generator RequestIDGenerator) (context.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	if generator == nil {
		generator = &UUIDGenerator{}
	}
	id := generator.Generate()
	return ContextWithRequestID(ctx, id), id
}
