// Package net provides utilities for working with request contexts
package net

import (
	"context"

	"piiredact/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyDocumentID ctxKey = "doc_id"

// WithRequest annotates context with the request id for chi and the logger
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	// set chi RequestID so chimw.GetReqID can retrieve it
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// WithDocument annotates context with the id of the document being processed
func WithDocument(ctx context.Context, docID string) context.Context {
	if docID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, keyDocumentID, docID)
	return logger.WithDocument(ctx, docID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// DocumentID returns the document id on the context if present
func DocumentID(ctx context.Context) string {
	if v, ok := ctx.Value(keyDocumentID).(string); ok {
		return v
	}
	return ""
}
