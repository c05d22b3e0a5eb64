// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyCampaignID ctxKey = "campaign_id"

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, campaignID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if campaignID != "" {
		ctx = context.WithValue(ctx, keyCampaignID, campaignID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// CampaignID returns the campaign id on the context if present
func CampaignID(ctx context.Context) string {
	if v, ok := ctx.Value(keyCampaignID).(string); ok {
		return v
	}
	return ""
}
