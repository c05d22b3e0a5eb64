package engine

import (
	"context"

	"linkmill/internal/core/catalog"
)

// Collaborator ports the engine consumes but never implements.
// The pieces that produce content and perform the outbound publish live in
// other services; the engine only schedules and records

// ContentGenerator produces the body to publish for one campaign/platform pair
type ContentGenerator interface {
	Generate(ctx context.Context, campaignID string, platform catalog.Entry) (string, error)
}

// SubmissionExecutor performs the outbound publish and returns the public URL
type SubmissionExecutor interface {
	Submit(ctx context.Context, platform catalog.Entry, content string) (publishedURL string, err error)
}
