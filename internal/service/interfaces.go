package service

import (
	"context"

	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/schema"
)

// SubmissionServicer defines the interface for submission processing
type SubmissionServicer interface {
	Submit(ctx context.Context, kind schema.Kind, payload map[string]any) error
}
