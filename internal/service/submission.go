package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/schema"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/store"
)

// ErrValidation reports that a structurally valid payload is missing a
// domain-required field. The caller must fix the request before retrying.
var ErrValidation = errors.New("validation error")

// sentinelIDPrefix marks a researchId synthesized because the caller
// omitted one. The current timestamp is appended so rows stay
// distinguishable.
const sentinelIDPrefix = "MISSING_ID_"

// SubmissionService normalizes submission payloads against their kind's
// schema and appends them to the kind's record store.
type SubmissionService struct {
	stores map[schema.Kind]store.RecordStore
	log    *zap.Logger
}

// NewSubmissionService creates a submission service over the given
// per-kind record stores.
func NewSubmissionService(stores map[schema.Kind]store.RecordStore, log *zap.Logger) *SubmissionService {
	return &SubmissionService{
		stores: stores,
		log:    log,
	}
}

// Submit validates and normalizes a payload against the kind's schema and
// appends one row to the kind's store. The returned error wraps
// ErrValidation for missing required fields and store.ErrUnavailable when
// the store cannot be created or found.
func (s *SubmissionService) Submit(ctx context.Context, kind schema.Kind, payload map[string]any) error {
	sch, err := schema.ForKind(kind)
	if err != nil {
		return err
	}

	recordStore, ok := s.stores[kind]
	if !ok {
		return fmt.Errorf("no store configured for kind %q", kind)
	}

	// Store readiness is best-effort at this point: a failure is logged and
	// the append below surfaces the real error.
	if err := recordStore.Ensure(ctx); err != nil {
		s.log.Warn("Failed to ensure record store",
			zap.String("kind", string(kind)),
			zap.String("path", recordStore.Path()),
			zap.Error(err))
	}

	row, err := buildRow(sch, payload)
	if err != nil {
		return err
	}

	if err := recordStore.Append(ctx, row); err != nil {
		return fmt.Errorf("failed to append %s record: %w", kind, err)
	}

	s.log.Info("Submission saved",
		zap.String("kind", string(kind)),
		zap.String("path", recordStore.Path()))

	return nil
}

// buildRow assembles one row in header column order, applying each
// column's default rule for absent fields and serializing nested values
// destined for JSON text columns.
func buildRow(sch *schema.Schema, payload map[string]any) ([]string, error) {
	// Required columns are checked up front so the error can name all of
	// them, matching the single combined reason the API reports.
	var requiredNames []string
	violated := false
	for _, col := range sch.Columns {
		if col.Default != schema.DefaultRequired {
			continue
		}
		requiredNames = append(requiredNames, col.Name)
		val, ok := lookupField(payload, col.Path)
		if !ok || val == nil || val == "" {
			violated = true
		}
	}
	if violated {
		return nil, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(requiredNames, " or "))
	}

	now := time.Now().Format(time.RFC3339)

	row := make([]string, 0, len(sch.Columns))
	for _, col := range sch.Columns {
		val, ok := lookupField(payload, col.Path)
		if !ok {
			row = append(row, defaultValue(col.Default, now))
			continue
		}

		if col.Encode {
			encoded, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize %s: %w", col.Name, err)
			}
			row = append(row, string(encoded))
			continue
		}

		cell, err := formatScalar(val)
		if err != nil {
			return nil, fmt.Errorf("failed to format %s: %w", col.Name, err)
		}
		row = append(row, cell)
	}

	return row, nil
}

// defaultValue resolves a column's default rule. Required columns never
// reach here; they are rejected before row assembly.
func defaultValue(rule schema.DefaultRule, now string) string {
	switch rule {
	case schema.DefaultTimestamp:
		return now
	case schema.DefaultSentinelID:
		return sentinelIDPrefix + now
	case schema.DefaultEmptyArray:
		return "[]"
	default:
		return ""
	}
}

// lookupField walks a dotted path into the payload. A missing key or a
// non-object value partway through the path counts as absent.
func lookupField(payload map[string]any, path string) (any, bool) {
	var current any = payload
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// formatScalar renders a payload value for a scalar column. Values pass
// through verbatim; JSON numbers keep their plain decimal form and an
// explicit null becomes the empty marker.
func formatScalar(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	default:
		// Arrays or objects submitted into a scalar column are kept as
		// their JSON text rather than dropped.
		encoded, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}
