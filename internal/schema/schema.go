package schema

import "fmt"

// Kind identifies one of the submission categories, each with its own
// column schema and store file.
type Kind string

const (
	KindEvaluation Kind = "evaluation"
	KindSuggestion Kind = "suggestion"
)

// DefaultRule describes what happens to a column when the payload does not
// carry its field.
type DefaultRule int

const (
	// DefaultEmpty writes the empty marker.
	DefaultEmpty DefaultRule = iota
	// DefaultRequired rejects the submission when the field is absent or empty.
	DefaultRequired
	// DefaultTimestamp writes the current time in RFC 3339.
	DefaultTimestamp
	// DefaultSentinelID writes a synthesized identifier embedding the current time.
	DefaultSentinelID
	// DefaultEmptyArray writes a serialized empty JSON array.
	DefaultEmptyArray
)

// Column maps one CSV column to its payload field.
type Column struct {
	// Name is the column name as written in the store header.
	Name string
	// Path is the dotted extraction path into the payload, e.g. "results.totalACB".
	Path string
	// Encode marks columns whose payload value is serialized to JSON text
	// rather than passed through as a scalar.
	Encode bool
	// Default is applied when the payload has no field at Path.
	Default DefaultRule
}

// Schema is the ordered column table for one submission kind.
type Schema struct {
	Kind     Kind
	FileName string
	Columns  []Column
}

// Header returns the column names in declaration order.
func (s *Schema) Header() []string {
	header := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		header[i] = col.Name
	}
	return header
}

// Evaluation is the schema for clinical evaluation submissions. Column
// order matches the store file header and must not change once data exists.
var Evaluation = &Schema{
	Kind:     KindEvaluation,
	FileName: "calculator_data.csv",
	Columns: []Column{
		{Name: "researchId", Path: "researchId", Default: DefaultSentinelID},
		{Name: "timestamp", Path: "timestamp", Default: DefaultTimestamp},
		{Name: "age", Path: "age"},
		{Name: "sex", Path: "sex"},
		{Name: "renalInputMethod", Path: "renalInputMethod"},
		{Name: "serumCreatinine", Path: "serumCreatinine"},
		{Name: "eGFR", Path: "eGFR"},
		{Name: "renalStatus", Path: "renalStatus"},
		{Name: "fallsHistory", Path: "fallsHistory"},
		{Name: "knownMedicationsJson", Path: "knownMedications", Encode: true, Default: DefaultEmptyArray},
		{Name: "otherMedicationsJson", Path: "otherMedications", Encode: true, Default: DefaultEmptyArray},
		{Name: "totalACB", Path: "results.totalACB"},
		{Name: "beersAlertsCount", Path: "results.beersAlerts"},
		{Name: "stoppAlertsCount", Path: "results.stoppAlerts"},
	},
}

// Suggestion is the schema for free-text medication suggestions.
var Suggestion = &Schema{
	Kind:     KindSuggestion,
	FileName: "suggestions.csv",
	Columns: []Column{
		{Name: "timestamp", Path: "timestamp", Default: DefaultTimestamp},
		{Name: "medicationName", Path: "medicationName", Default: DefaultRequired},
		{Name: "details", Path: "details", Default: DefaultRequired},
		{Name: "email", Path: "email"},
	},
}

// ForKind resolves a kind to its schema.
func ForKind(kind Kind) (*Schema, error) {
	switch kind {
	case KindEvaluation:
		return Evaluation, nil
	case KindSuggestion:
		return Suggestion, nil
	default:
		return nil, fmt.Errorf("unknown submission kind: %q", kind)
	}
}
