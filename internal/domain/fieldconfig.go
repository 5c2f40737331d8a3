package domain

import "sort"

// FieldType enumerates the render variants a checkout form field can take.
// The server-supplied field configuration is treated as validated input data
// keyed on this tag, never as executable shape.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTel      FieldType = "tel"
	FieldSelect   FieldType = "select"
	FieldTextarea FieldType = "textarea"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldTel, FieldSelect, FieldTextarea:
		return true
	}
	return false
}

// FieldConfig describes one customer-facing form field. The configuration is
// injected at form construction rather than held as ambient state, so two
// sessions can run with different field sets.
type FieldConfig struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Order       int       `json:"order"`
}

// DefaultFieldConfigs returns the stock checkout field set, ordered for
// rendering.
func DefaultFieldConfigs() []FieldConfig {
	return []FieldConfig{
		{ID: "name", Label: "Full name", Type: FieldText, Required: true, Order: 1},
		{ID: "phone", Label: "Phone", Type: FieldTel, Required: true, Order: 2},
		{ID: "wilaya", Label: "Wilaya", Type: FieldSelect, Required: true, Order: 3},
		{ID: "commune", Label: "Commune", Type: FieldSelect, Required: true, Order: 4},
		{ID: "address", Label: "Address", Type: FieldText, Required: false, Order: 5},
		{ID: "notes", Label: "Notes", Type: FieldTextarea, Required: false, Order: 6},
	}
}

// ValidateFieldConfigs checks an injected field configuration for unknown
// types and duplicate IDs, and returns the fields sorted by render order.
func ValidateFieldConfigs(fields []FieldConfig) ([]FieldConfig, error) {
	seen := make(map[string]bool, len(fields))
	out := make([]FieldConfig, 0, len(fields))
	for _, f := range fields {
		if f.ID == "" {
			return nil, Invalid("fieldconfig.validate", "field id must not be empty")
		}
		if seen[f.ID] {
			return nil, Errorf(EINVALID, "fieldconfig.validate", "duplicate field id: %s", f.ID)
		}
		if !f.Type.Valid() {
			return nil, Errorf(EINVALID, "fieldconfig.validate", "unknown field type %q for field %s", f.Type, f.ID)
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}
