package domain

// CanonicalField names a semantic column the mapper looks for
type CanonicalField string

const (
	FieldProduct  CanonicalField = "produto"
	FieldBrand    CanonicalField = "marca"
	FieldQuantity CanonicalField = "quantidade"
	FieldValue    CanonicalField = "valor"
)

// CanonicalFields lists the targets in detection order
var CanonicalFields = []CanonicalField{FieldProduct, FieldBrand, FieldQuantity, FieldValue}

// RequiredFields must be mapped for an ingestion run to proceed
var RequiredFields = []CanonicalField{FieldProduct, FieldQuantity, FieldValue}

// ColumnMapping maps a canonical field to the source header it matched.
// It is built once per ingestion run and only read afterwards.
type ColumnMapping map[CanonicalField]string

// Header returns the source header for field and whether it is mapped
func (m ColumnMapping) Header(field CanonicalField) (string, bool) {
	h, ok := m[field]
	return h, ok
}

// Missing returns the required fields that have no mapping, in order
func (m ColumnMapping) Missing() []CanonicalField {
	var missing []CanonicalField
	for _, f := range RequiredFields {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Clone returns an independent copy of the mapping
func (m ColumnMapping) Clone() ColumnMapping {
	out := make(ColumnMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
