package audit

// QuantityField names one of the bunch-count columns captured by the field
// scanner. The raw column values are kept as strings; coercion to numbers
// happens only inside the comparator.
type QuantityField string

const (
	FieldRipe       QuantityField = "RIPEBCH"
	FieldUnripe     QuantityField = "UNRIPEBCH"
	FieldBlack      QuantityField = "BLACKBCH"
	FieldRotten     QuantityField = "ROTTENBCH"
	FieldLongStalk  QuantityField = "LONGSTALKBCH"
	FieldRatDamaged QuantityField = "RATDMGBCH"
	FieldLooseFruit QuantityField = "LOOSEFRUITBCH"
)

// DefaultCompareFields returns the full scanner field set in column order.
func DefaultCompareFields() []QuantityField {
	return []QuantityField{
		FieldRipe,
		FieldUnripe,
		FieldBlack,
		FieldRotten,
		FieldLongStalk,
		FieldRatDamaged,
		FieldLooseFruit,
	}
}

// Record is one scanner transaction row as handed over by the record source.
// Records are value snapshots: they live for one analysis run and are never
// mutated by the engine.
type Record struct {
	ID                string
	TransactionNumber string
	TransactionDate   string
	TransactionTime   string
	CreatorUserID     string
	RoleTag           string
	Status            string
	DivisionID        string
	Quantities        map[QuantityField]string
}

// Quantity returns the raw string value for one field ("" when absent).
func (r Record) Quantity(f QuantityField) string {
	return r.Quantities[f]
}
