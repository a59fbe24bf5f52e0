package commitment

import "hdrcommit/internal/domain"

// Comparison is the cross-check of two providers' views of one block.
type Comparison struct {
	A               domain.HeaderRecord
	B               domain.HeaderRecord
	CommitmentA     Commitment
	CommitmentB     Commitment
	Fields          [domain.FieldCount]bool
	CommitmentMatch bool
}

// Compare commits both headers and records per-field equality. The field
// matrix explains a mismatch; CommitmentMatch alone decides it. An encoding
// failure on either side fails the whole comparison.
func Compare(a, b domain.HeaderRecord) (Comparison, error) {
	commitA, err := Commit(a)
	if err != nil {
		return Comparison{}, err
	}
	commitB, err := Commit(b)
	if err != nil {
		return Comparison{}, err
	}

	result := Comparison{
		A:               a,
		B:               b,
		CommitmentA:     commitA,
		CommitmentB:     commitB,
		CommitmentMatch: commitA == commitB,
	}
	for _, field := range domain.Fields {
		result.Fields[field] = a.FieldEqual(b, field)
	}
	return result, nil
}

// Match reports whether both providers agree on field.
func (c Comparison) Match(field domain.Field) bool {
	if field < 0 || int(field) >= domain.FieldCount {
		return false
	}
	return c.Fields[field]
}

// Mismatched lists the fields that differ, in canonical order.
func (c Comparison) Mismatched() []domain.Field {
	var fields []domain.Field
	for _, field := range domain.Fields {
		if !c.Fields[field] {
			fields = append(fields, field)
		}
	}
	return fields
}

// Consistent is true when every field and the commitment agree.
func (c Comparison) Consistent() bool {
	return c.CommitmentMatch && len(c.Mismatched()) == 0
}
