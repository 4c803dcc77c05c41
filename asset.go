package maney

import "fmt"

// IlliquidAsset is a non tradable holding of a portfolio.
//
// An asset with a zero ID has not been persisted yet.
type IlliquidAsset struct {
	ID             int64  `json:"id,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	EstimatedValue Value  `json:"estimatedValue"`
}

// IsNew reports whether a is not persisted yet.
func (a IlliquidAsset) IsNew() bool { return a.ID == 0 }

// Validate checks a draft before it is saved.
func (a IlliquidAsset) Validate() error {
	if a.EstimatedValue.IsNegative() {
		return &ValidationError{Field: "estimatedValue", Reason: fmt.Sprintf("%s is negative", a.EstimatedValue)}
	}
	return nil
}
