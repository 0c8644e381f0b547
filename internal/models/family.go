package models

// Family represents a household in the remote family registry.
type Family struct {
	// ID is the unique identifier for the family (UUID format).
	ID string `json:"id,omitempty"`

	// OwnerID is the account that created the family.
	OwnerID string `json:"ownerId,omitempty"`

	// BudgetID is the budget attached to the family, if any.
	BudgetID string `json:"budgetId,omitempty"`

	// Title is the display name of the family.
	Title string `json:"title,omitempty"`
}

// FamilyCreationForm carries the fields of the family creation form.
type FamilyCreationForm struct {
	Title string
}

// NewFamily builds a registry-ready family owned by the given account.
func NewFamily(form FamilyCreationForm, ownerID string) *Family {
	return &Family{
		OwnerID: ownerID,
		Title:   form.Title,
	}
}
