package models

import "time"

// Inspection is one assessment event against a shop. Inspections are
// immutable once created; there is no update path anywhere in the program.
type Inspection struct {
	ID             string           `json:"id"`
	ShopId         string           `json:"shop_id" validate:"required"`
	InspectorEmail string           `json:"inspector_email"`
	InspectorName  string           `json:"inspector_name"`
	Status         InspectionStatus `json:"status"`
	TotalScore     *int             `json:"total_score" validate:"omitempty,gte=0,lte=100"`

	// Per-criterion checklist results.
	PestControlPassed   bool `json:"pest_control_passed"`
	HandwashingPassed   bool `json:"handwashing_passed"`
	FoodStoragePassed   bool `json:"food_storage_passed"`
	WasteDisposalPassed bool `json:"waste_disposal_passed"`
	LabelingPassed      bool `json:"labeling_passed"`

	Notes       string    `json:"notes"`
	CreatedBy   string    `json:"created_by"`
	CreatedDate time.Time `json:"created_date"`
}

// NewInspection is the create payload from the inspection form wizard.
type NewInspection struct {
	ShopId     string `json:"shop_id" binding:"required"`
	TotalScore *int   `json:"total_score" binding:"omitempty,gte=0,lte=100"`

	PestControlPassed   bool `json:"pest_control_passed"`
	HandwashingPassed   bool `json:"handwashing_passed"`
	FoodStoragePassed   bool `json:"food_storage_passed"`
	WasteDisposalPassed bool `json:"waste_disposal_passed"`
	LabelingPassed      bool `json:"labeling_passed"`

	Notes string `json:"notes"`
}
