package model

// CaseNumberCounter is the counter row holding the last issued case number.
const CaseNumberCounter = "case_number"

// Counter is a named integer row. Rows are locked to serialize number assignment:
// "case_number" stores the last case number handed out, "scope:*" rows anchor
// per-folder sequence assignment.
type Counter struct {
	Name  string `gorm:"size:100;primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}
