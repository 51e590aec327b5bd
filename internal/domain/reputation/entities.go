package reputation

import "time"

// Record is the permanent default mark of a borrower. Flagged only moves false → true.
type Record struct {
	Borrower  string     `gorm:"primaryKey;size:32;column:borrower" json:"borrower"`
	Flagged   bool       `gorm:"not null;default:false;column:flagged" json:"flagged"`
	FlaggedAt *time.Time `gorm:"column:flagged_at" json:"flagged_at,omitempty"`
	FlaggedBy string     `gorm:"size:32;column:flagged_by" json:"flagged_by,omitempty"`
	LoanID    *uint64    `gorm:"column:loan_id" json:"loan_id,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Record) TableName() string { return "reputation_records" }
