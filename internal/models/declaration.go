package models

import "time"

// DeclarationStatus is the review state of an internship declaration.
type DeclarationStatus string

const (
	StatusPending  DeclarationStatus = "pending"
	StatusApproved DeclarationStatus = "approved"
	StatusRejected DeclarationStatus = "rejected"
)

// ParseDeclarationStatus maps raw input onto a defined status.
func ParseDeclarationStatus(raw string) (DeclarationStatus, bool) {
	switch DeclarationStatus(raw) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

// Declaration represents a student's internship declaration.
type Declaration struct {
	ID        int64             `db:"id" json:"id"`
	StudentID int64             `db:"student_id" json:"studentId"`
	Company   string            `db:"company" json:"company"`
	Subject   string            `db:"subject" json:"subject"`
	StartDate Date              `db:"start_date" json:"startDate"`
	EndDate   Date              `db:"end_date" json:"endDate"`
	Status    DeclarationStatus `db:"status" json:"status"`
	Comment   *string           `db:"comment" json:"comment"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`
}

// DeclarationDetail is a declaration joined with its owning student's
// name and email.
type DeclarationDetail struct {
	Declaration
	StudentName  string `db:"student_name" json:"studentName"`
	StudentEmail string `db:"student_email" json:"studentEmail"`
}

// DeclarationStats aggregates declaration counts per review status.
type DeclarationStats struct {
	Total    int64 `db:"total" json:"total"`
	Pending  int64 `db:"pending" json:"pending"`
	Approved int64 `db:"approved" json:"approved"`
	Rejected int64 `db:"rejected" json:"rejected"`
}
