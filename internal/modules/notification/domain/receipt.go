package domain

import "github.com/google/uuid"

// PurchaseReceipt describes a completed course purchase
type PurchaseReceipt struct {
	UserID      uuid.UUID
	Email       string
	Name        string
	CourseID    uuid.UUID
	CourseTitle string
	OrderID     string
	Amount      float64
	Currency    string
}
