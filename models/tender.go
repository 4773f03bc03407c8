package models

import "time"

// Tender is a procurement opportunity as listed by the portal.
type Tender struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Reference   string    `json:"reference,omitempty"`
	Status      string    `json:"status"`
	Deadline    time.Time `json:"deadline"`
	PublishedAt time.Time `json:"published_at"`
}

// Offer is a vendor's submission against a tender.
type Offer struct {
	ID          int64     `json:"id"`
	TenderID    int64     `json:"tender"`
	VendorName  string    `json:"vendor_name,omitempty"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Notification is a portal message addressed to the current user.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
