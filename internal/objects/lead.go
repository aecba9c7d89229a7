package objects

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
)

type Lead struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenantId"`
	Name       string     `json:"name"`
	Company    string     `json:"company,omitempty"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Status     LeadStatus `json:"status"`
	Notes      string     `json:"notes,omitempty"`
	OwnerID    string     `json:"ownerId,omitempty"`
	SharedWith []string   `json:"sharedWith,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// LeadInput is the mutable subset accepted on create and update.
type LeadInput struct {
	Name    string     `json:"name"`
	Company string     `json:"company"`
	Email   string     `json:"email"`
	Phone   string     `json:"phone"`
	Status  LeadStatus `json:"status"`
	Notes   string     `json:"notes"`
}
