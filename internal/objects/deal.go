package objects

import (
	"time"

	"github.com/shopspring/decimal"
)

type DealStage string

const (
	DealStageProspect    DealStage = "prospect"
	DealStageProposal    DealStage = "proposal"
	DealStageNegotiation DealStage = "negotiation"
	DealStageWon         DealStage = "won"
	DealStageLost        DealStage = "lost"
)

type Deal struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenantId"`
	LeadID     string          `json:"leadId,omitempty"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Stage      DealStage       `json:"stage"`
	OwnerID    string          `json:"ownerId,omitempty"`
	SharedWith []string        `json:"sharedWith,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// DealInput is the mutable subset accepted on create and update.
type DealInput struct {
	LeadID   string          `json:"leadId"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Stage    DealStage       `json:"stage"`
}
