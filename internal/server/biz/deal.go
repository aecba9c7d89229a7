package biz

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tidescale/crmhub/internal/authz"
	"github.com/tidescale/crmhub/internal/objects"
)

// DealService is an in-memory, tenant-partitioned deal store.
type DealService struct {
	mu    sync.RWMutex
	deals map[string]map[string]objects.Deal
}

func NewDealService() *DealService {
	return &DealService{deals: map[string]map[string]objects.Deal{}}
}

func (s *DealService) List(ctx context.Context, tenantID string) ([]objects.Deal, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	partition := s.deals[tenantID]
	deals := make([]objects.Deal, 0, len(partition))

	for _, deal := range partition {
		deals = append(deals, deal)
	}

	sort.Slice(deals, func(i, j int) bool { return deals[i].CreatedAt.Before(deals[j].CreatedAt) })

	return deals, nil
}

func (s *DealService) Get(ctx context.Context, tenantID, id string) (objects.Deal, error) {
	if tenantID == "" {
		return objects.Deal{}, ErrTenantRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	deal, ok := s.deals[tenantID][id]
	if !ok {
		return objects.Deal{}, ErrNotFound
	}

	return deal, nil
}

func (s *DealService) Create(ctx context.Context, tenantID string, input objects.DealInput) (objects.Deal, error) {
	if tenantID == "" {
		return objects.Deal{}, ErrTenantRequired
	}

	now := time.Now()
	deal := objects.Deal{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		LeadID:    input.LeadID,
		Title:     input.Title,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Stage:     input.Stage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if deal.Stage == "" {
		deal.Stage = objects.DealStageProspect
	}

	if deal.Currency == "" {
		deal.Currency = "USD"
	}

	if p, ok := authz.GetPrincipal(ctx); ok {
		deal.OwnerID = p.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deals[tenantID] == nil {
		s.deals[tenantID] = map[string]objects.Deal{}
	}

	s.deals[tenantID][deal.ID] = deal

	return deal, nil
}

func (s *DealService) Update(ctx context.Context, tenantID, id string, input objects.DealInput) (objects.Deal, error) {
	if tenantID == "" {
		return objects.Deal{}, ErrTenantRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deal, ok := s.deals[tenantID][id]
	if !ok {
		return objects.Deal{}, ErrNotFound
	}

	deal.LeadID = input.LeadID
	deal.Title = input.Title
	deal.Amount = input.Amount

	if input.Currency != "" {
		deal.Currency = input.Currency
	}

	if input.Stage != "" {
		deal.Stage = input.Stage
	}

	deal.UpdatedAt = time.Now()
	s.deals[tenantID][id] = deal

	return deal, nil
}

func (s *DealService) Delete(ctx context.Context, tenantID, id string) error {
	if tenantID == "" {
		return ErrTenantRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deals[tenantID][id]; !ok {
		return ErrNotFound
	}

	delete(s.deals[tenantID], id)

	return nil
}

// Share grants the given users visibility of the deal.
func (s *DealService) Share(ctx context.Context, tenantID, id string, userIDs []string) (objects.Deal, error) {
	if tenantID == "" {
		return objects.Deal{}, ErrTenantRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deal, ok := s.deals[tenantID][id]
	if !ok {
		return objects.Deal{}, ErrNotFound
	}

	existing := map[string]struct{}{}
	for _, userID := range deal.SharedWith {
		existing[userID] = struct{}{}
	}

	for _, userID := range userIDs {
		if _, ok := existing[userID]; !ok && userID != "" {
			deal.SharedWith = append(deal.SharedWith, userID)
			existing[userID] = struct{}{}
		}
	}

	deal.UpdatedAt = time.Now()
	s.deals[tenantID][id] = deal

	return deal, nil
}

// Assign hands the deal to a new owner.
func (s *DealService) Assign(ctx context.Context, tenantID, id, ownerID string) (objects.Deal, error) {
	if tenantID == "" {
		return objects.Deal{}, ErrTenantRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deal, ok := s.deals[tenantID][id]
	if !ok {
		return objects.Deal{}, ErrNotFound
	}

	deal.OwnerID = ownerID
	deal.UpdatedAt = time.Now()
	s.deals[tenantID][id] = deal

	return deal, nil
}

// ExportCSV renders the tenant's deals as CSV.
func (s *DealService) ExportCSV(ctx context.Context, tenantID string) ([]byte, error) {
	deals, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "title", "amount", "currency", "stage", "owner_id"}); err != nil {
		return nil, err
	}

	for _, deal := range deals {
		record := []string{deal.ID, deal.Title, deal.Amount.String(), deal.Currency, string(deal.Stage), deal.OwnerID}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()

	return buf.Bytes(), w.Error()
}
