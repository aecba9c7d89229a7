package biz

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tidescale/crmhub/internal/authz"
	"github.com/tidescale/crmhub/internal/objects"
)

var (
	// ErrNotFound: the entity does not exist in the request's tenant partition.
	ErrNotFound = errors.New("not found")
	// ErrTenantRequired: the operation needs a resolved tenant.
	ErrTenantRequired = errors.New("tenant is required")
)

// LeadService is an in-memory, tenant-partitioned lead store. Every operation
// is scoped to one tenant partition; data from other tenants is unreachable.
type LeadService struct {
	mu    sync.RWMutex
	leads map[string]map[string]objects.Lead
}

func NewLeadService() *LeadService {
	return &LeadService{leads: map[string]map[string]objects.Lead{}}
}

func (s *LeadService) List(ctx context.Context, tenantID string) ([]objects.Lead, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	partition := s.leads[tenantID]
	leads := make([]objects.Lead, 0, len(partition))

	for _, lead := range partition {
		leads = append(leads, lead)
	}

	sort.Slice(leads, func(i, j int) bool { return leads[i].CreatedAt.Before(leads[j].CreatedAt) })

	return leads, nil
}

func (s *LeadService) Get(ctx context.Context, tenantID, id string) (objects.Lead, error) {
	if tenantID == "" {
		return objects.Lead{}, ErrTenantRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[tenantID][id]
	if !ok {
		return objects.Lead{}, ErrNotFound
	}

	return lead, nil
}

func (s *LeadService) Create(ctx context.Context, tenantID string, input objects.LeadInput) (objects.Lead, error) {
	if tenantID == "" {
		return objects.Lead{}, ErrTenantRequired
	}

	now := time.Now()
	lead := objects.Lead{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      input.Name,
		Company:   input.Company,
		Email:     input.Email,
		Phone:     input.Phone,
		Status:    input.Status,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if lead.Status == "" {
		lead.Status = objects.LeadStatusNew
	}

	if p, ok := authz.GetPrincipal(ctx); ok {
		lead.OwnerID = p.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.leads[tenantID] == nil {
		s.leads[tenantID] = map[string]objects.Lead{}
	}

	s.leads[tenantID][lead.ID] = lead

	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, tenantID, id string, input objects.LeadInput) (objects.Lead, error) {
	if tenantID == "" {
		return objects.Lead{}, ErrTenantRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[tenantID][id]
	if !ok {
		return objects.Lead{}, ErrNotFound
	}

	lead.Name = input.Name
	lead.Company = input.Company
	lead.Email = input.Email
	lead.Phone = input.Phone
	lead.Notes = input.Notes

	if input.Status != "" {
		lead.Status = input.Status
	}

	lead.UpdatedAt = time.Now()
	s.leads[tenantID][id] = lead

	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, tenantID, id string) error {
	if tenantID == "" {
		return ErrTenantRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[tenantID][id]; !ok {
		return ErrNotFound
	}

	delete(s.leads[tenantID], id)

	return nil
}

// Share grants the given users visibility of the lead.
func (s *LeadService) Share(ctx context.Context, tenantID, id string, userIDs []string) (objects.Lead, error) {
	if tenantID == "" {
		return objects.Lead{}, ErrTenantRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[tenantID][id]
	if !ok {
		return objects.Lead{}, ErrNotFound
	}

	existing := map[string]struct{}{}
	for _, userID := range lead.SharedWith {
		existing[userID] = struct{}{}
	}

	for _, userID := range userIDs {
		if _, ok := existing[userID]; !ok && userID != "" {
			lead.SharedWith = append(lead.SharedWith, userID)
			existing[userID] = struct{}{}
		}
	}

	lead.UpdatedAt = time.Now()
	s.leads[tenantID][id] = lead

	return lead, nil
}

// Assign hands the lead to a new owner.
func (s *LeadService) Assign(ctx context.Context, tenantID, id, ownerID string) (objects.Lead, error) {
	if tenantID == "" {
		return objects.Lead{}, ErrTenantRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[tenantID][id]
	if !ok {
		return objects.Lead{}, ErrNotFound
	}

	lead.OwnerID = ownerID
	lead.UpdatedAt = time.Now()
	s.leads[tenantID][id] = lead

	return lead, nil
}

// ExportCSV renders the tenant's leads as CSV.
func (s *LeadService) ExportCSV(ctx context.Context, tenantID string) ([]byte, error) {
	leads, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "company", "email", "phone", "status", "owner_id"}); err != nil {
		return nil, err
	}

	for _, lead := range leads {
		record := []string{lead.ID, lead.Name, lead.Company, lead.Email, lead.Phone, string(lead.Status), lead.OwnerID}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()

	return buf.Bytes(), w.Error()
}
