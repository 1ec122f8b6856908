package supplier

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
)

// Status represents a supplier's trading status
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// IsValid returns true for a known status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusSuspended
}

// Supplier delivers raw materials and lots
type Supplier struct {
	shared.BaseAggregateRoot
	Code          string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Certification string
	Status        Status
	CreatedBy     *uuid.UUID
}

// ContactInfo groups the supplier's contact fields
type ContactInfo struct {
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// NewSupplier creates an active supplier
func NewSupplier(code, name string, contact ContactInfo) (*Supplier, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.InvalidInput("supplier code is required")
	}
	if len(code) > 50 {
		return nil, shared.InvalidInput("supplier code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.InvalidInput("supplier name is required")
	}
	if contact.Email != "" {
		if _, err := mail.ParseAddress(contact.Email); err != nil {
			return nil, shared.InvalidInput("invalid supplier email %q", contact.Email)
		}
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		ContactPerson:     strings.TrimSpace(contact.ContactPerson),
		Email:             strings.TrimSpace(contact.Email),
		Phone:             strings.TrimSpace(contact.Phone),
		Address:           strings.TrimSpace(contact.Address),
		Status:            StatusActive,
	}, nil
}

// SetCertification records HACCP/ISO certification details
func (s *Supplier) SetCertification(certification string) {
	s.Certification = strings.TrimSpace(certification)
	s.UpdatedAt = time.Now()
}

// ChangeStatus moves the supplier to another status
func (s *Supplier) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.InvalidInput("invalid supplier status %q", status)
	}
	if s.Status == status {
		return shared.InvalidState("supplier is already %s", status)
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// CanDeliver returns true when new lots may be received from this supplier
func (s *Supplier) CanDeliver() bool {
	return s.Status == StatusActive
}
