package identity

import (
	"net/mail"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// AccountStatus represents the status of a shopper account
type AccountStatus string

const (
	AccountStatusOpen      AccountStatus = "open"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusBlocked   AccountStatus = "blocked"
)

// IsValid reports whether s is a known account status
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusOpen, AccountStatusSuspended, AccountStatusBlocked:
		return true
	}
	return false
}

// DefaultPhone is stored when a shopper signs up without a phone number
const DefaultPhone = "not available"

// shopperIDBytes is the number of random bytes behind a shopper id
const shopperIDBytes = 8

// Shopper is an end-customer principal
type Shopper struct {
	shared.BaseEntity
	Name       string
	Email      string
	Phone      string
	Status     AccountStatus
	Credential Credential
}

// NewShopperID draws a 16 character hex identifier
func NewShopperID() (string, error) {
	return shared.RandomHex(shopperIDBytes)
}

// NewShopper creates an open shopper account
func NewShopper(id, name, email, password, phone string) (*Shopper, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_ID", "Shopper ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	cred, err := NewCredential(password)
	if err != nil {
		return nil, err
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		phone = DefaultPhone
	}

	return &Shopper{
		BaseEntity: shared.NewBaseEntity(id),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Status:     AccountStatusOpen,
		Credential: cred,
	}, nil
}

// CanLogin returns the error that blocks login for the current status, if any
func (s *Shopper) CanLogin() error {
	switch s.Status {
	case AccountStatusSuspended:
		return ErrAccountSuspended
	case AccountStatusBlocked:
		return ErrAccountBlocked
	}
	return nil
}

// UpdateProfile changes the name and phone. Empty values are left as is.
func (s *Shopper) UpdateProfile(name, phone string) error {
	if name = strings.TrimSpace(name); name != "" {
		if len(name) > 200 {
			return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
		}
		s.Name = name
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		if len(phone) > 50 {
			return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
		}
		s.Phone = phone
	}
	s.Touch()
	return nil
}

// ChangePassword verifies the current password and sets a new one
func (s *Shopper) ChangePassword(current, next string) error {
	if !s.Credential.Verify(current) {
		return ErrInvalidCredentials
	}
	cred, err := NewCredential(next)
	if err != nil {
		return err
	}
	s.Credential = cred
	s.Touch()
	return nil
}

// SetStatus changes the account status
func (s *Shopper) SetStatus(status AccountStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown account status")
	}
	s.Status = status
	s.Touch()
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}
