package complaint

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultStatus is assigned on submission
const DefaultStatus = "Pending"

const numberDigits = 6

// ErrComplaintNotFound is returned when no complaint has the number
var ErrComplaintNotFound = shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")

// SubmitterKind identifies who filed the complaint
type SubmitterKind string

const (
	SubmitterShopper  SubmitterKind = "shopper"
	SubmitterMerchant SubmitterKind = "merchant"
	SubmitterGuest    SubmitterKind = "guest"
)

// Complaint is a support message with an operator-managed status.
// The complaint number is the identity.
type Complaint struct {
	shared.BaseEntity
	Name          string
	Email         string
	Message       string
	SubmitterKind SubmitterKind
	Status        string
}

// NewComplaintNumber draws a six digit complaint number
func NewComplaintNumber() (string, error) {
	return shared.RandomDigits(numberDigits)
}

// NewComplaint creates a pending complaint
func NewComplaint(number, name, email, message string, kind SubmitterKind) (*Complaint, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Complaint number cannot be empty")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}
	if kind == "" {
		kind = SubmitterGuest
	}
	return &Complaint{
		BaseEntity:    shared.NewBaseEntity(number),
		Name:          strings.TrimSpace(name),
		Email:         email,
		Message:       message,
		SubmitterKind: kind,
		Status:        DefaultStatus,
	}, nil
}

// Number returns the complaint number
func (c *Complaint) Number() string {
	return c.ID
}

// SetStatus overwrites the status. There is no transition table.
func (c *Complaint) SetStatus(status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return shared.NewDomainError("INVALID_STATUS", "Status cannot be empty")
	}
	c.Status = status
	c.Touch()
	return nil
}
