package identity

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/storefront/backend/internal/domain/shared"
)

// SessionState is the merchant's stored login flag
type SessionState string

const (
	SessionStateLoggedIn  SessionState = "loggedin"
	SessionStateLoggedOut SessionState = "loggedout"
)

// MerchantIDPrefix prefixes every merchant identifier
const MerchantIDPrefix = "MBSLR"

const (
	merchantIDMin = 10000
	merchantIDMax = 99999
)

// Merchant is a seller principal
type Merchant struct {
	shared.BaseEntity
	Name            string
	Email           string
	Phone           string
	BusinessName    string
	BusinessAddress string
	BusinessType    string
	EmailVerified   bool
	PhoneVerified   bool
	SessionState    SessionState
	Credential      Credential
}

// NewMerchantID draws an MBSLR identifier with a five digit suffix
func NewMerchantID() (string, error) {
	n, err := shared.RandomIntInRange(merchantIDMin, merchantIDMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", MerchantIDPrefix, n), nil
}

// MerchantRegistration carries the signup fields of a merchant
type MerchantRegistration struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	BusinessName    string
	BusinessAddress string
	BusinessType    string
}

// NewMerchant creates an unverified, logged-out merchant
func NewMerchant(id string, reg MerchantRegistration) (*Merchant, error) {
	if !strings.HasPrefix(id, MerchantIDPrefix) {
		return nil, shared.NewDomainError("INVALID_ID", "Seller ID must start with "+MerchantIDPrefix)
	}
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email, err := normalizeEmail(reg.Email)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(reg.Phone)
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if strings.TrimSpace(reg.BusinessName) == "" {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business name cannot be empty")
	}
	cred, err := NewCredential(reg.Password)
	if err != nil {
		return nil, err
	}

	return &Merchant{
		BaseEntity:      shared.NewBaseEntity(id),
		Name:            name,
		Email:           email,
		Phone:           phone,
		BusinessName:    strings.TrimSpace(reg.BusinessName),
		BusinessAddress: strings.TrimSpace(reg.BusinessAddress),
		BusinessType:    NormalizeBusinessType(reg.BusinessType),
		SessionState:    SessionStateLoggedOut,
		Credential:      cred,
	}, nil
}

// NormalizeBusinessType title-cases the business type ("retail shop" -> "Retail Shop")
func NormalizeBusinessType(t string) string {
	t = strings.Join(strings.Fields(t), " ")
	if t == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(t))
}

// MatchesContact reports whether emailOrPhone is this merchant's email or phone
func (m *Merchant) MatchesContact(emailOrPhone string) bool {
	v := strings.TrimSpace(emailOrPhone)
	if v == "" {
		return false
	}
	return strings.EqualFold(v, m.Email) || v == m.Phone
}

// IsVerified reports whether at least one contact channel is verified
func (m *Merchant) IsVerified() bool {
	return m.EmailVerified || m.PhoneVerified
}

// SetVerification updates the verification flags. Nil leaves a flag unchanged.
func (m *Merchant) SetVerification(email, phone *bool) {
	if email != nil {
		m.EmailVerified = *email
	}
	if phone != nil {
		m.PhoneVerified = *phone
	}
	m.Touch()
}

// MarkLoggedIn sets the session flag to loggedin
func (m *Merchant) MarkLoggedIn() {
	m.SessionState = SessionStateLoggedIn
	m.Touch()
}

// MarkLoggedOut sets the session flag to loggedout
func (m *Merchant) MarkLoggedOut() {
	m.SessionState = SessionStateLoggedOut
	m.Touch()
}
