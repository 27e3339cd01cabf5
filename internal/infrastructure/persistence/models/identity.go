package models

import (
	"github.com/storefront/backend/internal/domain/identity"
)

// ShopperModel is the persistence model for the Shopper entity.
type ShopperModel struct {
	BaseModel
	Name          string                 `gorm:"type:varchar(200);not null"`
	Email         string                 `gorm:"type:varchar(200);not null;uniqueIndex:idx_shoppers_email"`
	PasswordHash  string                 `gorm:"type:varchar(255);not null"`
	Phone         string                 `gorm:"type:varchar(50);not null;default:'not available'"`
	AccountStatus identity.AccountStatus `gorm:"type:varchar(20);not null;default:'open'"`
}

// TableName returns the table name for GORM
func (ShopperModel) TableName() string {
	return "shoppers"
}

// ToDomain converts the model to a domain Shopper
func (m *ShopperModel) ToDomain() *identity.Shopper {
	return &identity.Shopper{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Status:     m.AccountStatus,
		Credential: identity.RestoreCredential(m.PasswordHash),
	}
}

// FromDomain populates the model from a domain Shopper
func (m *ShopperModel) FromDomain(s *identity.Shopper) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.Email = s.Email
	m.PasswordHash = s.Credential.Hash()
	m.Phone = s.Phone
	m.AccountStatus = s.Status
}

// ShopperModelFromDomain creates a model from a domain Shopper
func ShopperModelFromDomain(s *identity.Shopper) *ShopperModel {
	m := &ShopperModel{}
	m.FromDomain(s)
	return m
}

// MerchantModel is the persistence model for the Merchant entity.
type MerchantModel struct {
	BaseModel
	Name            string                `gorm:"type:varchar(200);not null"`
	Email           string                `gorm:"type:varchar(200);not null;uniqueIndex:idx_merchants_email"`
	Phone           string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_merchants_phone"`
	PasswordHash    string                `gorm:"type:varchar(255);not null"`
	BusinessName    string                `gorm:"type:varchar(200);not null"`
	BusinessAddress string                `gorm:"type:varchar(500)"`
	BusinessType    string                `gorm:"type:varchar(100)"`
	EmailVerified   bool                  `gorm:"not null;default:false"`
	PhoneVerified   bool                  `gorm:"not null;default:false"`
	SessionState    identity.SessionState `gorm:"type:varchar(20);not null;default:'loggedout'"`
}

// TableName returns the table name for GORM
func (MerchantModel) TableName() string {
	return "merchants"
}

// ToDomain converts the model to a domain Merchant
func (m *MerchantModel) ToDomain() *identity.Merchant {
	return &identity.Merchant{
		BaseEntity:      m.BaseModel.ToDomain(),
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		BusinessName:    m.BusinessName,
		BusinessAddress: m.BusinessAddress,
		BusinessType:    m.BusinessType,
		EmailVerified:   m.EmailVerified,
		PhoneVerified:   m.PhoneVerified,
		SessionState:    m.SessionState,
		Credential:      identity.RestoreCredential(m.PasswordHash),
	}
}

// FromDomain populates the model from a domain Merchant
func (m *MerchantModel) FromDomain(mr *identity.Merchant) {
	m.FromDomainBaseEntity(mr.BaseEntity)
	m.Name = mr.Name
	m.Email = mr.Email
	m.Phone = mr.Phone
	m.PasswordHash = mr.Credential.Hash()
	m.BusinessName = mr.BusinessName
	m.BusinessAddress = mr.BusinessAddress
	m.BusinessType = mr.BusinessType
	m.EmailVerified = mr.EmailVerified
	m.PhoneVerified = mr.PhoneVerified
	m.SessionState = mr.SessionState
}

// MerchantModelFromDomain creates a model from a domain Merchant
func MerchantModelFromDomain(mr *identity.Merchant) *MerchantModel {
	m := &MerchantModel{}
	m.FromDomain(mr)
	return m
}
