package notification

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/complaint"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
)

//go:embed templates/*
var templateFS embed.FS

// Subjects of the storefront emails
const (
	SubjectOrderConfirmation     = "Order Confirmation"
	SubjectComplaintConfirmation = "Complaint Registration Confirmation"
	SubjectCouponIssued          = "New Coupon Available!"
	SubjectCouponRevoked         = "Coupon Expired"
)

// Renderer turns domain records into email messages
type Renderer struct {
	brand string
	html  *htmltemplate.Template
	text  *texttemplate.Template
}

// NewRenderer parses the embedded templates
func NewRenderer(brand string) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Renderer{brand: brand, html: html, text: text}, nil
}

// MustNewRenderer is NewRenderer for the embedded templates, which always parse
func MustNewRenderer(brand string) *Renderer {
	r, err := NewRenderer(brand)
	if err != nil {
		panic(err)
	}
	return r
}

// OrderConfirmation renders the checkout email
func (r *Renderer) OrderConfirmation(o *order.Order) (Message, error) {
	data := struct {
		Brand string
		Order *order.Order
	}{r.brand, o}
	return r.render(o.ShopperEmail, o.ShopperName, SubjectOrderConfirmation, "order_confirmation", data)
}

// ComplaintConfirmation renders the complaint receipt
func (r *Renderer) ComplaintConfirmation(c *complaint.Complaint) (Message, error) {
	data := struct {
		Brand     string
		Complaint *complaint.Complaint
	}{r.brand, c}
	return r.render(c.Email, c.Name, SubjectComplaintConfirmation, "complaint_confirmation", data)
}

// CouponIssued renders the new-coupon broadcast for one recipient
func (r *Renderer) CouponIssued(to identity.Contact, code string, pct decimal.Decimal) (Message, error) {
	return r.renderText(to, SubjectCouponIssued, "coupon_issued", couponData(code, pct))
}

// CouponRevoked renders the expired-coupon broadcast for one recipient
func (r *Renderer) CouponRevoked(to identity.Contact, code string, pct decimal.Decimal) (Message, error) {
	return r.renderText(to, SubjectCouponRevoked, "coupon_revoked", couponData(code, pct))
}

func couponData(code string, pct decimal.Decimal) any {
	return struct {
		Code       string
		Percentage string
	}{code, pct.String()}
}

func (r *Renderer) render(to, toName, subject, name string, data any) (Message, error) {
	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{To: to, ToName: toName, Subject: subject, HTML: html.String(), Text: text.String()}, nil
}

func (r *Renderer) renderText(to identity.Contact, subject, name string, data any) (Message, error) {
	var text bytes.Buffer
	if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{To: to.Email, ToName: to.Name, Subject: subject, Text: text.String()}, nil
}
