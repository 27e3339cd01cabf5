package complaint

import (
	"time"

	"github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/domain/complaint"
)

// SubmitComplaintRequest files a complaint. Kind is matched case-insensitively
// and defaults to guest.
type SubmitComplaintRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Message string `json:"message" binding:"required,min=1,max=5000"`
	Kind    string `json:"userType" binding:"omitempty,oneofci=shopper merchant guest"`
}

// UpdateStatusRequest overwrites a complaint's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,min=1,max=50"`
}

// ComplaintResponse is a stored complaint
type ComplaintResponse struct {
	ComplaintNumber string    `json:"complaintNumber"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Message         string    `json:"message"`
	UserType        string    `json:"userType"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SubmitComplaintResponse adds the receipt email outcome
type SubmitComplaintResponse struct {
	*ComplaintResponse
	Notification notification.Result `json:"notification"`
}

// ToComplaintResponse converts a domain complaint
func ToComplaintResponse(c *complaint.Complaint) *ComplaintResponse {
	return &ComplaintResponse{
		ComplaintNumber: c.Number(),
		Name:            c.Name,
		Email:           c.Email,
		Message:         c.Message,
		UserType:        string(c.SubmitterKind),
		Status:          c.Status,
		CreatedAt:       c.CreatedAt,
	}
}
