package complaint

import "context"

// ComplaintRepository defines the interface for complaint persistence
type ComplaintRepository interface {
	Create(ctx context.Context, c *Complaint) error

	// UpdateStatus returns ErrComplaintNotFound when the number is unknown
	UpdateStatus(ctx context.Context, number, status string) (*Complaint, error)

	// FindAll returns complaints newest first
	FindAll(ctx context.Context) ([]*Complaint, error)

	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
