package complaint

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/domain/complaint"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// Acknowledger sends the complaint receipt. Implemented by notification.Notifier.
type Acknowledger interface {
	ComplaintReceived(ctx context.Context, c *complaint.Complaint) notification.Result
}

// ComplaintService handles complaint submission and operator triage
type ComplaintService struct {
	complaints complaint.ComplaintRepository
	ack        Acknowledger
	logger     *zap.Logger
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(complaints complaint.ComplaintRepository, ack Acknowledger, l *zap.Logger) *ComplaintService {
	return &ComplaintService{complaints: complaints, ack: ack, logger: l}
}

// Submit stores a pending complaint and emails a receipt. The complaint is
// kept even when the email fails.
func (s *ComplaintService) Submit(ctx context.Context, req SubmitComplaintRequest) (*SubmitComplaintResponse, error) {
	number, err := shared.GenerateUnique(ctx, complaint.NewComplaintNumber, s.complaints.ExistsByNumber, shared.DefaultIDAttempts)
	if err != nil {
		return nil, err
	}
	c, err := complaint.NewComplaint(number, req.Name, req.Email, req.Message,
		complaint.SubmitterKind(strings.ToLower(req.Kind)))
	if err != nil {
		return nil, err
	}
	if err := s.complaints.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Enrich(ctx, s.logger).Info("complaint submitted",
		zap.String("complaint_number", number),
		zap.String("submitter", string(c.SubmitterKind)),
	)

	result := s.ack.ComplaintReceived(ctx, c)
	return &SubmitComplaintResponse{ComplaintResponse: ToComplaintResponse(c), Notification: result}, nil
}

// List returns every complaint, newest first
func (s *ComplaintService) List(ctx context.Context) ([]*ComplaintResponse, error) {
	complaints, err := s.complaints.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*ComplaintResponse, len(complaints))
	for i, c := range complaints {
		out[i] = ToComplaintResponse(c)
	}
	return out, nil
}

// UpdateStatus overwrites the status with any non-empty value
func (s *ComplaintService) UpdateStatus(ctx context.Context, number string, req UpdateStatusRequest) (*ComplaintResponse, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, shared.NewDomainError("INVALID_STATUS", "Status cannot be empty")
	}
	c, err := s.complaints.UpdateStatus(ctx, number, status)
	if err != nil {
		return nil, err
	}
	logger.Enrich(ctx, s.logger).Info("complaint status updated",
		zap.String("complaint_number", number),
		zap.String("status", status),
	)
	return ToComplaintResponse(c), nil
}
