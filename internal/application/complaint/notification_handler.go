package complaint

import (
	"context"
	"fmt"

	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationHandler turns complaint workflow events into per-user
// notification rows: the assignee is notified on assignment, the complainant
// on every status change.
type NotificationHandler struct {
	complaintRepo    complaint.ComplaintRepository
	notificationRepo complaint.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationHandler creates a new handler for complaint workflow events
func NewNotificationHandler(
	complaintRepo complaint.ComplaintRepository,
	notificationRepo complaint.NotificationRepository,
	logger *zap.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		complaintRepo:    complaintRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationHandler) EventTypes() []string {
	return []string{
		complaint.EventTypeComplaintAssigned,
		complaint.EventTypeComplaintStatusChanged,
	}
}

// Handle writes the notification row for a complaint workflow event
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *complaint.ComplaintAssignedEvent:
		c, err := h.complaintRepo.FindByID(ctx, e.AggregateID())
		if err != nil {
			return fmt.Errorf("load complaint %s: %w", e.AggregateID(), err)
		}
		return h.write(ctx, complaint.NewNotification(e.AssigneeID, c.ID,
			fmt.Sprintf("Complaint %s assigned to you", c.Code), c.Subject))

	case *complaint.ComplaintStatusChangedEvent:
		c, err := h.complaintRepo.FindByID(ctx, e.AggregateID())
		if err != nil {
			return fmt.Errorf("load complaint %s: %w", e.AggregateID(), err)
		}
		return h.write(ctx, complaint.NewNotification(c.ComplainantID, c.ID,
			fmt.Sprintf("Complaint %s is now %s", c.Code, e.ToStatus), e.Note))

	default:
		h.logger.Error("unexpected event type",
			zap.String("event_type", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *NotificationHandler) write(ctx context.Context, n *complaint.Notification) error {
	if err := h.notificationRepo.Create(ctx, n); err != nil {
		h.logger.Error("Failed to write notification",
			zap.String("complaint_id", n.ComplaintID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

// Ensure NotificationHandler implements shared.EventHandler
var _ shared.EventHandler = (*NotificationHandler)(nil)
