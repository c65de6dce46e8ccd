package complaint

import (
	"context"
	"testing"

	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationHandler(t *testing.T) {
	ctx := context.Background()

	newHandler := func(c *complaint.Complaint) (*NotificationHandler, *recordingNotificationRepo, *MockComplaintRepository) {
		complaints := new(MockComplaintRepository)
		complaints.On("FindByID", ctx, c.ID).Return(c, nil)
		notifications := &recordingNotificationRepo{}
		return NewNotificationHandler(complaints, notifications, zap.NewNop()), notifications, complaints
	}

	t.Run("handles the complaint workflow event types", func(t *testing.T) {
		h := NewNotificationHandler(nil, nil, zap.NewNop())
		assert.Equal(t, []string{
			complaint.EventTypeComplaintAssigned,
			complaint.EventTypeComplaintStatusChanged,
		}, h.EventTypes())
	})

	t.Run("notifies the assignee on assignment", func(t *testing.T) {
		c := mustComplaint(t, complaint.TypePriceViolation)
		assignee := uuid.New()
		h, notifications, _ := newHandler(c)

		err := h.Handle(ctx, complaint.NewComplaintAssignedEvent(c, assignee))

		require.NoError(t, err)
		require.Len(t, notifications.rows, 1)
		assert.Equal(t, assignee, notifications.rows[0].UserID)
		assert.Contains(t, notifications.rows[0].Title, c.Code)
	})

	t.Run("notifies the complainant on a status change", func(t *testing.T) {
		c := mustComplaint(t, complaint.TypeServiceIssue)
		h, notifications, _ := newHandler(c)

		err := h.Handle(ctx, complaint.NewComplaintStatusChangedEvent(
			c, complaint.StatusPending, complaint.StatusUnderReview, uuid.New(), ""))

		require.NoError(t, err)
		require.Len(t, notifications.rows, 1)
		assert.Equal(t, c.ComplainantID, notifications.rows[0].UserID)
		assert.Contains(t, notifications.rows[0].Title, string(complaint.StatusUnderReview))
	})

	t.Run("rejects events it is not built for", func(t *testing.T) {
		c := mustComplaint(t, complaint.TypeOther)
		h, notifications, _ := newHandler(c)

		err := h.Handle(ctx, complaint.NewComplaintFiledEvent(c))

		require.Error(t, err)
		assert.Empty(t, notifications.rows)
	})
}
