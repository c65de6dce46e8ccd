package complaint

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileComplaint(t *testing.T) *Complaint {
	t.Helper()
	c, err := NewComplaint(uuid.New(), TypePriceViolation,
		"Overpriced urea at Greenfield Agro",
		"The retailer charged 320 per bag against a mandated price of 266.50.")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestNewComplaint(t *testing.T) {
	t.Run("valid complaint", func(t *testing.T) {
		c, err := NewComplaint(uuid.New(), TypeServiceIssue,
			"Refused to show price list",
			"Asked for the mandated price list and the shop refused to show it.")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, c.Status)
		assert.Equal(t, PriorityMedium, c.Priority)
		assert.True(t, strings.HasPrefix(c.Code, "COMP-"))
		assert.Len(t, c.Code, 18)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		_, err := NewComplaint(uuid.New(), ComplaintType("grievance"),
			"Some subject here", strings.Repeat("x", 30))
		assert.Error(t, err)
	})

	t.Run("short subject rejected", func(t *testing.T) {
		_, err := NewComplaint(uuid.New(), TypeOther, "abc", strings.Repeat("x", 30))
		assert.Error(t, err)
	})

	t.Run("short description rejected", func(t *testing.T) {
		_, err := NewComplaint(uuid.New(), TypeOther, "Valid subject", "too short")
		assert.Error(t, err)
	})

	t.Run("missing complainant rejected", func(t *testing.T) {
		_, err := NewComplaint(uuid.Nil, TypeOther, "Valid subject", strings.Repeat("x", 30))
		assert.Error(t, err)
	})
}

func TestGenerateCode(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	code := GenerateCode(now)
	assert.True(t, strings.HasPrefix(code, "COMP-20260829-"))
	assert.Len(t, code, 18)
}

func TestComplaintPrices(t *testing.T) {
	t.Run("price difference computed", func(t *testing.T) {
		c := fileComplaint(t)
		require.NoError(t, c.SetPrices(decimal.NewFromInt(320), decimal.NewFromFloat(266.50)))
		assert.Equal(t, "53.50", c.PriceDifference.StringFixed(2))
	})

	t.Run("prices only on price violation complaints", func(t *testing.T) {
		c, err := NewComplaint(uuid.New(), TypeProductQuality,
			"Adulterated fertilizer", strings.Repeat("bad product ", 5))
		require.NoError(t, err)
		assert.Error(t, c.SetPrices(decimal.NewFromInt(320), decimal.NewFromInt(266)))
	})

	t.Run("non positive prices rejected", func(t *testing.T) {
		c := fileComplaint(t)
		assert.Error(t, c.SetPrices(decimal.Zero, decimal.NewFromInt(266)))
	})
}

func TestComplaintAssign(t *testing.T) {
	t.Run("assigning pending complaint moves it under review", func(t *testing.T) {
		c := fileComplaint(t)
		assignee := uuid.New()
		require.NoError(t, c.Assign(assignee, uuid.New()))
		assert.Equal(t, StatusUnderReview, c.Status)
		assert.True(t, c.IsAssignedTo(assignee))
	})

	t.Run("reassigning keeps current status", func(t *testing.T) {
		c := fileComplaint(t)
		require.NoError(t, c.Assign(uuid.New(), uuid.New()))
		next := uuid.New()
		require.NoError(t, c.Assign(next, uuid.New()))
		assert.Equal(t, StatusUnderReview, c.Status)
		assert.True(t, c.IsAssignedTo(next))
	})

	t.Run("cannot assign closed complaint", func(t *testing.T) {
		c := fileComplaint(t)
		actor := uuid.New()
		require.NoError(t, c.ChangeStatus(StatusRejected, actor, "duplicate of COMP-20260829-0001"))
		assert.Error(t, c.Assign(uuid.New(), actor))
	})
}

func TestComplaintStatusMachine(t *testing.T) {
	actor := uuid.New()

	t.Run("happy path to resolution", func(t *testing.T) {
		c := fileComplaint(t)
		require.NoError(t, c.ChangeStatus(StatusUnderReview, actor, ""))
		require.NoError(t, c.ChangeStatus(StatusInvestigation, actor, ""))
		require.NoError(t, c.ChangeStatus(StatusWaitingResponse, actor, "asked retailer for invoice"))
		require.NoError(t, c.ChangeStatus(StatusInvestigation, actor, "invoice received"))
		require.NoError(t, c.ChangeStatus(StatusResolved, actor, "retailer corrected the price"))
		assert.NotNil(t, c.ResolvedAt)
		assert.Equal(t, "retailer corrected the price", c.ResolutionNote)
		require.NoError(t, c.ChangeStatus(StatusClosed, actor, ""))
		assert.Equal(t, StatusClosed, c.Status)
	})

	t.Run("cannot skip review", func(t *testing.T) {
		c := fileComplaint(t)
		assert.Error(t, c.ChangeStatus(StatusInvestigation, actor, ""))
		assert.Error(t, c.ChangeStatus(StatusResolved, actor, "note"))
	})

	t.Run("rejection allowed from any open state", func(t *testing.T) {
		for _, start := range []ComplaintStatus{StatusPending, StatusUnderReview, StatusInvestigation, StatusWaitingResponse} {
			c := fileComplaint(t)
			c.Status = start
			require.NoError(t, c.ChangeStatus(StatusRejected, actor, "unfounded"), "from %s", start)
		}
	})

	t.Run("rejection from terminal state refused", func(t *testing.T) {
		c := fileComplaint(t)
		require.NoError(t, c.ChangeStatus(StatusRejected, actor, "unfounded"))
		assert.Error(t, c.ChangeStatus(StatusRejected, actor, "again"))
	})

	t.Run("resolve requires note", func(t *testing.T) {
		c := fileComplaint(t)
		require.NoError(t, c.ChangeStatus(StatusUnderReview, actor, ""))
		require.NoError(t, c.ChangeStatus(StatusInvestigation, actor, ""))
		assert.Error(t, c.ChangeStatus(StatusResolved, actor, ""))
	})

	t.Run("closed is terminal", func(t *testing.T) {
		c := fileComplaint(t)
		require.NoError(t, c.ChangeStatus(StatusRejected, actor, "unfounded"))
		require.NoError(t, c.ChangeStatus(StatusClosed, actor, ""))
		assert.Error(t, c.ChangeStatus(StatusUnderReview, actor, ""))
		assert.Error(t, c.SetPriority(PriorityHigh))
	})

	t.Run("transitions are recorded as events", func(t *testing.T) {
		c := fileComplaint(t)
		require.NoError(t, c.ChangeStatus(StatusUnderReview, actor, ""))
		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		sc, ok := events[0].(*ComplaintStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StatusPending, sc.FromStatus)
		assert.Equal(t, StatusUnderReview, sc.ToStatus)
	})
}

func TestComplaintPriority(t *testing.T) {
	c := fileComplaint(t)
	require.NoError(t, c.SetPriority(PriorityUrgent))
	assert.Equal(t, PriorityUrgent, c.Priority)
	assert.Error(t, c.SetPriority(ComplaintPriority("asap")))
}

func TestEvidence(t *testing.T) {
	t.Run("valid evidence", func(t *testing.T) {
		e, err := NewEvidence(uuid.New(), "https://files.example.gov/receipt-123.jpg", " purchase receipt ", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "purchase receipt", e.Caption)
	})

	t.Run("non http url rejected", func(t *testing.T) {
		_, err := NewEvidence(uuid.New(), "ftp://files.example.gov/receipt.jpg", "", uuid.New())
		assert.Error(t, err)
	})

	t.Run("malformed url rejected", func(t *testing.T) {
		_, err := NewEvidence(uuid.New(), "not a url", "", uuid.New())
		assert.Error(t, err)
	})
}

func TestNotification(t *testing.T) {
	n := NewNotification(uuid.New(), uuid.New(), "Complaint assigned", "COMP-20260829-0042 was assigned to you")
	assert.False(t, n.Read)

	n.MarkRead()
	require.True(t, n.Read)
	firstRead := *n.ReadAt

	n.MarkRead()
	assert.Equal(t, firstRead, *n.ReadAt)
}

func TestResolutionDuration(t *testing.T) {
	c := fileComplaint(t)
	assert.Zero(t, c.ResolutionDuration())

	require.NoError(t, c.ChangeStatus(StatusRejected, uuid.New(), "unfounded"))
	assert.True(t, c.ResolutionDuration() >= 0)
}
