package complaint

import (
	"context"
	"testing"

	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/fertigov/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockComplaintRepository is a mock implementation of complaint.ComplaintRepository
type MockComplaintRepository struct {
	mock.Mock
}

func (m *MockComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComplaintRepository) Update(ctx context.Context, c *complaint.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*complaint.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complaint.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) FindByCode(ctx context.Context, code string) (*complaint.Complaint, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complaint.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) FindAll(ctx context.Context, filter complaint.Filter) ([]*complaint.Complaint, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*complaint.Complaint), args.Get(1).(int64), args.Error(2)
}

func (m *MockComplaintRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockComplaintRepository) Stats(ctx context.Context) (*complaint.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complaint.Stats), args.Error(1)
}

var _ complaint.ComplaintRepository = (*MockComplaintRepository)(nil)

// recordingHistoryRepo captures status transitions in memory
type recordingHistoryRepo struct {
	rows []*complaint.StatusHistory
}

func (r *recordingHistoryRepo) Create(ctx context.Context, h *complaint.StatusHistory) error {
	r.rows = append(r.rows, h)
	return nil
}

func (r *recordingHistoryRepo) FindByComplaint(ctx context.Context, complaintID uuid.UUID) ([]*complaint.StatusHistory, error) {
	var out []*complaint.StatusHistory
	for _, h := range r.rows {
		if h.ComplaintID == complaintID {
			out = append(out, h)
		}
	}
	return out, nil
}

// recordingEvidenceRepo captures evidence rows in memory
type recordingEvidenceRepo struct {
	rows []*complaint.Evidence
}

func (r *recordingEvidenceRepo) Create(ctx context.Context, e *complaint.Evidence) error {
	r.rows = append(r.rows, e)
	return nil
}

func (r *recordingEvidenceRepo) FindByComplaint(ctx context.Context, complaintID uuid.UUID) ([]*complaint.Evidence, error) {
	var out []*complaint.Evidence
	for _, e := range r.rows {
		if e.ComplaintID == complaintID {
			out = append(out, e)
		}
	}
	return out, nil
}

// recordingNotificationRepo captures notifications in memory
type recordingNotificationRepo struct {
	rows []*complaint.Notification
}

func (r *recordingNotificationRepo) Create(ctx context.Context, n *complaint.Notification) error {
	r.rows = append(r.rows, n)
	return nil
}

func (r *recordingNotificationRepo) Update(ctx context.Context, n *complaint.Notification) error {
	return nil
}

func (r *recordingNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*complaint.Notification, error) {
	for _, n := range r.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *recordingNotificationRepo) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*complaint.Notification, int64, error) {
	var out []*complaint.Notification
	for _, n := range r.rows {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *recordingNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// stubRetailerFinder satisfies retailer.RetailerRepository for lookups
type stubRetailerFinder struct {
	retailer.RetailerRepository
	byID map[uuid.UUID]*retailer.Retailer
}

func (s *stubRetailerFinder) FindByID(ctx context.Context, id uuid.UUID) (*retailer.Retailer, error) {
	if r, ok := s.byID[id]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}

type testEnv struct {
	complaints    *MockComplaintRepository
	history       *recordingHistoryRepo
	evidence      *recordingEvidenceRepo
	notifications *recordingNotificationRepo
	retailers     *stubRetailerFinder
	bus           *event.InMemoryEventBus
	svc           *Service
}

// newTestEnv wires the service to a live bus with the notification handler
// subscribed, the same wiring the server uses.
func newTestEnv() *testEnv {
	env := &testEnv{
		complaints:    new(MockComplaintRepository),
		history:       &recordingHistoryRepo{},
		evidence:      &recordingEvidenceRepo{},
		notifications: &recordingNotificationRepo{},
		retailers:     &stubRetailerFinder{byID: map[uuid.UUID]*retailer.Retailer{}},
		bus:           event.NewInMemoryEventBus(zap.NewNop()),
	}
	env.bus.Subscribe(NewNotificationHandler(env.complaints, env.notifications, zap.NewNop()))
	env.svc = NewService(
		env.complaints,
		env.history,
		env.evidence,
		env.notifications,
		env.retailers,
		env.bus,
		zap.NewNop(),
	)
	return env
}

func mustComplaint(t *testing.T, complaintType complaint.ComplaintType) *complaint.Complaint {
	t.Helper()
	c, err := complaint.NewComplaint(uuid.New(), complaintType,
		"Overcharged for DAP", "The retailer charged far more than the notified rate for a 50kg bag.")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestService_FileComplaint(t *testing.T) {
	ctx := context.Background()
	complainant := uuid.New()

	t.Run("files a price violation with price details", func(t *testing.T) {
		env := newTestEnv()

		r, err := retailer.NewRetailer(uuid.New(), uuid.New(), "AgriMart Supplies", "LIC-2024-001")
		require.NoError(t, err)
		env.retailers.byID[r.ID] = r

		env.complaints.On("ExistsByCode", ctx, mock.AnythingOfType("string")).Return(false, nil)
		env.complaints.On("Create", ctx, mock.AnythingOfType("*complaint.Complaint")).Return(nil)

		reported := decimal.NewFromInt(1500)
		expected := decimal.NewFromInt(1350)
		info, err := env.svc.FileComplaint(ctx, FileComplaintInput{
			ComplainantID: complainant,
			Type:          complaint.TypePriceViolation,
			Subject:       "Overcharged for DAP",
			Description:   "The retailer charged far more than the notified rate for a 50kg bag.",
			RetailerID:    &r.ID,
			ReportedPrice: &reported,
			ExpectedPrice: &expected,
		})

		require.NoError(t, err)
		assert.Equal(t, complaint.StatusPending, info.Status)
		assert.Equal(t, complaint.PriorityMedium, info.Priority)
		require.NotNil(t, info.PriceDifference)
		assert.True(t, info.PriceDifference.Equal(decimal.NewFromInt(150)))
		require.NotNil(t, info.DistrictID)
		assert.Equal(t, r.DistrictID, *info.DistrictID)
		assert.Regexp(t, `^COMP-\d{8}-\d{4}$`, info.Code)
	})

	t.Run("price violation requires both prices", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.svc.FileComplaint(ctx, FileComplaintInput{
			ComplainantID: complainant,
			Type:          complaint.TypePriceViolation,
			Subject:       "Overcharged for DAP",
			Description:   "The retailer charged far more than the notified rate for a 50kg bag.",
		})

		assertDomainErrorCode(t, err, "INVALID_PRICE")
	})

	t.Run("regenerates the code on collision", func(t *testing.T) {
		env := newTestEnv()

		env.complaints.On("ExistsByCode", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
		env.complaints.On("ExistsByCode", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
		env.complaints.On("Create", ctx, mock.AnythingOfType("*complaint.Complaint")).Return(nil)

		_, err := env.svc.FileComplaint(ctx, FileComplaintInput{
			ComplainantID: complainant,
			Type:          complaint.TypeServiceIssue,
			Subject:       "Refused to issue a receipt",
			Description:   "The retailer refused to give a receipt for the purchased fertilizer bags.",
		})

		require.NoError(t, err)
		env.complaints.AssertNumberOfCalls(t, "ExistsByCode", 2)
	})

	t.Run("rejects a short description", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.svc.FileComplaint(ctx, FileComplaintInput{
			ComplainantID: complainant,
			Type:          complaint.TypeOther,
			Subject:       "Short one",
			Description:   "too short",
		})

		assertDomainErrorCode(t, err, "INVALID_DESCRIPTION")
	})
}

func TestService_AssignComplaint(t *testing.T) {
	ctx := context.Background()

	t.Run("assignment moves pending under review and notifies", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)
		assignee := uuid.New()

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)
		env.complaints.On("Update", ctx, c).Return(nil)

		info, err := env.svc.AssignComplaint(ctx, AssignComplaintInput{
			ComplaintID: c.ID,
			AssigneeID:  assignee,
			ActorID:     uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, complaint.StatusUnderReview, info.Status)
		require.NotNil(t, info.AssigneeID)
		assert.Equal(t, assignee, *info.AssigneeID)

		require.Len(t, env.history.rows, 1)
		assert.Equal(t, complaint.StatusPending, env.history.rows[0].FromStatus)
		assert.Equal(t, complaint.StatusUnderReview, env.history.rows[0].ToStatus)

		// the complainant hears about the status change, the assignee
		// about the assignment
		require.Len(t, env.notifications.rows, 2)
		assert.Equal(t, c.ComplainantID, env.notifications.rows[0].UserID)
		assert.Equal(t, assignee, env.notifications.rows[1].UserID)
	})

	t.Run("closed complaints cannot be assigned", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypeOther)
		actor := uuid.New()
		require.NoError(t, c.ChangeStatus(complaint.StatusRejected, actor, "out of scope"))

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := env.svc.AssignComplaint(ctx, AssignComplaintInput{
			ComplaintID: c.ID,
			AssigneeID:  uuid.New(),
			ActorID:     actor,
		})

		assertDomainErrorCode(t, err, "INVALID_STATE")
	})
}

func TestService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	advance := func(t *testing.T, env *testEnv, c *complaint.Complaint, target complaint.ComplaintStatus, note string) (*ComplaintInfo, error) {
		t.Helper()
		return env.svc.ChangeStatus(ctx, ChangeStatusInput{
			ComplaintID: c.ID,
			Target:      target,
			ActorID:     uuid.New(),
			Note:        note,
		})
	}

	t.Run("walks the workflow to resolution", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)
		require.NoError(t, c.Assign(uuid.New(), uuid.New()))
		c.ClearDomainEvents()

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)
		env.complaints.On("Update", ctx, c).Return(nil)

		_, err := advance(t, env, c, complaint.StatusInvestigation, "")
		require.NoError(t, err)

		info, err := advance(t, env, c, complaint.StatusResolved, "retailer warned, price corrected")
		require.NoError(t, err)

		assert.Equal(t, complaint.StatusResolved, info.Status)
		assert.Equal(t, "retailer warned, price corrected", info.ResolutionNote)
		require.NotNil(t, info.ResolvedAt)
		assert.Len(t, env.history.rows, 2)

		// the complainant is notified for each transition
		assert.Len(t, env.notifications.rows, 2)
		assert.Equal(t, c.ComplainantID, env.notifications.rows[0].UserID)
	})

	t.Run("resolving requires a note", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)
		require.NoError(t, c.Assign(uuid.New(), uuid.New()))
		require.NoError(t, c.ChangeStatus(complaint.StatusInvestigation, uuid.New(), ""))
		c.ClearDomainEvents()

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := advance(t, env, c, complaint.StatusResolved, "")

		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})

	t.Run("skipping workflow states is rejected", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := advance(t, env, c, complaint.StatusResolved, "done")

		assertDomainErrorCode(t, err, "INVALID_TRANSITION")
	})

	t.Run("rejection is allowed from any open state", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypeOther)

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)
		env.complaints.On("Update", ctx, c).Return(nil)

		info, err := advance(t, env, c, complaint.StatusRejected, "duplicate of an earlier complaint")

		require.NoError(t, err)
		assert.Equal(t, complaint.StatusRejected, info.Status)
	})
}

func TestService_AddEvidence(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches evidence to an open complaint", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)
		caller := Caller{UserID: c.ComplainantID, Role: identity.RoleFarmer}

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		info, err := env.svc.AddEvidence(ctx, AddEvidenceInput{
			ComplaintID: c.ID,
			URL:         "https://photos.example.org/receipt-4271.jpg",
			Caption:     "receipt photo",
			AddedBy:     caller.UserID,
		}, caller)

		require.NoError(t, err)
		assert.Equal(t, "receipt photo", info.Caption)

		rows, err := env.svc.GetEvidence(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("rejects a non-http URL", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)
		caller := Caller{UserID: c.ComplainantID, Role: identity.RoleFarmer}

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := env.svc.AddEvidence(ctx, AddEvidenceInput{
			ComplaintID: c.ID,
			URL:         "ftp://files.example.org/receipt.jpg",
			AddedBy:     caller.UserID,
		}, caller)

		assertDomainErrorCode(t, err, "INVALID_URL")
	})

	t.Run("rejects evidence on a closed complaint", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypeOther)
		require.NoError(t, c.ChangeStatus(complaint.StatusRejected, uuid.New(), "out of scope"))
		caller := Caller{UserID: c.ComplainantID, Role: identity.RoleFarmer}

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := env.svc.AddEvidence(ctx, AddEvidenceInput{
			ComplaintID: c.ID,
			URL:         "https://photos.example.org/receipt.jpg",
			AddedBy:     caller.UserID,
		}, caller)

		assertDomainErrorCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects evidence from a user who did not file the complaint", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)
		stranger := Caller{UserID: uuid.New(), Role: identity.RoleFarmer}

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := env.svc.AddEvidence(ctx, AddEvidenceInput{
			ComplaintID: c.ID,
			URL:         "https://photos.example.org/receipt.jpg",
			AddedBy:     stranger.UserID,
		}, stranger)

		assertDomainErrorCode(t, err, "FORBIDDEN")
		rows, err := env.svc.GetEvidence(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("allows staff to attach evidence to any complaint", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)
		officer := Caller{UserID: uuid.New(), Role: identity.RoleInspector}

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := env.svc.AddEvidence(ctx, AddEvidenceInput{
			ComplaintID: c.ID,
			URL:         "https://photos.example.org/site-visit.jpg",
			Caption:     "site visit photo",
			AddedBy:     officer.UserID,
		}, officer)

		require.NoError(t, err)
	})
}

func TestService_ComplaintVisibility(t *testing.T) {
	ctx := context.Background()

	t.Run("complainant reads their own complaint", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		info, err := env.svc.GetComplaint(ctx, c.ID, Caller{UserID: c.ComplainantID, Role: identity.RoleFarmer})

		require.NoError(t, err)
		assert.Equal(t, c.ID, info.ID)
	})

	t.Run("another user's complaint reads as not found", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypePriceViolation)

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)
		env.complaints.On("FindByCode", ctx, c.Code).Return(c, nil)

		stranger := Caller{UserID: uuid.New(), Role: identity.RoleRetailer}

		_, err := env.svc.GetComplaint(ctx, c.ID, stranger)
		assertDomainErrorCode(t, err, "COMPLAINT_NOT_FOUND")

		_, err = env.svc.GetComplaintByCode(ctx, c.Code, stranger)
		assertDomainErrorCode(t, err, "COMPLAINT_NOT_FOUND")
	})

	t.Run("staff read any complaint", func(t *testing.T) {
		env := newTestEnv()
		c := mustComplaint(t, complaint.TypeServiceIssue)

		env.complaints.On("FindByID", ctx, c.ID).Return(c, nil)

		info, err := env.svc.GetComplaint(ctx, c.ID, Caller{UserID: uuid.New(), Role: identity.RoleDistrictOfficer})

		require.NoError(t, err)
		assert.Equal(t, c.ID, info.ID)
	})
}

func TestService_Notifications(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv()
	c := mustComplaint(t, complaint.TypePriceViolation)
	user := uuid.New()

	env.notifications.rows = append(env.notifications.rows,
		complaint.NewNotification(user, c.ID, "Complaint update", "status changed"),
		complaint.NewNotification(user, c.ID, "Complaint update", "assigned"),
		complaint.NewNotification(uuid.New(), c.ID, "Complaint update", "someone else"),
	)

	result, err := env.svc.ListNotifications(ctx, user, false, 1, 20)
	require.NoError(t, err)
	assert.Len(t, result.Notifications, 2)
	assert.Equal(t, int64(2), result.Unread)

	require.NoError(t, env.svc.MarkNotificationRead(ctx, user, env.notifications.rows[0].ID))
	assert.True(t, env.notifications.rows[0].Read)

	err = env.svc.MarkNotificationRead(ctx, uuid.New(), env.notifications.rows[1].ID)
	assertDomainErrorCode(t, err, "NOT_OWNER")
}
