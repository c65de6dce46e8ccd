package complaint

import (
	"context"
	"time"

	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCodeAttempts = 5

// Service manages the complaint workflow: filing, triage, assignment,
// status transitions, evidence, and notifications.
type Service struct {
	complaintRepo    complaint.ComplaintRepository
	historyRepo      complaint.StatusHistoryRepository
	evidenceRepo     complaint.EvidenceRepository
	notificationRepo complaint.NotificationRepository
	retailerRepo     retailer.RetailerRepository
	eventBus         shared.EventPublisher
	logger           *zap.Logger
}

// NewService creates a new complaint service
func NewService(
	complaintRepo complaint.ComplaintRepository,
	historyRepo complaint.StatusHistoryRepository,
	evidenceRepo complaint.EvidenceRepository,
	notificationRepo complaint.NotificationRepository,
	retailerRepo retailer.RetailerRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		complaintRepo:    complaintRepo,
		historyRepo:      historyRepo,
		evidenceRepo:     evidenceRepo,
		notificationRepo: notificationRepo,
		retailerRepo:     retailerRepo,
		eventBus:         eventBus,
		logger:           logger,
	}
}

// FileComplaint files a new complaint. Price-violation complaints carry the
// reported and expected price; the reference code is regenerated on collision.
func (s *Service) FileComplaint(ctx context.Context, input FileComplaintInput) (*ComplaintInfo, error) {
	c, err := complaint.NewComplaint(input.ComplainantID, input.Type, input.Subject, input.Description)
	if err != nil {
		return nil, err
	}

	if input.RetailerID != nil {
		r, err := s.retailerRepo.FindByID(ctx, *input.RetailerID)
		if err != nil {
			return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer not found")
		}
		c.AgainstRetailer(r.ID)
		if input.DistrictID == nil {
			c.InDistrict(r.DistrictID)
		}
	}
	if input.SKUID != nil {
		c.AboutSKU(*input.SKUID)
	}
	if input.DistrictID != nil {
		c.InDistrict(*input.DistrictID)
	}

	if input.Type == complaint.TypePriceViolation {
		if input.ReportedPrice == nil || input.ExpectedPrice == nil {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price-violation complaints require reported and expected prices")
		}
		if err := c.SetPrices(*input.ReportedPrice, *input.ExpectedPrice); err != nil {
			return nil, err
		}
	}

	if err := s.ensureUniqueCode(ctx, c); err != nil {
		return nil, err
	}

	if err := s.complaintRepo.Create(ctx, c); err != nil {
		s.logger.Error("Failed to create complaint", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to file complaint")
	}

	s.publishEvents(ctx, c)

	s.logger.Info("Complaint filed",
		zap.String("code", c.Code),
		zap.String("type", string(c.Type)))

	info := NewComplaintInfo(c)
	return &info, nil
}

// ensureUniqueCode regenerates the reference code until it is free
func (s *Service) ensureUniqueCode(ctx context.Context, c *complaint.Complaint) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		taken, err := s.complaintRepo.ExistsByCode(ctx, c.Code)
		if err != nil {
			s.logger.Error("Failed to check complaint code", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to check complaint code")
		}
		if !taken {
			return nil
		}
		c.Code = complaint.GenerateCode(time.Now())
	}
	return shared.NewDomainError("INTERNAL_ERROR", "Failed to allocate a complaint code")
}

// GetComplaint retrieves a complaint by ID. Non-staff callers only see
// complaints they filed; anything else reads as not found.
func (s *Service) GetComplaint(ctx context.Context, id uuid.UUID, caller Caller) (*ComplaintInfo, error) {
	c, err := s.complaintRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	}
	if !canViewComplaint(c, caller) {
		return nil, shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	}

	info := NewComplaintInfo(c)
	return &info, nil
}

// GetComplaintByCode retrieves a complaint by its reference code, under the
// same visibility rule as GetComplaint
func (s *Service) GetComplaintByCode(ctx context.Context, code string, caller Caller) (*ComplaintInfo, error) {
	c, err := s.complaintRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	}
	if !canViewComplaint(c, caller) {
		return nil, shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	}

	info := NewComplaintInfo(c)
	return &info, nil
}

// canViewComplaint gates complaint detail access: staff see everything,
// other callers only their own complaints.
func canViewComplaint(c *complaint.Complaint, caller Caller) bool {
	return caller.Role.IsStaff() || c.ComplainantID == caller.UserID
}

// ListComplaints returns a page of complaints matching the query
func (s *Service) ListComplaints(ctx context.Context, input ListComplaintsInput) (*ListComplaintsResult, error) {
	filter := complaint.NewFilter()
	filter.ComplainantID = input.ComplainantID
	filter.RetailerID = input.RetailerID
	filter.AssigneeID = input.AssigneeID
	filter.DistrictID = input.DistrictID
	filter.Status = input.Status
	filter.Type = input.Type
	filter.Priority = input.Priority
	filter.Since = input.Since
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		filter.SortOrder = input.SortOrder
	}

	complaints, total, err := s.complaintRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list complaints", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list complaints")
	}

	infos := make([]ComplaintInfo, 0, len(complaints))
	for _, c := range complaints {
		infos = append(infos, NewComplaintInfo(c))
	}

	return &ListComplaintsResult{
		Complaints: infos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

// AssignComplaint hands a complaint to an officer or inspector. Assigning a
// pending complaint moves it under review; the assignee is notified.
func (s *Service) AssignComplaint(ctx context.Context, input AssignComplaintInput) (*ComplaintInfo, error) {
	c, err := s.complaintRepo.FindByID(ctx, input.ComplaintID)
	if err != nil {
		return nil, shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	}

	from := c.Status
	if err := c.Assign(input.AssigneeID, input.ActorID); err != nil {
		return nil, err
	}

	if err := s.complaintRepo.Update(ctx, c); err != nil {
		s.logger.Error("Failed to assign complaint", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign complaint")
	}

	if c.Status != from {
		s.recordTransition(ctx, c, from, input.ActorID, "assigned")
	}
	s.publishEvents(ctx, c)

	info := NewComplaintInfo(c)
	return &info, nil
}

// ChangeStatus moves a complaint through the workflow, records the
// transition, and notifies the complainant.
func (s *Service) ChangeStatus(ctx context.Context, input ChangeStatusInput) (*ComplaintInfo, error) {
	c, err := s.complaintRepo.FindByID(ctx, input.ComplaintID)
	if err != nil {
		return nil, shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	}

	from := c.Status
	if err := c.ChangeStatus(input.Target, input.ActorID, input.Note); err != nil {
		return nil, err
	}

	if err := s.complaintRepo.Update(ctx, c); err != nil {
		s.logger.Error("Failed to update complaint status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update complaint status")
	}

	s.recordTransition(ctx, c, from, input.ActorID, input.Note)
	s.publishEvents(ctx, c)

	s.logger.Info("Complaint status changed",
		zap.String("code", c.Code),
		zap.String("from", string(from)),
		zap.String("to", string(c.Status)))

	info := NewComplaintInfo(c)
	return &info, nil
}

// SetPriority changes the triage priority of an open complaint
func (s *Service) SetPriority(ctx context.Context, input SetPriorityInput) (*ComplaintInfo, error) {
	c, err := s.complaintRepo.FindByID(ctx, input.ComplaintID)
	if err != nil {
		return nil, shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	}

	if err := c.SetPriority(input.Priority); err != nil {
		return nil, err
	}

	if err := s.complaintRepo.Update(ctx, c); err != nil {
		s.logger.Error("Failed to set complaint priority", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set complaint priority")
	}

	info := NewComplaintInfo(c)
	return &info, nil
}

// AddEvidence attaches evidence metadata to an open complaint. Only the
// complainant and government staff may attach evidence.
func (s *Service) AddEvidence(ctx context.Context, input AddEvidenceInput, caller Caller) (*EvidenceInfo, error) {
	c, err := s.complaintRepo.FindByID(ctx, input.ComplaintID)
	if err != nil {
		return nil, shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	}
	if !caller.Role.IsStaff() && c.ComplainantID != caller.UserID {
		return nil, shared.ErrForbidden
	}
	if c.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Evidence cannot be added to a closed complaint")
	}

	e, err := complaint.NewEvidence(c.ID, input.URL, input.Caption, input.AddedBy)
	if err != nil {
		return nil, err
	}

	if err := s.evidenceRepo.Create(ctx, e); err != nil {
		s.logger.Error("Failed to attach evidence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to attach evidence")
	}

	return &EvidenceInfo{
		ID:        e.ID,
		URL:       e.URL,
		Caption:   e.Caption,
		AddedBy:   e.AddedBy,
		CreatedAt: e.CreatedAt,
	}, nil
}

// GetEvidence returns the evidence attached to a complaint
func (s *Service) GetEvidence(ctx context.Context, complaintID uuid.UUID) ([]EvidenceInfo, error) {
	rows, err := s.evidenceRepo.FindByComplaint(ctx, complaintID)
	if err != nil {
		s.logger.Error("Failed to load evidence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load evidence")
	}

	infos := make([]EvidenceInfo, 0, len(rows))
	for _, e := range rows {
		infos = append(infos, EvidenceInfo{
			ID:        e.ID,
			URL:       e.URL,
			Caption:   e.Caption,
			AddedBy:   e.AddedBy,
			CreatedAt: e.CreatedAt,
		})
	}
	return infos, nil
}

// GetHistory returns a complaint's status transitions, oldest first
func (s *Service) GetHistory(ctx context.Context, complaintID uuid.UUID) ([]StatusHistoryInfo, error) {
	rows, err := s.historyRepo.FindByComplaint(ctx, complaintID)
	if err != nil {
		s.logger.Error("Failed to load status history", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load status history")
	}

	infos := make([]StatusHistoryInfo, 0, len(rows))
	for _, h := range rows {
		infos = append(infos, StatusHistoryInfo{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			ActorID:    h.ActorID,
			Note:       h.Note,
			CreatedAt:  h.CreatedAt,
		})
	}
	return infos, nil
}

// GetStats returns aggregate complaint statistics
func (s *Service) GetStats(ctx context.Context) (*StatsInfo, error) {
	stats, err := s.complaintRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("Failed to load complaint stats", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load complaint statistics")
	}

	return &StatsInfo{
		Total:                stats.Total,
		ByStatus:             stats.ByStatus,
		ByType:               stats.ByType,
		ByPriority:           stats.ByPriority,
		AvgResolutionSeconds: stats.AvgResolutionSeconds,
	}, nil
}

// ListNotifications returns a page of a user's notifications
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) (*ListNotificationsResult, error) {
	rows, total, err := s.notificationRepo.FindByUser(ctx, userID, unreadOnly, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list notifications")
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count notifications")
	}

	infos := make([]NotificationInfo, 0, len(rows))
	for _, n := range rows {
		infos = append(infos, NotificationInfo{
			ID:          n.ID,
			ComplaintID: n.ComplaintID,
			Title:       n.Title,
			Body:        n.Body,
			Read:        n.Read,
			ReadAt:      n.ReadAt,
			CreatedAt:   n.CreatedAt,
		})
	}

	return &ListNotificationsResult{
		Notifications: infos,
		Total:         total,
		Unread:        unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// MarkNotificationRead marks a user's notification as read
func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return shared.NewDomainError("NOTIFICATION_NOT_FOUND", "Notification not found")
	}
	if n.UserID != userID {
		return shared.NewDomainError("NOT_OWNER", "The notification belongs to another user")
	}

	n.MarkRead()
	if err := s.notificationRepo.Update(ctx, n); err != nil {
		s.logger.Error("Failed to mark notification read", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update notification")
	}
	return nil
}

func (s *Service) recordTransition(ctx context.Context, c *complaint.Complaint, from complaint.ComplaintStatus, actorID uuid.UUID, note string) {
	h := complaint.NewStatusHistory(c.ID, from, c.Status, actorID, note)
	if err := s.historyRepo.Create(ctx, h); err != nil {
		s.logger.Error("Failed to record status transition",
			zap.String("complaint_id", c.ID.String()),
			zap.Error(err))
	}
}

func (s *Service) publishEvents(ctx context.Context, c *complaint.Complaint) {
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish complaint events", zap.Error(err))
	}
	c.ClearDomainEvents()
}
