package handler

import (
	"github.com/fertigov/backend/internal/application/complaint"
	domaincomplaint "github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/fertigov/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ComplaintHandler handles complaint workflow HTTP requests
type ComplaintHandler struct {
	BaseHandler
	complaintService *complaint.Service
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *complaint.Service) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
	}
}

// ListComplaintsRequest contains query parameters for listing complaints
type ListComplaintsRequest struct {
	ComplainantID string `form:"complainant_id" binding:"omitempty,uuid"`
	RetailerID    string `form:"retailer_id" binding:"omitempty,uuid"`
	AssigneeID    string `form:"assignee_id" binding:"omitempty,uuid"`
	DistrictID    string `form:"district_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=pending under_review investigation waiting_response resolved rejected closed"`
	Type          string `form:"type" binding:"omitempty,oneof=price_violation service_issue product_quality other"`
	Priority      string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Since         string `form:"since"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
	SortBy        string `form:"sort_by"`
	SortOrder     string `form:"sort_order"`
}

// ListNotificationsRequest contains query parameters for listing notifications
type ListNotificationsRequest struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size"`
}

// ComplaintDetailResponse is a complaint with its history and evidence
type ComplaintDetailResponse struct {
	Complaint *complaint.ComplaintInfo      `json:"complaint"`
	History   []complaint.StatusHistoryInfo `json:"history"`
	Evidence  []complaint.EvidenceInfo      `json:"evidence"`
}

// complaintCaller builds the caller identity from the JWT claims
func complaintCaller(c *gin.Context) (complaint.Caller, error) {
	userID, err := getUserID(c)
	if err != nil {
		return complaint.Caller{}, err
	}
	return complaint.Caller{
		UserID: userID,
		Role:   identity.Role(middleware.GetJWTRole(c)),
	}, nil
}

// File registers a new complaint from the authenticated user
func (h *ComplaintHandler) File(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input complaint.FileComplaintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ComplainantID = userID

	info, err := h.complaintService.FileComplaint(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// GetByID returns a complaint with its status history and evidence
func (h *ComplaintHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid complaint ID")
		return
	}

	caller, err := complaintCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.complaintService.GetComplaint(c.Request.Context(), id, caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	history, err := h.complaintService.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	evidence, err := h.complaintService.GetEvidence(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ComplaintDetailResponse{
		Complaint: info,
		History:   history,
		Evidence:  evidence,
	})
}

// GetByCode returns a complaint by its tracking code
func (h *ComplaintHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Missing complaint code")
		return
	}

	caller, err := complaintCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.complaintService.GetComplaintByCode(c.Request.Context(), code, caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// List returns a page of complaints matching the query
func (h *ComplaintHandler) List(c *gin.Context) {
	var req ListComplaintsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := complaint.ListComplaintsInput{
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	complainantID, err := parseOptionalUUID(req.ComplainantID)
	if err != nil {
		h.BadRequest(c, "Invalid complainant ID")
		return
	}
	input.ComplainantID = complainantID
	retailerID, err := parseOptionalUUID(req.RetailerID)
	if err != nil {
		h.BadRequest(c, "Invalid retailer ID")
		return
	}
	input.RetailerID = retailerID
	assigneeID, err := parseOptionalUUID(req.AssigneeID)
	if err != nil {
		h.BadRequest(c, "Invalid assignee ID")
		return
	}
	input.AssigneeID = assigneeID
	districtID, err := parseOptionalUUID(req.DistrictID)
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}
	input.DistrictID = districtID
	if req.Status != "" {
		s := domaincomplaint.ComplaintStatus(req.Status)
		input.Status = &s
	}
	if req.Type != "" {
		t := domaincomplaint.ComplaintType(req.Type)
		input.Type = &t
	}
	if req.Priority != "" {
		p := domaincomplaint.ComplaintPriority(req.Priority)
		input.Priority = &p
	}
	since, err := parseOptionalTime(req.Since)
	if err != nil {
		h.BadRequest(c, "Invalid since timestamp")
		return
	}
	input.Since = since

	result, err := h.complaintService.ListComplaints(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Complaints, result.Total, result.Page, result.PageSize)
}

// ListMine returns the authenticated user's own complaints
func (h *ComplaintHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListComplaintsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := complaint.ListComplaintsInput{
		ComplainantID: &userID,
		Page:          req.Page,
		PageSize:      req.PageSize,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	}
	if req.Status != "" {
		s := domaincomplaint.ComplaintStatus(req.Status)
		input.Status = &s
	}

	result, err := h.complaintService.ListComplaints(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Complaints, result.Total, result.Page, result.PageSize)
}

// Assign routes a complaint to an officer for review
func (h *ComplaintHandler) Assign(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid complaint ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input complaint.AssignComplaintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ComplaintID = id
	input.ActorID = userID

	info, err := h.complaintService.AssignComplaint(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ChangeStatus moves a complaint through its workflow
func (h *ComplaintHandler) ChangeStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid complaint ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input complaint.ChangeStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ComplaintID = id
	input.ActorID = userID

	info, err := h.complaintService.ChangeStatus(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// SetPriority changes a complaint's priority
func (h *ComplaintHandler) SetPriority(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid complaint ID")
		return
	}

	var input complaint.SetPriorityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ComplaintID = id

	info, err := h.complaintService.SetPriority(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// AddEvidence attaches an evidence link to a complaint
func (h *ComplaintHandler) AddEvidence(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid complaint ID")
		return
	}

	caller, err := complaintCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input complaint.AddEvidenceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ComplaintID = id
	input.AddedBy = caller.UserID

	info, err := h.complaintService.AddEvidence(c.Request.Context(), input, caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// GetStats returns aggregate complaint statistics
func (h *ComplaintHandler) GetStats(c *gin.Context) {
	stats, err := h.complaintService.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// ListNotifications returns the authenticated user's notifications
func (h *ComplaintHandler) ListNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.complaintService.ListNotifications(c.Request.Context(), userID, req.UnreadOnly, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkNotificationRead marks one of the user's notifications as read
func (h *ComplaintHandler) MarkNotificationRead(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.complaintService.MarkNotificationRead(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
