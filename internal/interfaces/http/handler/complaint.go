package handler

import (
	"github.com/gin-gonic/gin"

	appcomplaint "github.com/storefront/backend/internal/application/complaint"
)

// ComplaintHandler serves complaint intake and the operator queue
type ComplaintHandler struct {
	BaseHandler
	complaints *appcomplaint.ComplaintService
}

// NewComplaintHandler creates a new ComplaintHandler
func NewComplaintHandler(complaints *appcomplaint.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

// Submit godoc
// @Summary      Submit a complaint
// @Description  Open to anyone. The acknowledgement email outcome is reported in notification.status.
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        request body appcomplaint.SubmitComplaintRequest true "Complaint"
// @Success      201 {object} dto.Response{data=appcomplaint.SubmitComplaintResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /complaints [post]
func (h *ComplaintHandler) Submit(c *gin.Context) {
	var req appcomplaint.SubmitComplaintRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.complaints.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Complaint received", result)
}

// List handles GET /operator/complaints
func (h *ComplaintHandler) List(c *gin.Context) {
	complaints, err := h.complaints.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, complaints)
}

// UpdateStatus handles PUT /operator/complaints/:number/status
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	var req appcomplaint.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.complaints.UpdateStatus(c.Request.Context(), c.Param("number"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Status updated", result)
}
