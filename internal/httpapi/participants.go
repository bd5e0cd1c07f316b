package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"registration/internal/metrics"
	"registration/internal/queue"
	"registration/internal/registration"
)

type participantRequest struct {
	Phone         string `json:"phone" binding:"required"`
	NameEnglish   string `json:"name_english"`
	SSCYear       string `json:"ssc_year"`
	TshirtSize    string `json:"tshirt_size"`
	FamilyMembers int    `json:"family_members"`
	Children      int    `json:"children"`
	Driver        string `json:"driver"`
	Religion      string `json:"religion"`
}

// CreateParticipant registers a participant, assigning a fresh short id.
func (h *Handler) CreateParticipant(c *gin.Context) {
	var req participantRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, kindInvalid, err.Error(), nil)
		return
	}

	p, err := h.participants.Register(c.Request.Context(), registration.Participant{
		Phone:         req.Phone,
		NameEnglish:   req.NameEnglish,
		SSCYear:       req.SSCYear,
		TshirtSize:    req.TshirtSize,
		FamilyMembers: req.FamilyMembers,
		Children:      req.Children,
		Driver:        req.Driver,
		Religion:      req.Religion,
	})
	if err != nil {
		if _, ok := err.(*registration.DuplicatePhoneError); ok {
			metrics.DuplicateRegistrationsTotal.Inc()
		}
		writeError(c, err)
		return
	}

	metrics.RegistrationsTotal.Inc()
	h.publish(c, queue.Message{Type: queue.TypeRegistered, Body: []byte(p.ID)})
	c.JSON(http.StatusCreated, gin.H{"success": true, "participant": p})
}

// UpdateParticipant applies a partial update by participant id.
func (h *Handler) UpdateParticipant(c *gin.Context) {
	var req struct {
		NameEnglish   *string `json:"name_english"`
		SSCYear       *string `json:"ssc_year"`
		TshirtSize    *string `json:"tshirt_size"`
		FamilyMembers *int    `json:"family_members"`
		Children      *int    `json:"children"`
		Driver        *string `json:"driver"`
		Religion      *string `json:"religion"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, kindInvalid, err.Error(), nil)
		return
	}

	upd := registration.Update{
		NameEnglish:   req.NameEnglish,
		SSCYear:       req.SSCYear,
		TshirtSize:    req.TshirtSize,
		FamilyMembers: req.FamilyMembers,
		Children:      req.Children,
		Driver:        req.Driver,
		Religion:      req.Religion,
	}
	if upd.Empty() {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "nothing to update"})
		return
	}
	if err := h.participants.Update(c.Request.Context(), c.Param("id"), upd); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "participant updated"})
}

// GetParticipant returns one participant by id.
func (h *Handler) GetParticipant(c *gin.Context) {
	p, err := h.participants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteParticipant removes a participant by id.
func (h *Handler) DeleteParticipant(c *gin.Context) {
	if err := h.participants.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "participant deleted"})
}

func listFilter(c *gin.Context) registration.Filter {
	return registration.Filter{
		Search: c.Query("search"),
		Batch:  c.Query("selectedBatch"),
	}
}

// ListParticipants returns a page of participants, newest first.
func (h *Handler) ListParticipants(c *gin.Context) {
	f := listFilter(c)
	f.Paginate = true
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	f.Size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))

	participants, err := h.participants.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	if participants == nil {
		participants = []registration.Participant{}
	}
	c.JSON(http.StatusOK, gin.H{"participants": participants, "page": f.Page, "size": f.Size})
}

// CountParticipants returns the number of participants matching the filters.
func (h *Handler) CountParticipants(c *gin.Context) {
	total, err := h.participants.Count(c.Request.Context(), listFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

// YearCounts returns per-batch registration counts, optionally limited to
// one payment status.
func (h *Handler) YearCounts(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := h.participants.YearCounts(c.Request.Context(), status)
		if err != nil {
			writeError(c, err)
			return
		}
		if counts == nil {
			counts = []registration.YearCount{}
		}
		c.JSON(http.StatusOK, counts)
	}
}

// StatusSummary reduces the paid subset to derived totals.
func (h *Handler) StatusSummary(c *gin.Context) {
	sum, err := h.participants.Summarize(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// FilteredRegistrations lists participants by payment status and batch.
func (h *Handler) FilteredRegistrations(c *gin.Context) {
	participants, err := h.participants.List(c.Request.Context(), registration.Filter{
		Status: c.Query("status"),
		Batch:  c.Query("targetBatch"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if participants == nil {
		participants = []registration.Participant{}
	}
	c.JSON(http.StatusOK, participants)
}

// ViewBatch lists all participants of one batch.
func (h *Handler) ViewBatch(c *gin.Context) {
	participants, err := h.participants.List(c.Request.Context(), registration.Filter{
		Batch: c.Query("targetBatch"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if participants == nil {
		participants = []registration.Participant{}
	}
	c.JSON(http.StatusOK, participants)
}

// SearchParticipants matches a case-insensitive substring of the English
// name, optionally within one batch.
func (h *Handler) SearchParticipants(c *gin.Context) {
	participants, err := h.participants.List(c.Request.Context(), registration.Filter{
		Search: c.Query("query"),
		Batch:  c.Query("selectedBatch"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if participants == nil {
		participants = []registration.Participant{}
	}
	c.JSON(http.StatusOK, participants)
}
