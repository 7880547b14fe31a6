package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chronohq/chrono-interviews/internal/services"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type ScheduleRequest struct {
	IntervieweeID  string    `json:"interviewee_id" binding:"required"`
	Date           time.Time `json:"date" binding:"required"`
	JobDescription string    `json:"job_description" binding:"required"`
	IsAI           bool      `json:"is_ai"`
}

func (h *InterviewHandler) Schedule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Schedule", "interviewee_id, date, and job_description are required", err))
		return
	}

	iv, err := h.svc.Schedule(c.Request.Context(), services.ScheduleInput{
		InterviewerID:  userID,
		IntervieweeID:  req.IntervieweeID,
		Date:           req.Date,
		JobDescription: req.JobDescription,
		IsAI:           req.IsAI,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"interview": iv})
}

func (h *InterviewHandler) ListInterviewees(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	users, err := h.svc.ListInterviewees(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviewees": users})
}

func (h *InterviewHandler) MyInterviews(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForInterviewer(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": rows})
}

func (h *InterviewHandler) IntervieweeInterviews(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForInterviewee(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": rows})
}
