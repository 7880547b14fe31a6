package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/services"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

type MeetingHandler struct {
	svc services.MeetingService
}

func NewMeetingHandler(svc services.MeetingService) *MeetingHandler {
	return &MeetingHandler{svc: svc}
}

type CreateMeetingRequest struct {
	InterviewID string `json:"interview_id" binding:"required"`
}

type MeetingTokenRequest struct {
	RoomName string `json:"room_name" binding:"required"`
}

type EndMeetingRequest struct {
	SessionID  string        `json:"session_id" binding:"required"`
	Transcript []models.Turn `json:"transcript"`
}

func (h *MeetingHandler) Create(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MeetingHandler.Create", "interview_id is required", err))
		return
	}

	meeting, err := h.svc.CreateMeeting(c.Request.Context(), req.InterviewID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": meeting})
}

func (h *MeetingHandler) Token(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req MeetingTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MeetingHandler.Token", "room_name is required", err))
		return
	}

	token, err := h.svc.CreateToken(c.Request.Context(), req.RoomName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meeting_token": token})
}

func (h *MeetingHandler) End(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req EndMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MeetingHandler.End", "session_id is required", err))
		return
	}

	meeting, err := h.svc.End(c.Request.Context(), req.SessionID, req.Transcript)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": meeting})
}
