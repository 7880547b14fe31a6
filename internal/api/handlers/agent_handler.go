package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/services"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

type AgentHandler struct {
	svc services.BotSessionService
}

func NewAgentHandler(svc services.BotSessionService) *AgentHandler {
	return &AgentHandler{svc: svc}
}

type CreateBotSessionRequest struct {
	InterviewID string `json:"interview_id" binding:"required"`
}

type CallingRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

type CallingResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type VoiceCallingRequest struct {
	SessionID   string `json:"session_id" binding:"required"`
	AudioBase64 string `json:"audio_base64" binding:"required"`
	Language    string `json:"language"`
}

type VoiceCallingResponse struct {
	SessionID        string `json:"session_id"`
	Reply            string `json:"reply"`
	ReplyAudioBase64 string `json:"reply_audio_base64,omitempty"`
}

type EndCallRequest struct {
	SessionID  string        `json:"session_id" binding:"required"`
	Transcript []models.Turn `json:"transcript"`
}

func (h *AgentHandler) CreateSession(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req CreateBotSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AgentHandler.CreateSession", "interview_id is required", err))
		return
	}

	session, err := h.svc.Create(c.Request.Context(), req.InterviewID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *AgentHandler) GetSession(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	session, err := h.svc.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *AgentHandler) Calling(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req CallingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AgentHandler.Calling", "session_id and text are required", err))
		return
	}

	reply, err := h.svc.RecordTurn(c.Request.Context(), req.SessionID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, CallingResponse{SessionID: req.SessionID, Reply: reply})
}

func (h *AgentHandler) VoiceCalling(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req VoiceCallingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AgentHandler.VoiceCalling", "session_id and audio_base64 are required", err))
		return
	}

	raw := req.AudioBase64
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[i+1:] // strip data:...;base64,
	}
	audio, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AgentHandler.VoiceCalling", "invalid audio_base64", err))
		return
	}

	reply, err := h.svc.RecordVoiceTurn(c.Request.Context(), req.SessionID, audio, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := VoiceCallingResponse{SessionID: req.SessionID, Reply: reply.Text}
	if len(reply.Audio) > 0 {
		resp.ReplyAudioBase64 = base64.StdEncoding.EncodeToString(reply.Audio)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AgentHandler) EndCall(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req EndCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AgentHandler.EndCall", "session_id is required", err))
		return
	}

	session, err := h.svc.End(c.Request.Context(), req.SessionID, req.Transcript)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "score": session.Score})
}
