package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/chronohq/chrono-interviews/internal/services"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

// WSHandler carries a continuous voice interview over one socket:
// the client streams voice turns, the server answers with reply text
// and synthesized audio. Turns are processed one at a time, in arrival
// order.
type WSHandler struct {
	svc      services.BotSessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(svc services.BotSessionService) *WSHandler {
	return &WSHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type        string `json:"type"` // voice_turn|text_turn|end_session
	Text        string `json:"text"`
	AudioBase64 string `json:"audio_base64"`
	Language    string `json:"language"`
}

type wsServerMsg struct {
	Type             string      `json:"type"` // reply|ended|error
	Reply            string      `json:"reply,omitempty"`
	ReplyAudioBase64 string      `json:"reply_audio_base64,omitempty"`
	Code             utils.Code  `json:"code,omitempty"`
	Message          string      `json:"message,omitempty"`
	Session          interface{} `json:"session,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

func (h *WSHandler) SessionWS(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.SessionWS", "missing session_id", nil))
		return
	}

	// session must exist and be active before we upgrade
	sess, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sess.Ended() {
		writeError(c, utils.E(utils.CodeInvalidState, "WSHandler.SessionWS", "session has already ended", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx := c.Request.Context()

	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "invalid json"})
			continue
		}

		switch msg.Type {
		case "text_turn":
			if msg.Text == "" {
				_ = wc.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "text is required"})
				continue
			}
			reply, err := h.svc.RecordTurn(ctx, sessionID, msg.Text)
			if err != nil {
				h.writeErr(wc, err)
				continue
			}
			_ = wc.writeJSON(wsServerMsg{Type: "reply", Reply: reply})

		case "voice_turn":
			raw := msg.AudioBase64
			if i := strings.Index(raw, ","); i >= 0 {
				raw = raw[i+1:]
			}
			audio, derr := base64.StdEncoding.DecodeString(raw)
			if derr != nil || len(audio) == 0 {
				_ = wc.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "invalid audio_base64"})
				continue
			}

			reply, err := h.svc.RecordVoiceTurn(ctx, sessionID, audio, msg.Language)
			if err != nil {
				h.writeErr(wc, err)
				continue
			}

			out := wsServerMsg{Type: "reply", Reply: reply.Text}
			if len(reply.Audio) > 0 {
				out.ReplyAudioBase64 = base64.StdEncoding.EncodeToString(reply.Audio)
			}
			_ = wc.writeJSON(out)

		case "end_session":
			ended, err := h.svc.End(ctx, sessionID, nil)
			if err != nil {
				h.writeErr(wc, err)
				continue
			}
			_ = wc.writeJSON(wsServerMsg{Type: "ended", Session: ended})
			return

		default:
			_ = wc.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "unknown message type"})
		}
	}
}

func (h *WSHandler) writeErr(wc *wsConn, err error) {
	code := utils.CodeInternal
	msg := "internal error"
	var ae *utils.AppError
	if errors.As(err, &ae) {
		code = ae.Code
		msg = ae.Message
	}
	_ = wc.writeJSON(wsServerMsg{Type: "error", Code: code, Message: msg})
}
