package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/chronohq/chrono-interviews/internal/api/handlers"
	"github.com/chronohq/chrono-interviews/internal/api/middleware"
	"github.com/chronohq/chrono-interviews/internal/models"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Interview *handlers.InterviewHandler
	Meeting   *handlers.MeetingHandler
	Agent     *handlers.AgentHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public
	r.POST("/api/auth/signup", d.Auth.Signup)
	r.POST("/api/auth/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	interviewer := middleware.RequireRole(string(models.RoleInterviewer))
	interviewee := middleware.RequireRole(string(models.RoleInterviewee))

	// Scheduling
	auth.GET("/api/data/interviewees", interviewer, d.Interview.ListInterviewees)
	auth.POST("/api/data/schedule", interviewer, d.Interview.Schedule)
	auth.GET("/api/data/my-interviews", interviewer, d.Interview.MyInterviews)
	auth.GET("/api/data/interviewee-interviews", interviewee, d.Interview.IntervieweeInterviews)

	// Live video meetings
	auth.POST("/api/interview/create", d.Meeting.Create)
	auth.POST("/api/interview/token", d.Meeting.Token)
	auth.POST("/api/interview/end", d.Meeting.End)

	// AI bot interviews
	auth.POST("/api/ai/createSession", interviewee, d.Agent.CreateSession)
	auth.GET("/api/ai/session/:session_id", interviewee, d.Agent.GetSession)
	auth.POST("/api/ai/calling", interviewee, d.Agent.Calling)
	auth.POST("/api/ai/voice", interviewee, d.Agent.VoiceCalling)
	auth.POST("/api/ai/endcall", interviewee, d.Agent.EndCall)

	// WebSocket voice channel
	auth.GET("/ws/ai/:session_id", interviewee, d.WS.SessionWS)
}
