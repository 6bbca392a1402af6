package controllers

import (
	"errors"

	"debatedojo/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DebateTurnRequest struct {
	Theme        string `json:"theme" binding:"required"`
	Message      string `json:"message" binding:"required"`
	Style        string `json:"style" binding:"required"`
	UserToken    string `json:"user_token" binding:"required"`
	IsNewSession bool   `json:"is_new_session"`
}

type DebateTurnResponse struct {
	Reply    string         `json:"reply"`
	Scores   map[string]int `json:"scores"`
	Feedback string         `json:"feedback"`
}

// DebateTurn handles one debate exchange: the user's argument in, the
// model's rebuttal plus rubric scores out.
func DebateTurn(c *gin.Context) {
	var req DebateTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Missing required fields"})
		return
	}

	svc := services.GetDebateService()
	if svc == nil {
		c.JSON(500, gin.H{"error": services.ErrNotInitialized.Error()})
		return
	}

	result, err := svc.RunTurn(c.Request.Context(), services.TurnRequest{
		Theme:        req.Theme,
		Message:      req.Message,
		Style:        req.Style,
		UserToken:    req.UserToken,
		IsNewSession: req.IsNewSession,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(400, gin.H{"error": "Missing required fields"})
		case errors.Is(err, services.ErrDailyLimitExceeded):
			c.JSON(429, gin.H{"error": "Usage limit reached for today."})
		case errors.Is(err, services.ErrTokenLimitExceeded):
			c.JSON(429, gin.H{"error": "Token limit reached for this theme today."})
		case errors.Is(err, services.ErrProviderQuota):
			c.JSON(500, gin.H{"error": "Model provider quota exceeded. Please check your billing."})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, DebateTurnResponse{
		Reply:    result.Reply,
		Scores:   result.Scores,
		Feedback: result.Feedback,
	})
}

// CreateSessionToken mints a guest session token for clients that cannot
// generate one locally. Nothing is recorded server-side; the token only
// buckets quota counters.
func CreateSessionToken(c *gin.Context) {
	c.JSON(200, gin.H{"user_token": "guest_" + uuid.NewString()})
}
