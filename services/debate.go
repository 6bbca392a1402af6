package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"debatedojo/config"
	"debatedojo/internal/quota"
)

// defaultTokenUsage is the accounting figure assumed when the provider does
// not report usage for a call.
const defaultTokenUsage = 1200

const defaultFeedback = "No feedback available."

// ScoreCategories are the five fixed rubric categories, in display order.
var ScoreCategories = []string{
	"Logical Consistency",
	"Persuasiveness",
	"Factual Accuracy",
	"Structural Coherence",
	"Rebuttal Resilience",
}

var (
	scorePattern    = regexp.MustCompile(`(Logical Consistency|Persuasiveness|Factual Accuracy|Structural Coherence|Rebuttal Resilience):\s*(\d)/5`)
	feedbackPattern = regexp.MustCompile(`(?s)FEEDBACK:\s*(.+)`)
)

// TurnRequest is one debate turn from the client.
type TurnRequest struct {
	Theme        string
	Message      string
	Style        string
	UserToken    string
	IsNewSession bool
}

// TurnResult is the model's raw reply plus the rubric extracted from it.
type TurnResult struct {
	Reply    string
	Scores   map[string]int
	Feedback string
}

// DebateService runs debate turns against the completion provider with quota
// enforcement. One instance is shared across all requests.
type DebateService struct {
	client        CompletionClient
	store         *quota.Store
	dailyTopicCap int
	dailyTokenCap int
	maxTokens     int
	temperature   float64
}

// Global debate service instance
var debateService *DebateService

// InitDebateService builds the process-wide service from config. Call after
// quota.InitRedis so the quota store picks up the Redis client.
func InitDebateService(cfg *config.Config) error {
	client, err := NewCompletionClientFromConfig(cfg)
	if err != nil {
		return err
	}
	debateService = NewDebateService(client, quota.NewRedisStore(), cfg)
	return nil
}

// NewDebateService wires a service from explicit collaborators.
func NewDebateService(client CompletionClient, store *quota.Store, cfg *config.Config) *DebateService {
	return &DebateService{
		client:        client,
		store:         store,
		dailyTopicCap: cfg.Limits.DailyTopics,
		dailyTokenCap: cfg.Limits.DailyTokens,
		maxTokens:     cfg.Limits.MaxTokens,
		temperature:   cfg.Limits.Temperature,
	}
}

// GetDebateService returns the process-wide service, nil before init.
func GetDebateService() *DebateService {
	return debateService
}

// SetDebateService replaces the process-wide service. Used by tests.
func SetDebateService(s *DebateService) {
	debateService = s
}

// RunTurn executes one debate turn: quota checks, completion call, reply
// parsing, and usage recording. Quota-store failures disable enforcement
// rather than failing the turn.
func (s *DebateService) RunTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	if req.Theme == "" || req.Message == "" || req.Style == "" || req.UserToken == "" {
		return TurnResult{}, ErrMissingFields
	}

	today := quota.Today()

	// One new topic per session token per day. The slot is consumed before
	// the model call, so a failed call still burns it.
	if req.IsNewSession {
		dailyKey := quota.DailyKey(req.UserToken, today)
		if count, ok := s.store.Count(ctx, dailyKey); ok {
			if count >= s.dailyTopicCap {
				return TurnResult{}, ErrDailyLimitExceeded
			}
			s.store.SetCount(ctx, dailyKey, count+1)
		}
	}

	tokenKey := quota.TokenKey(req.UserToken, today, req.Theme)
	if tokens, ok := s.store.Count(ctx, tokenKey); ok && tokens >= s.dailyTokenCap {
		return TurnResult{}, ErrTokenLimitExceeded
	}

	persona := PersonaForStyle(req.Style)
	prompt := buildTurnPrompt(req.Theme, req.Message)

	completion, err := s.client.Complete(ctx, persona, prompt, s.maxTokens, s.temperature)
	if err != nil {
		return TurnResult{}, err
	}

	scores, feedback := parseEvaluation(completion.Text)

	usage := completion.TotalTokens
	if usage == 0 {
		usage = defaultTokenUsage
	}
	// The cap was checked before the call; the recorded total may overshoot
	// it by one call's worth of tokens.
	if tokens, ok := s.store.Count(ctx, tokenKey); ok {
		s.store.SetCount(ctx, tokenKey, tokens+usage)
	}

	return TurnResult{
		Reply:    completion.Text,
		Scores:   scores,
		Feedback: feedback,
	}, nil
}

// buildTurnPrompt embeds the topic and the user's argument in the fixed
// evaluation template the parser expects back.
func buildTurnPrompt(theme, message string) string {
	var sb strings.Builder
	sb.WriteString(`You are an impartial debate evaluator.
Evaluate the user's argument on the following topic and return a rebuttal.
Then, assign a score from 1 to 5 for each category and give one specific feedback point for improvement.
Respond ONLY in this format:

RESPONSE: [Your rebuttal]
SCORES:
Logical Consistency: x/5
Persuasiveness: x/5
Factual Accuracy: x/5
Structural Coherence: x/5
Rebuttal Resilience: x/5
FEEDBACK: [One short suggestion to improve user argument]

`)
	sb.WriteString(fmt.Sprintf("Topic: %q\n", theme))
	sb.WriteString(fmt.Sprintf("User's argument: %q", message))
	return sb.String()
}

// parseEvaluation extracts the rubric scores and feedback line from the
// model's free-form reply. The format is not contractually guaranteed, so
// extraction is best-effort: unmatched categories default to 1, a repeated
// category keeps its last match, and a missing FEEDBACK marker yields a
// placeholder.
func parseEvaluation(raw string) (map[string]int, string) {
	scores := make(map[string]int, len(ScoreCategories))
	for _, category := range ScoreCategories {
		scores[category] = 1
	}

	for _, match := range scorePattern.FindAllStringSubmatch(raw, -1) {
		value, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		scores[match[1]] = value
	}

	feedback := defaultFeedback
	if match := feedbackPattern.FindStringSubmatch(raw); match != nil {
		feedback = strings.TrimSpace(match[1])
	}

	return scores, feedback
}
