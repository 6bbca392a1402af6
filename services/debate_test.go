package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"debatedojo/config"
	"debatedojo/internal/quota"
)

type fakeCompletionClient struct {
	result     CompletionResult
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeCompletionClient) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (CompletionResult, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.result, f.err
}

const sampleReply = `RESPONSE: Commuting is not the only cost of office work.
SCORES:
Logical Consistency: 4/5
Persuasiveness: 3/5
Factual Accuracy: 4/5
Structural Coherence: 3/5
Rebuttal Resilience: 2/5
FEEDBACK: Back your claim with a concrete study.`

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Limits.DailyTopics = 1
	cfg.Limits.DailyTokens = 8000
	cfg.Limits.MaxTokens = 1500
	cfg.Limits.Temperature = 0.7
	return cfg
}

func validRequest() TurnRequest {
	return TurnRequest{
		Theme:        "Remote work",
		Message:      "It boosts productivity",
		Style:        StyleDevil,
		UserToken:    "t1",
		IsNewSession: true,
	}
}

func TestRunTurnMissingFields(t *testing.T) {
	cases := map[string]TurnRequest{
		"theme":      {Message: "m", Style: "kind", UserToken: "t"},
		"message":    {Theme: "th", Style: "kind", UserToken: "t"},
		"style":      {Theme: "th", Message: "m", UserToken: "t"},
		"user_token": {Theme: "th", Message: "m", Style: "kind"},
	}

	for name, req := range cases {
		client := &fakeCompletionClient{result: CompletionResult{Text: sampleReply}}
		counter := quota.NewMemoryCounter()
		svc := NewDebateService(client, quota.NewStore(counter), testConfig())

		_, err := svc.RunTurn(context.Background(), req)
		if !errors.Is(err, ErrMissingFields) {
			t.Errorf("missing %s: expected ErrMissingFields, got %v", name, err)
		}
		if client.calls != 0 {
			t.Errorf("missing %s: model called %d times, expected 0", name, client.calls)
		}
		if counter.Writes() != 0 {
			t.Errorf("missing %s: %d quota writes, expected 0", name, counter.Writes())
		}
	}
}

func TestRunTurnDailyLimit(t *testing.T) {
	client := &fakeCompletionClient{result: CompletionResult{Text: sampleReply}}
	counter := quota.NewMemoryCounter()
	counter.Set(context.Background(), quota.DailyKey("t1", quota.Today()), 1, quota.CounterTTL)
	svc := NewDebateService(client, quota.NewStore(counter), testConfig())

	_, err := svc.RunTurn(context.Background(), validRequest())
	if !errors.Is(err, ErrDailyLimitExceeded) {
		t.Fatalf("expected ErrDailyLimitExceeded, got %v", err)
	}
	if client.calls != 0 {
		t.Errorf("model called %d times, expected 0", client.calls)
	}
}

func TestRunTurnDailyLimitSkippedForOngoingSession(t *testing.T) {
	client := &fakeCompletionClient{result: CompletionResult{Text: sampleReply}}
	counter := quota.NewMemoryCounter()
	counter.Set(context.Background(), quota.DailyKey("t1", quota.Today()), 1, quota.CounterTTL)
	svc := NewDebateService(client, quota.NewStore(counter), testConfig())

	req := validRequest()
	req.IsNewSession = false
	if _, err := svc.RunTurn(context.Background(), req); err != nil {
		t.Fatalf("ongoing session should not hit the daily topic limit: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("model called %d times, expected 1", client.calls)
	}
}

func TestRunTurnTokenLimit(t *testing.T) {
	client := &fakeCompletionClient{result: CompletionResult{Text: sampleReply}}
	counter := quota.NewMemoryCounter()
	key := quota.TokenKey("t1", quota.Today(), "Remote work")
	counter.Set(context.Background(), key, 8000, quota.CounterTTL)
	svc := NewDebateService(client, quota.NewStore(counter), testConfig())

	req := validRequest()
	req.IsNewSession = false
	_, err := svc.RunTurn(context.Background(), req)
	if !errors.Is(err, ErrTokenLimitExceeded) {
		t.Fatalf("expected ErrTokenLimitExceeded, got %v", err)
	}
	if client.calls != 0 {
		t.Errorf("model called %d times, expected 0", client.calls)
	}
}

func TestRunTurnFailOpenWithoutStore(t *testing.T) {
	client := &fakeCompletionClient{result: CompletionResult{Text: sampleReply}}
	svc := NewDebateService(client, quota.NewStore(nil), testConfig())

	result, err := svc.RunTurn(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("expected success without a quota store, got %v", err)
	}
	if result.Reply != sampleReply {
		t.Errorf("unexpected reply: %q", result.Reply)
	}
	if client.calls != 1 {
		t.Errorf("model called %d times, expected 1", client.calls)
	}
}

func TestRunTurnEndToEnd(t *testing.T) {
	client := &fakeCompletionClient{result: CompletionResult{Text: sampleReply, TotalTokens: 900}}
	counter := quota.NewMemoryCounter()
	svc := NewDebateService(client, quota.NewStore(counter), testConfig())

	result, err := svc.RunTurn(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	today := quota.Today()
	if n, ok := counter.Value(quota.DailyKey("t1", today)); !ok || n != 1 {
		t.Errorf("daily counter = %d (present=%v), expected 1", n, ok)
	}
	if ttl := counter.TTL(quota.DailyKey("t1", today)); ttl != 24*time.Hour {
		t.Errorf("daily counter ttl = %v, expected 24h", ttl)
	}
	if n, ok := counter.Value(quota.TokenKey("t1", today, "Remote work")); !ok || n != 900 {
		t.Errorf("token counter = %d (present=%v), expected 900", n, ok)
	}

	if client.calls != 1 {
		t.Errorf("model called %d times, expected 1", client.calls)
	}
	if !strings.Contains(client.lastSystem, "devil's advocate") {
		t.Errorf("expected devil persona as system instruction, got %q", client.lastSystem)
	}
	if result.Reply == "" {
		t.Error("expected a non-empty reply")
	}
	if len(result.Scores) != len(ScoreCategories) {
		t.Errorf("expected %d scores, got %d", len(ScoreCategories), len(result.Scores))
	}
	for category, score := range result.Scores {
		if score < 1 || score > 5 {
			t.Errorf("score %s = %d, expected 1..5", category, score)
		}
	}
	if result.Feedback == "" {
		t.Error("expected non-empty feedback")
	}

	// Same token, same day, another new session: the single daily slot is gone.
	_, err = svc.RunTurn(context.Background(), validRequest())
	if !errors.Is(err, ErrDailyLimitExceeded) {
		t.Fatalf("expected ErrDailyLimitExceeded on repeat, got %v", err)
	}
}

func TestRunTurnDefaultUsageWhenUnreported(t *testing.T) {
	client := &fakeCompletionClient{result: CompletionResult{Text: sampleReply}}
	counter := quota.NewMemoryCounter()
	svc := NewDebateService(client, quota.NewStore(counter), testConfig())

	if _, err := svc.RunTurn(context.Background(), validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := quota.TokenKey("t1", quota.Today(), "Remote work")
	if n, _ := counter.Value(key); n != defaultTokenUsage {
		t.Errorf("token counter = %d, expected default usage %d", n, defaultTokenUsage)
	}
}

func TestRunTurnDailySlotBurnedOnProviderFailure(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("upstream down")}
	counter := quota.NewMemoryCounter()
	svc := NewDebateService(client, quota.NewStore(counter), testConfig())

	if _, err := svc.RunTurn(context.Background(), validRequest()); err == nil {
		t.Fatal("expected the provider error to surface")
	}

	// The slot is consumed at session start, before the model call.
	if n, ok := counter.Value(quota.DailyKey("t1", quota.Today())); !ok || n != 1 {
		t.Errorf("daily counter = %d (present=%v), expected 1", n, ok)
	}
}
