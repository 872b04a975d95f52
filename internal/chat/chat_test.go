package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"

	"github.com/nassaucable/assistant/internal/chat"
	"github.com/nassaucable/assistant/internal/log"
	"github.com/nassaucable/assistant/internal/session"
	"github.com/nassaucable/assistant/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newOrchestrator wires a mock-backed orchestrator with its store.
func newOrchestrator(t *testing.T, mock *testutil.MockAgent, timeout time.Duration) (*chat.Orchestrator, *session.Store) {
	t.Helper()

	store := session.NewStore()
	o, err := chat.New(chat.Config{
		Agent:   mock,
		Store:   store,
		Logger:  log.NewNop(),
		Timeout: timeout,
	})
	require.NoError(t, err)
	return o, store
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("ok")
	store := session.NewStore()
	logger := log.NewNop()

	tests := []struct {
		name string
		cfg  chat.Config
	}{
		{"missing agent", chat.Config{Store: store, Logger: logger}},
		{"missing store", chat.Config{Agent: mock, Logger: logger}},
		{"missing logger", chat.Config{Agent: mock, Store: store}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := chat.New(tc.cfg)
			assert.Error(t, err)
		})
	}
}

func TestHandle_Success(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("Happy to help with your cabling project!")
	o, store := newOrchestrator(t, mock, 0)

	res, err := o.Handle(context.Background(), chat.Request{
		Message:   "  Hello  ",
		SessionID: "abc-123",
	})
	require.NoError(t, err)

	assert.Equal(t, chat.StatusSuccess, res.Status)
	assert.Equal(t, "abc-123", res.SessionID)
	assert.Equal(t, "Happy to help with your cabling project!", res.Response)
	assert.Equal(t, chat.ModeTokenOptimized, res.Optimization)

	turns := store.History("abc-123")
	require.Len(t, turns, 2)
	assert.Equal(t, session.Turn{Role: session.RoleUser, Text: "Hello"}, turns[0])
	assert.Equal(t, session.RoleAssistant, turns[1].Role)
}

func TestHandle_GeneratesSessionID(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("hi")
	o, store := newOrchestrator(t, mock, 0)

	res, err := o.Handle(context.Background(), chat.Request{Message: "hello"})
	require.NoError(t, err)

	require.NotEmpty(t, res.SessionID)
	_, err = uuid.Parse(res.SessionID)
	assert.NoError(t, err)
	assert.Len(t, store.History(res.SessionID), 2)
}

func TestHandle_ValidationErrors(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("hi")
	o, store := newOrchestrator(t, mock, 0)

	tests := []struct {
		name string
		req  chat.Request
	}{
		{"empty message", chat.Request{Message: "   "}},
		{"injection marker", chat.Request{Message: "<script>alert(1)</script>"}},
		{"bad session id", chat.Request{Message: "hello", SessionID: "no spaces!"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := o.Handle(context.Background(), tc.req)
			assert.ErrorIs(t, err, chat.ErrValidation)
		})
	}

	// Nothing reaches the backend or the store on validation failure.
	assert.Empty(t, mock.Prompts())
	assert.Equal(t, 0, store.Len())
}

func TestHandle_Timeout(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("too late")
	mock.SetDelay(5 * time.Second)
	o, store := newOrchestrator(t, mock, 50*time.Millisecond)

	start := time.Now()
	res, err := o.Handle(context.Background(), chat.Request{
		Message:   "hello",
		SessionID: "abc-123",
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, chat.StatusTimeout, res.Status)
	assert.NotEmpty(t, res.Response)
	assert.Less(t, elapsed, 2*time.Second)

	// The user turn stays; no assistant turn is recorded for a failed call.
	turns := store.History("abc-123")
	require.Len(t, turns, 1)
	assert.Equal(t, session.RoleUser, turns[0].Role)
}

func TestHandle_LimiterDeadlineIsTimeout(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("unused")

	// Drain the burst so the next Wait would need far longer than the
	// call deadline allows; the limiter rejects without blocking.
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	o, err := chat.New(chat.Config{
		Agent:       mock,
		Store:       session.NewStore(),
		Logger:      log.NewNop(),
		Timeout:     50 * time.Millisecond,
		RateLimiter: limiter,
	})
	require.NoError(t, err)

	res, err := o.Handle(context.Background(), chat.Request{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, chat.StatusTimeout, res.Status)
	assert.Empty(t, mock.Prompts())
}

func TestHandle_UsageLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"quota error", errors.New("googleapi: Error 429: quota exceeded for project")},
		{"rate limit error", errors.New("rate_limit reached, retry later")},
		{"budget error", errors.New("monthly budget exhausted")},
		{"not found error", errors.New("404 model not found")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock := testutil.NewMockAgent("unused")
			mock.SetError(tc.err)
			o, _ := newOrchestrator(t, mock, 0)

			res, err := o.Handle(context.Background(), chat.Request{Message: "hello"})
			require.NoError(t, err)
			assert.Equal(t, chat.StatusUsageLimit, res.Status)
			assert.NotEmpty(t, res.Response)
		})
	}
}

func TestHandle_GenericFailure(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("unused")
	mock.SetError(errors.New("connection reset by peer"))
	o, _ := newOrchestrator(t, mock, 0)

	res, err := o.Handle(context.Background(), chat.Request{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, chat.StatusError, res.Status)
	assert.NotEmpty(t, res.Response)
}

func TestHandle_ContextFlowsIntoPrompt(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("sure thing")
	o, _ := newOrchestrator(t, mock, 0)

	_, err := o.Handle(context.Background(), chat.Request{
		Message:   "I'm wiring a studio",
		SessionID: "abc-123",
	})
	require.NoError(t, err)

	res, err := o.Handle(context.Background(), chat.Request{
		Message:   "do you have XLR cable in stock?",
		SessionID: "abc-123",
	})
	require.NoError(t, err)
	assert.Equal(t, chat.ModeFullSearch, res.Optimization)

	prompts := mock.Prompts()
	require.Len(t, prompts, 2)

	// First turn has no history to carry.
	assert.Equal(t, "[session abc-123] User: I'm wiring a studio", prompts[0])

	// Product searches get the full conversation framing.
	assert.Contains(t, prompts[1], "Conversation so far:")
	assert.Contains(t, prompts[1], "User: I'm wiring a studio")
	assert.True(t, strings.HasSuffix(prompts[1], "User: do you have XLR cable in stock?"))
}

func TestHandle_TechnicalQuestionsGetTrimmedContext(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("about 3.5 dB per 100m")
	o, _ := newOrchestrator(t, mock, 0)

	_, err := o.Handle(context.Background(), chat.Request{
		Message:   "hello there",
		SessionID: "abc-123",
	})
	require.NoError(t, err)

	res, err := o.Handle(context.Background(), chat.Request{
		Message:   "what's the attenuation at 500MHz?",
		SessionID: "abc-123",
	})
	require.NoError(t, err)
	assert.Equal(t, chat.ModeTokenOptimized, res.Optimization)

	prompts := mock.Prompts()
	require.Len(t, prompts, 2)
	assert.NotContains(t, prompts[1], "Conversation so far:")
	assert.Contains(t, prompts[1], "[session abc-123]")
}

func TestHandle_SessionTagIsTruncated(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockAgent("hi")
	o, _ := newOrchestrator(t, mock, 0)

	_, err := o.Handle(context.Background(), chat.Request{
		Message:   "hello",
		SessionID: "abcdefghijklmnop",
	})
	require.NoError(t, err)

	prompts := mock.Prompts()
	require.Len(t, prompts, 1)
	assert.True(t, strings.HasPrefix(prompts[0], "[session abcdefgh]"))
}
