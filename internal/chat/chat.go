// Package chat implements the request/response pipeline between customers
// and the hosted cable-products agent: input validation, session-scoped
// conversation memory, context summarization, heuristic intent routing,
// prompt assembly, and sanitization of the agent's raw reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nassaucable/assistant/internal/agent"
	"github.com/nassaucable/assistant/internal/log"
	"github.com/nassaucable/assistant/internal/session"
)

// Status tags for chat results. Failures are modeled here, not as HTTP
// status codes: a failed agent call still produces a normal result.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusTimeout    Status = "timeout"
	StatusUsageLimit Status = "usage_limit_exceeded"
	StatusError      Status = "error"
)

// Routing-mode annotations reported back to the caller.
const (
	ModeFullSearch     = "full_search"
	ModeTokenOptimized = "token_optimized"
)

// DefaultTimeout bounds the external agent call. The call itself is not
// guaranteed to stop at the deadline; the caller just stops waiting.
const DefaultTimeout = 90 * time.Second

// contextWindow is how many recent turns feed the summarizer.
const contextWindow = 6

// sessionTagLen is the session ID prefix embedded in the outbound prompt.
const sessionTagLen = 8

// Canned user-facing messages for the failure categories.
const (
	timeoutMessage    = "I'm sorry, that took longer than expected. Please try asking again."
	usageLimitMessage = "The assistant is temporarily unavailable. Please try again in a few minutes."
	failureMessage    = "I'm having technical difficulties answering right now. Please try again."
)

// usageLimitMarkers classify backend failures caused by quota or rate
// limit exhaustion, by case-insensitive substring match on the error text.
var usageLimitMarkers = []string{"404", "usage", "limit", "quota", "budget", "rate_limit"}

// Request is one incoming chat message with an optional session ID.
type Request struct {
	Message   string
	SessionID string
}

// Result is the normalized outcome of one chat request.
type Result struct {
	Response     string
	Status       Status
	SessionID    string
	Optimization string
}

// Config contains all required parameters for the Orchestrator.
type Config struct {
	Agent  agent.Agent
	Store  *session.Store
	Logger log.Logger

	// Timeout for the external agent call. Zero value uses DefaultTimeout.
	Timeout time.Duration

	// RateLimiter throttles outbound agent calls (nil = default 10 rps,
	// burst 30).
	RateLimiter *rate.Limiter
}

// validate checks if all required parameters are present.
func (cfg Config) validate() error {
	if cfg.Agent == nil {
		return errors.New("agent is required")
	}
	if cfg.Store == nil {
		return errors.New("session store is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Orchestrator composes the pipeline components and owns the timeout and
// error policy around the external agent call.
//
// All configuration is captured immutably at construction time, so a
// single Orchestrator is safe for concurrent requests.
type Orchestrator struct {
	agent   agent.Agent
	store   *session.Store
	logger  log.Logger
	timeout time.Duration
	limiter *rate.Limiter
}

// New creates an Orchestrator from the given configuration.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 30)
	}

	return &Orchestrator{
		agent:   cfg.Agent,
		store:   cfg.Store,
		logger:  cfg.Logger,
		timeout: timeout,
		limiter: limiter,
	}, nil
}

// Handle runs one message through the pipeline and returns a normalized
// result. Validation failures return an error wrapping ErrValidation; all
// agent-side failures are converted into a Result with the matching status
// tag and a nil error.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (Result, error) {
	message, err := ValidateMessage(req.Message)
	if err != nil {
		return Result{}, err
	}
	if err := ValidateSessionID(req.SessionID); err != nil {
		return Result{}, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	o.store.Append(sessionID, session.Turn{Role: session.RoleUser, Text: message})

	var contextBlock string
	if history := o.store.History(sessionID); len(history) > 1 {
		if len(history) > contextWindow {
			history = history[len(history)-contextWindow:]
		}
		contextBlock = Summarize(history)
	}

	needsSearch := NeedsProductSearch(message)
	prompt := buildPrompt(sessionID, message, contextBlock, needsSearch)

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := o.limiter.Wait(callCtx); err != nil {
		// Wait reports an unreachable deadline with a plain error rather
		// than context.DeadlineExceeded; both cases are timeouts here.
		if _, ok := callCtx.Deadline(); ok && !errors.Is(err, context.Canceled) {
			err = context.DeadlineExceeded
		}
		return o.failure(err, sessionID, needsSearch), nil
	}

	raw, err := o.agent.Send(callCtx, prompt)
	if err != nil {
		o.logger.Warn("agent call failed", "session_id", sessionID, "error", err)
		return o.failure(err, sessionID, needsSearch), nil
	}

	reply := Sanitize(raw)
	o.store.Append(sessionID, session.Turn{Role: session.RoleAssistant, Text: reply})

	o.logger.Debug("chat handled",
		"session_id", sessionID,
		"needs_search", needsSearch,
		"reply_len", len(reply))

	return Result{
		Response:     reply,
		Status:       StatusSuccess,
		SessionID:    sessionID,
		Optimization: optimization(needsSearch),
	}, nil
}

// buildPrompt frames the outbound prompt. Product searches get the full
// summarized context; technical questions get only the trailing
// "User:"-tagged fragment of it to keep token usage down.
func buildPrompt(sessionID, message, contextBlock string, needsSearch bool) string {
	tag := sessionID
	if len(tag) > sessionTagLen {
		tag = tag[:sessionTagLen]
	}

	if contextBlock == "" {
		return fmt.Sprintf("[session %s] User: %s", tag, message)
	}
	if needsSearch {
		return fmt.Sprintf("[session %s] Conversation so far:\n%s\n\nUser: %s", tag, contextBlock, message)
	}

	fragment := contextBlock
	if i := strings.LastIndex(contextBlock, "User: "); i >= 0 {
		fragment = contextBlock[i:]
	}
	return fmt.Sprintf("[session %s] %s\n\nUser: %s", tag, fragment, message)
}

// failure maps an agent-side error to a non-crashing result. The user turn
// stays recorded; no assistant turn is appended for failed calls.
func (o *Orchestrator) failure(err error, sessionID string, needsSearch bool) Result {
	res := Result{SessionID: sessionID, Optimization: optimization(needsSearch)}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		res.Status = StatusTimeout
		res.Response = timeoutMessage
	case isUsageLimit(err):
		res.Status = StatusUsageLimit
		res.Response = usageLimitMessage
	default:
		res.Status = StatusError
		res.Response = failureMessage
	}
	return res
}

func optimization(needsSearch bool) string {
	if needsSearch {
		return ModeFullSearch
	}
	return ModeTokenOptimized
}

func isUsageLimit(err error) bool {
	return containsAny(strings.ToLower(err.Error()), usageLimitMarkers)
}
