package intervention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Techy2419/Focus-Flow/pkg/distraction"
)

const (
	coachModel = openai.ChatModelGPT4oMini

	// Back off generation entirely after a quota error.
	quotaBackoff = 60 * time.Second

	// Minimum gap between generation calls, independent of the policy
	// cooldown.
	minCallGap = time.Second
)

const systemPrompt = `You are a focus coach. The user is in a deep work session and just got distracted. Write ONE short, friendly nudge (max 2 sentences) that names the distraction and steers them back to their goal. No emoji, no lecture.`

// Context carries session details into the generated message.
type Context struct {
	Goal           string
	ElapsedMinutes int
	Count          int // occurrences of this distraction type so far
}

// Coach produces the message shown on an intervention. Generation
// failures fall back to static per-type messages so the user always
// sees a response.
type Coach struct {
	client openai.Client
	logger *slog.Logger

	mu           sync.Mutex
	lastCallAt   time.Time
	quotaBlocked time.Time

	now func() time.Time
}

// CoachOption configures a Coach.
type CoachOption func(*Coach)

// WithCoachLogger sets the logger.
func WithCoachLogger(l *slog.Logger) CoachOption {
	return func(c *Coach) { c.logger = l }
}

// NewCoach creates a coach backed by the OpenAI chat API.
func NewCoach(apiKey string, opts ...CoachOption) *Coach {
	return newCoach(opts, option.WithAPIKey(apiKey))
}

// NewCoachWithBaseURL creates a coach against a custom endpoint.
func NewCoachWithBaseURL(apiKey, baseURL string, opts ...CoachOption) *Coach {
	return newCoach(opts, option.WithAPIKey(apiKey), option.WithBaseURL(baseURL))
}

func newCoach(opts []CoachOption, reqOpts ...option.RequestOption) *Coach {
	// No transport retries: a failed generation falls back to the
	// static message instead of delaying the nudge.
	reqOpts = append(reqOpts, option.WithMaxRetries(0))
	c := &Coach{
		client: openai.NewClient(reqOpts...),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "intervention.coach")
	return c
}

// Message returns the coaching text for one intervention. It never
// returns an empty string.
func (c *Coach) Message(ctx context.Context, t distraction.Type, sc Context) string {
	if !c.allowCall() {
		return FallbackMessage(t)
	}

	text, err := c.generate(ctx, t, sc)
	if err != nil {
		c.noteFailure(err)
		c.logger.Warn("message generation failed, using fallback",
			"type", t,
			"error", err,
		)
		return FallbackMessage(t)
	}
	return text
}

// allowCall enforces the per-call gap and the quota backoff.
func (c *Coach) allowCall() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Before(c.quotaBlocked) {
		return false
	}
	if now.Sub(c.lastCallAt) < minCallGap {
		return false
	}
	c.lastCallAt = now
	return true
}

// noteFailure starts the quota backoff on rate-limit errors.
func (c *Coach) noteFailure(err error) {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotaBlocked = c.now().Add(quotaBackoff)
}

func (c *Coach) generate(ctx context.Context, t distraction.Type, sc Context) (string, error) {
	prompt := fmt.Sprintf("Distraction: %s (occurrence #%d this session).", t.Label(), sc.Count)
	if sc.Goal != "" {
		prompt += fmt.Sprintf(" Session goal: %q.", sc.Goal)
	}
	if sc.ElapsedMinutes > 0 {
		prompt += fmt.Sprintf(" %d minutes in.", sc.ElapsedMinutes)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: coachModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("intervention: empty completion")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("intervention: blank completion")
	}
	return text, nil
}

// FallbackMessage returns the static message for a type, used whenever
// generation is unavailable.
func FallbackMessage(t distraction.Type) string {
	switch t {
	case distraction.TypePhoneNearLeftEar, distraction.TypePhoneNearRightEar:
		return "Looks like you're on a call. If it can wait, park the phone and get back to it."
	case distraction.TypePhoneInFrontOfFace:
		return "Scrolling? Put the phone face-down and give your goal five more minutes."
	case distraction.TypePhonePickup:
		return "Phone's out. Set it aside and pick up where you left off."
	case distraction.TypeLookingAway:
		return "Eyes off the screen for a while now. Take a breath and refocus."
	case distraction.TypeLeftDesk:
		return "You stepped away. When you're back, jump straight into your goal."
	case distraction.TypePoorPosture:
		return "Sit up and reset. Your focus follows your posture."
	}
	return "Quick check-in: back to your goal."
}
