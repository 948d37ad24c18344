package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaseenp24/workoutbuddy/internal/api"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/view"
)

// OnboardingTimeout bounds the onboarding request.
const OnboardingTimeout = 10 * time.Second

// SubmitOnboarding stores the questionnaire answers. A timeout is reported as
// ErrServerNotRunning even in fallback mode; other failures complete
// onboarding locally when fallback is enabled.
func (c *Controller) SubmitOnboarding(ctx context.Context, o models.Onboarding) (Result, error) {
	u := c.state.User()
	if u == nil {
		return Result{Outcome: Failed, Message: ErrNotSignedIn.Error()}, ErrNotSignedIn
	}
	if o.Schedule == "" || o.ExperienceLevel == "" {
		return Result{Outcome: Failed, Message: ErrOnboardingIncomplete.Error()}, ErrOnboardingIncomplete
	}

	reqCtx, cancel := context.WithTimeout(ctx, OnboardingTimeout)
	defer cancel()

	updated, err := c.backend.UpdateOnboarding(reqCtx, o)
	switch {
	case err == nil:
		// The server's answer is authoritative; completion is implied.
		updated.OnboardingCompleted = true
		c.state.SetUser(updated)
		c.persistUser(ctx, c.state.Token(), updated)
		c.router.Show(view.Dashboard)
		return Result{Outcome: Remote, Message: "Profile setup complete!", Next: view.Dashboard}, nil

	case errors.Is(err, api.ErrTimeout):
		c.logger.Warn("onboarding timed out", "timeout", OnboardingTimeout)
		return Result{Outcome: Failed, Message: ErrServerNotRunning.Error()}, fmt.Errorf("%w: %w", ErrServerNotRunning, err)

	case c.degradable(err):
		c.logger.Warn("onboarding failed, completing locally", "email", u.Email, "error", err)
		o.Apply(u)
		c.state.SetUser(u)
		c.persistUser(ctx, c.state.Token(), u)
		c.router.Show(view.Dashboard)
		return Result{Outcome: Local, Message: "Profile saved on this device only.", Next: view.Dashboard}, nil

	default:
		return failure(err, "Setup failed")
	}
}
