package app

import (
	"context"
	"strings"

	"github.com/yaseenp24/workoutbuddy/internal/dashboard"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/view"
)

// Login signs in. A mirrored profile fills fields the server left empty. In
// fallback mode a failed login signs in locally from the mirror with no token.
func (c *Controller) Login(ctx context.Context, email, password string) (Result, error) {
	resp, err := c.backend.Login(ctx, email, password)
	if err == nil {
		u := resp.User
		if p, ok, perr := c.mirror.Profile(ctx, u.Email); perr != nil {
			c.logger.Warn("reading mirrored profile", "email", u.Email, "error", perr)
		} else if ok {
			u.FillEmpty(p)
		}
		c.state.Set(resp.AccessToken, &u)
		c.persistUser(ctx, resp.AccessToken, &u)

		next := view.AfterAuth(&u)
		c.router.Show(next)
		c.logger.Info("signed in", "email", u.Email)
		return Result{Outcome: Remote, Message: "Login successful!", Next: next}, nil
	}

	if !c.fallback {
		return failure(err, "Login failed")
	}

	c.logger.Warn("login failed, signing in locally", "email", email, "error", err)
	u, err := c.localUser(ctx, email)
	if err != nil {
		return failure(err, "Login failed")
	}
	c.state.Set("", u)
	c.persistUser(ctx, "", u)

	next := view.AfterAuth(u)
	c.router.Show(next)
	return Result{Outcome: Local, Message: "Signed in offline. Changes stay on this device.", Next: next}, nil
}

// localUser picks the mirrored profile for email as typed or normalized, else
// the first mirrored profile, else a placeholder for email.
func (c *Controller) localUser(ctx context.Context, email string) (*models.User, error) {
	p, ok, err := c.mirror.Profile(ctx, email)
	if err != nil {
		return nil, err
	}
	// The server stores emails lower-cased and mirrors profiles under its
	// spelling.
	if norm := strings.ToLower(strings.TrimSpace(email)); !ok && norm != email {
		p, ok, err = c.mirror.Profile(ctx, norm)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		p, ok, err = c.mirror.FirstProfile(ctx)
		if err != nil {
			return nil, err
		}
	}
	if ok {
		return p.User(), nil
	}
	name, _, _ := strings.Cut(email, "@")
	return &models.User{Email: email, Name: name}, nil
}

// Register creates an account and always continues to onboarding. There is
// no local substitute.
func (c *Controller) Register(ctx context.Context, name, email, password string) (Result, error) {
	resp, err := c.backend.Register(ctx, name, email, password)
	if err != nil {
		return failure(err, "Registration failed")
	}
	u := resp.User
	c.state.Set(resp.AccessToken, &u)
	c.persistUser(ctx, resp.AccessToken, &u)

	c.router.Show(view.Onboarding)
	c.logger.Info("registered", "email", u.Email)
	return Result{Outcome: Remote, Message: "Registration successful!", Next: view.Onboarding}, nil
}

// Logout signs out, discards any active workout and clears the mirrored
// session. Mirrored profiles and history are kept.
func (c *Controller) Logout(ctx context.Context) (Result, error) {
	if w := c.state.Clear(); w != nil {
		w.Cancel()
	}
	c.setStats(dashboard.Stats{})
	c.router.Show(view.Auth)

	if err := c.mirror.ClearSession(ctx); err != nil {
		c.logger.Warn("clearing mirrored session", "error", err)
		return Result{Outcome: Local, Message: "Logged out, but the saved session could not be cleared.", Next: view.Auth}, err
	}
	return Result{Outcome: Local, Message: "Logged out successfully", Next: view.Auth}, nil
}
