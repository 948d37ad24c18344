package mirror

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	token, u, err := s.LoadSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" || u != nil {
		t.Fatalf("empty store returned token=%q user=%v", token, u)
	}

	user := &models.User{ID: 7, Email: "sam@example.com", Name: "Sam"}
	if err := s.SaveSession(ctx, "tok", user); err != nil {
		t.Fatal(err)
	}
	token, u, err = s.LoadSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok" || u == nil || u.Email != "sam@example.com" || u.ID != 7 {
		t.Errorf("LoadSession = %q, %+v", token, u)
	}
}

// TestClearSessionKeepsAccountData verifies logout only drops the session
// keys and leaves profiles and history reachable.
func TestClearSessionKeepsAccountData(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	email := "sam@example.com"
	if err := s.SaveSession(ctx, "tok", &models.User{Email: email}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveProfile(ctx, models.Profile{Email: email, Schedule: "3-4 days/week"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PrependHistory(ctx, email, models.CompletedWorkout{ID: "a"}); err != nil {
		t.Fatal(err)
	}

	if err := s.ClearSession(ctx); err != nil {
		t.Fatal(err)
	}

	token, u, _ := s.LoadSession(ctx)
	if token != "" || u != nil {
		t.Errorf("session survived clear: %q %v", token, u)
	}
	if _, ok, _ := s.Profile(ctx, email); !ok {
		t.Error("profile lost on clear")
	}
	if h, _ := s.History(ctx, email); len(h) != 1 {
		t.Errorf("history len = %d, want 1", len(h))
	}
}

func TestEmptyEmailUsesAnonymousAccount(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.PrependHistory(ctx, "", models.CompletedWorkout{ID: "x"}); err != nil {
		t.Fatal(err)
	}
	var list []models.CompletedWorkout
	ok, err := s.Get(ctx, BucketHistory, Anonymous, &list)
	if err != nil || !ok || len(list) != 1 {
		t.Fatalf("anonymous history = %v, %v, %v", list, ok, err)
	}
}

func TestPrependHistoryOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, id := range []string{"first", "second", "third"} {
		if _, err := s.PrependHistory(ctx, "a@b.c", models.CompletedWorkout{ID: models.RecordID(id)}); err != nil {
			t.Fatal(err)
		}
	}
	h, err := s.History(ctx, "a@b.c")
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 3 || h[0].ID != "third" || h[2].ID != "first" {
		t.Errorf("history order = %v", h)
	}
}

// TestPrependHistoryConcurrent verifies interleaved writers do not lose
// entries.
func TestPrependHistoryConcurrent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.PrependHistory(ctx, "a@b.c", models.CompletedWorkout{ID: models.RecordID(fmt.Sprint(i))}); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	h, err := s.History(ctx, "a@b.c")
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != n {
		t.Errorf("history len = %d, want %d", len(h), n)
	}
}

func TestFirstProfileKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, ok, err := s.FirstProfile(ctx); err != nil || ok {
		t.Fatalf("empty FirstProfile = %v, %v", ok, err)
	}

	for _, email := range []string{"zed@example.com", "amy@example.com"} {
		if err := s.SaveProfile(ctx, models.Profile{Email: email}); err != nil {
			t.Fatal(err)
		}
	}
	// Updating the first profile must not move it to the back.
	if err := s.SaveProfile(ctx, models.Profile{Email: "zed@example.com", Schedule: "5+ days/week"}); err != nil {
		t.Fatal(err)
	}

	p, ok, err := s.FirstProfile(ctx)
	if err != nil || !ok {
		t.Fatalf("FirstProfile = %v, %v", ok, err)
	}
	if p.Email != "zed@example.com" || p.Schedule != "5+ days/week" {
		t.Errorf("FirstProfile = %+v", p)
	}
}

// TestProfilePersistsAcrossReopen verifies a profile written by one process
// is visible to the next launch.
func TestProfilePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := models.Profile{
		Email:               "sam@example.com",
		Goals:               models.StringList{"strength"},
		Schedule:            "3-4 days/week",
		Equipment:           models.StringList{"dumbbells"},
		ExperienceLevel:     "beginner",
		OnboardingCompleted: true,
	}
	if err := s.SaveProfile(ctx, want); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, ok, err := s.Profile(ctx, want.Email)
	if err != nil || !ok {
		t.Fatalf("Profile = %v, %v", ok, err)
	}
	if !got.OnboardingCompleted || got.Schedule != want.Schedule || !got.Goals.Contains("strength") ||
		!got.Equipment.Contains("dumbbells") || got.ExperienceLevel != "beginner" {
		t.Errorf("Profile = %+v", got)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}
