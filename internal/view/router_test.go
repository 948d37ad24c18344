package view

import (
	"sync"
	"testing"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

func TestRouterShowsOneSection(t *testing.T) {
	r := NewRouter()
	if r.Current() != Auth {
		t.Fatalf("initial = %q, want auth", r.Current())
	}
	for _, s := range Sections {
		r.Show(s)
		if r.Current() != s {
			t.Errorf("Current = %q after Show(%q)", r.Current(), s)
		}
	}
}

func TestInitial(t *testing.T) {
	done := &models.User{Email: "a@b.c", OnboardingCompleted: true}
	fresh := &models.User{Email: "a@b.c"}

	cases := []struct {
		name     string
		token    string
		user     *models.User
		fallback bool
		want     Section
	}{
		{"nothing stored", "", nil, true, Auth},
		{"token without user", "tok", nil, false, Auth},
		{"onboarded", "tok", done, false, Dashboard},
		{"needs onboarding", "tok", fresh, false, Onboarding},
		{"local session in fallback", "", done, true, Dashboard},
		{"local session without fallback", "", done, false, Auth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Initial(tc.token, tc.user, tc.fallback); got != tc.want {
				t.Errorf("Initial = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRouterConcurrentShow(t *testing.T) {
	r := NewRouter()
	var wg sync.WaitGroup
	for _, s := range Sections {
		wg.Add(1)
		go func(s Section) {
			defer wg.Done()
			r.Show(s)
		}(s)
	}
	wg.Wait()

	cur := r.Current()
	found := false
	for _, s := range Sections {
		if s == cur {
			found = true
		}
	}
	if !found {
		t.Errorf("Current = %q, not a known section", cur)
	}
}
