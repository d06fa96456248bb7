package challenges

import (
	"context"
	"testing"
	"time"

	"github.com/clickempire/click-empire/internal/config"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/pkg/logger"
)

// Mock repository for testing
type mockChallengeRepository struct {
	definitions []models.DailyChallenge
	completions map[string]map[uint]bool // userID -> challengeID -> done
}

func newMockChallengeRepository(defs ...models.DailyChallenge) *mockChallengeRepository {
	return &mockChallengeRepository{
		definitions: defs,
		completions: make(map[string]map[uint]bool),
	}
}

func (m *mockChallengeRepository) ActiveOn(_ context.Context, date string) ([]models.DailyChallenge, error) {
	var active []models.DailyChallenge
	for _, c := range m.definitions {
		if c.ActiveDate == date {
			active = append(active, c)
		}
	}
	return active, nil
}

func (m *mockChallengeRepository) ActivateRandom(_ context.Context, date string, count int) (int, error) {
	activated := 0
	alreadyActive := 0
	for _, c := range m.definitions {
		if c.ActiveDate == date {
			alreadyActive++
		}
	}
	for i := range m.definitions {
		if alreadyActive+activated >= count {
			break
		}
		if m.definitions[i].ActiveDate != date {
			m.definitions[i].ActiveDate = date
			activated++
		}
	}
	return activated, nil
}

func (m *mockChallengeRepository) Complete(_ context.Context, userID string, challengeID uint) (bool, error) {
	if m.completions[userID] == nil {
		m.completions[userID] = make(map[uint]bool)
	}
	if m.completions[userID][challengeID] {
		return false, nil
	}
	m.completions[userID][challengeID] = true
	return true, nil
}

func (m *mockChallengeRepository) CompletedIDs(_ context.Context, userID string) (map[uint]bool, error) {
	return m.completions[userID], nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func testService(defs ...models.DailyChallenge) (*Service, *mockChallengeRepository, *fakeClock) {
	repo := newMockChallengeRepository(defs...)
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	cfg := config.SchedulerConfig{Enabled: true, RotationCron: "0 0 * * *", DailyChallenge: 2}
	return NewServiceWithInterfaces(cfg, repo, clock, logger.New("error", "json")), repo, clock
}

func TestRotateNow_StampsToday(t *testing.T) {
	svc, repo, _ := testService(
		models.DailyChallenge{ID: 1, Title: "A", GoalType: models.GoalTotalClicks, GoalValue: 10},
		models.DailyChallenge{ID: 2, Title: "B", GoalType: models.GoalTotalClicks, GoalValue: 20},
		models.DailyChallenge{ID: 3, Title: "C", GoalType: models.GoalStreakDays, GoalValue: 3},
	)
	ctx := context.Background()

	if err := svc.RotateNow(ctx); err != nil {
		t.Fatalf("RotateNow() failed: %v", err)
	}
	active, _ := repo.ActiveOn(ctx, "2025-06-01")
	if len(active) != 2 {
		t.Errorf("Expected 2 active challenges, got %d", len(active))
	}

	// A second rotation within the day adds nothing.
	if err := svc.RotateNow(ctx); err != nil {
		t.Fatalf("Repeated RotateNow() failed: %v", err)
	}
	active, _ = repo.ActiveOn(ctx, "2025-06-01")
	if len(active) != 2 {
		t.Errorf("Expected 2 active challenges after repeat, got %d", len(active))
	}
}

func TestEvaluateOnClick_CompletesMetGoals(t *testing.T) {
	svc, repo, _ := testService(
		models.DailyChallenge{ID: 1, Title: "Click 10", GoalType: models.GoalTotalClicks, GoalValue: 10, ActiveDate: "2025-06-01"},
		models.DailyChallenge{ID: 2, Title: "Streak 3", GoalType: models.GoalStreakDays, GoalValue: 3, ActiveDate: "2025-06-01"},
	)
	ctx := context.Background()

	if err := svc.EvaluateOnClick(ctx, "user-1", 5, 1); err != nil {
		t.Fatalf("EvaluateOnClick() failed: %v", err)
	}
	if len(repo.completions["user-1"]) != 0 {
		t.Errorf("Expected no completions below goals, got %v", repo.completions["user-1"])
	}

	if err := svc.EvaluateOnClick(ctx, "user-1", 12, 3); err != nil {
		t.Fatalf("EvaluateOnClick() failed: %v", err)
	}
	if !repo.completions["user-1"][1] || !repo.completions["user-1"][2] {
		t.Errorf("Expected both challenges completed, got %v", repo.completions["user-1"])
	}

	// Further clicks change nothing.
	if err := svc.EvaluateOnClick(ctx, "user-1", 50, 10); err != nil {
		t.Fatalf("EvaluateOnClick() failed: %v", err)
	}
	if len(repo.completions["user-1"]) != 2 {
		t.Errorf("Expected 2 completions, got %d", len(repo.completions["user-1"]))
	}
}

func TestEvaluateOnClick_IgnoresOtherDays(t *testing.T) {
	svc, repo, clock := testService(
		models.DailyChallenge{ID: 1, Title: "Click 10", GoalType: models.GoalTotalClicks, GoalValue: 10, ActiveDate: "2025-06-01"},
	)
	ctx := context.Background()

	clock.now = clock.now.AddDate(0, 0, 1)
	if err := svc.EvaluateOnClick(ctx, "user-1", 100, 5); err != nil {
		t.Fatalf("EvaluateOnClick() failed: %v", err)
	}
	if len(repo.completions["user-1"]) != 0 {
		t.Errorf("Yesterday's challenge completed today: %v", repo.completions["user-1"])
	}
}

func TestListForUser_AnnotatesCompletion(t *testing.T) {
	svc, _, _ := testService(
		models.DailyChallenge{ID: 1, Title: "Click 10", GoalType: models.GoalTotalClicks, GoalValue: 10, ActiveDate: "2025-06-01"},
		models.DailyChallenge{ID: 2, Title: "Streak 3", GoalType: models.GoalStreakDays, GoalValue: 3, ActiveDate: "2025-06-01"},
	)
	ctx := context.Background()

	if err := svc.EvaluateOnClick(ctx, "user-1", 15, 0); err != nil {
		t.Fatalf("EvaluateOnClick() failed: %v", err)
	}

	views, err := svc.ListForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListForUser() failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(views))
	}
	for _, v := range views {
		wantDone := v.ID == 1
		if v.Completed != wantDone {
			t.Errorf("%s: Completed = %v, want %v", v.Title, v.Completed, wantDone)
		}
	}
}
