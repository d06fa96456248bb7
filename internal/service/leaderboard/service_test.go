package leaderboard

import (
	"context"
	"sort"
	"testing"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/pkg/logger"
)

// Mock repositories for testing
type mockUserRepository struct {
	users []models.UserProfile
}

func (m *mockUserRepository) TopByClicks(_ context.Context, limit int) ([]models.UserProfile, error) {
	sorted := make([]models.UserProfile, len(m.users))
	copy(sorted, m.users)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TotalClicks > sorted[j].TotalClicks })
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*models.UserProfile, error) {
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperr.Newf(apperr.KindNotFound, "profile %s not found", id)
}

type mockAchievementRepository struct {
	counts map[string]int64
}

func (m *mockAchievementRepository) CountUnlocks(_ context.Context, userID string) (int64, error) {
	return m.counts[userID], nil
}

func TestTop_RanksByClicks(t *testing.T) {
	userRepo := &mockUserRepository{users: []models.UserProfile{
		{ID: "a", Username: "bronze", TotalClicks: 10},
		{ID: "b", Username: "gold", TotalClicks: 1000, IsPremium: true},
		{ID: "c", Username: "silver", TotalClicks: 100},
	}}
	achRepo := &mockAchievementRepository{counts: map[string]int64{"b": 5}}
	svc := NewServiceWithInterfaces(userRepo, achRepo, logger.New("error", "json"))

	entries, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Username != "gold" || entries[0].Rank != 1 {
		t.Errorf("Entry 1 = %+v, want gold at rank 1", entries[0])
	}
	if entries[0].AchievementCount != 5 {
		t.Errorf("AchievementCount = %d, want 5", entries[0].AchievementCount)
	}
	if entries[2].Username != "bronze" || entries[2].Rank != 3 {
		t.Errorf("Entry 3 = %+v, want bronze at rank 3", entries[2])
	}
}

func TestTop_ClampsLimit(t *testing.T) {
	userRepo := &mockUserRepository{users: []models.UserProfile{
		{ID: "a", Username: "solo", TotalClicks: 1},
	}}
	svc := NewServiceWithInterfaces(userRepo, &mockAchievementRepository{}, logger.New("error", "json"))

	for _, limit := range []int{0, -5, 5000} {
		entries, err := svc.Top(context.Background(), limit)
		if err != nil {
			t.Fatalf("Top(%d) failed: %v", limit, err)
		}
		if len(entries) != 1 {
			t.Errorf("Top(%d) returned %d entries", limit, len(entries))
		}
	}
}
