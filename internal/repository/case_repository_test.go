package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

func createTestCase(t *testing.T, repo *CaseRepository, name string, oneTime bool) *models.Case {
	t.Helper()

	c := &models.Case{
		Name:        name,
		Description: name,
		IsFree:      true,
		OneTimeOnly: oneTime,
		DropModel:   models.DropModelFixedPool,
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test case: %v", err)
	}
	return c
}

func TestCaseRepository_Pool(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaseRepository(db)
	ctx := context.Background()

	welcome := createTestCase(t, repo, "Welcome Case", true)
	cursor := createTestItem(t, db, "Starter Cursor", "cursor", "common")
	theme := createTestItem(t, db, "Starter Theme", "theme", "common")
	createTestItem(t, db, "Unpooled Item", "badge", "rare")

	for _, it := range []*models.Item{cursor, theme} {
		if err := repo.AddItem(ctx, welcome.ID, it.ID); err != nil {
			t.Fatalf("AddItem() failed: %v", err)
		}
	}

	pool, err := repo.Pool(ctx, welcome.ID)
	if err != nil {
		t.Fatalf("Pool() failed: %v", err)
	}
	if len(pool) != 2 {
		t.Errorf("Expected pool of 2, got %d", len(pool))
	}
}

func TestCaseRepository_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaseRepository(db)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !apperr.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestCaseRepository_ClaimOneTime(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaseRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "claimer", false)
	other := createTestUser(t, db, "rival", false)
	welcome := createTestCase(t, repo, "Welcome Case", true)

	if err := repo.ClaimOneTime(ctx, user.ID, welcome.ID); err != nil {
		t.Fatalf("ClaimOneTime() failed: %v", err)
	}

	err := repo.ClaimOneTime(ctx, user.ID, welcome.ID)
	if !apperr.IsConflict(err) {
		t.Errorf("Expected conflict on repeated claim, got %v", err)
	}

	// The unique index is per user.
	if err := repo.ClaimOneTime(ctx, other.ID, welcome.ID); err != nil {
		t.Errorf("ClaimOneTime() for second user failed: %v", err)
	}
}

// TestCaseRepository_ClaimOneTimeConcurrent races claims on the unique index
// and verifies exactly one insert wins.
func TestCaseRepository_ClaimOneTimeConcurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaseRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "racer", false)
	welcome := createTestCase(t, repo, "Welcome Case", true)

	const racers = 8
	results := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.ClaimOneTime(ctx, user.ID, welcome.ID)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case apperr.IsConflict(err):
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("Claim succeeded %d times, want 1", succeeded)
	}
}

func TestCaseRepository_Openings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaseRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "opener", false)
	welcome := createTestCase(t, repo, "Welcome Case", true)
	daily := createTestCase(t, repo, "Daily Case", false)

	opened, err := repo.HasOpened(ctx, user.ID, welcome.ID)
	if err != nil {
		t.Fatalf("HasOpened() failed: %v", err)
	}
	if opened {
		t.Error("Expected HasOpened to be false before any opening")
	}

	if err := repo.RecordOpening(ctx, user.ID, welcome.ID); err != nil {
		t.Fatalf("RecordOpening() failed: %v", err)
	}

	opened, err = repo.HasOpened(ctx, user.ID, welcome.ID)
	if err != nil {
		t.Fatalf("HasOpened() failed: %v", err)
	}
	if !opened {
		t.Error("Expected HasOpened to be true after opening")
	}

	// Repeatable cases record every opening.
	if err := repo.RecordOpening(ctx, user.ID, daily.ID); err != nil {
		t.Fatalf("RecordOpening() failed: %v", err)
	}
	if err := repo.RecordOpening(ctx, user.ID, daily.ID); err != nil {
		t.Fatalf("Repeated RecordOpening() failed: %v", err)
	}

	openedIDs, err := repo.OpenedCaseIDs(ctx, user.ID)
	if err != nil {
		t.Fatalf("OpenedCaseIDs() failed: %v", err)
	}
	if !openedIDs[welcome.ID] || !openedIDs[daily.ID] {
		t.Errorf("Expected both cases in opened set, got %v", openedIDs)
	}
}
