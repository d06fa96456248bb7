package cases

import (
	"context"
	"sync"
	"testing"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/pkg/logger"
)

// Mock repositories for testing
type mockCaseRepository struct {
	mu       sync.Mutex
	cases    map[string]*models.Case
	pools    map[string][]models.Item
	claims   map[string]map[string]bool // userID -> caseID -> claimed
	openings map[string]map[string]bool // userID -> caseID -> opened
}

func newMockCaseRepository() *mockCaseRepository {
	return &mockCaseRepository{
		cases:    make(map[string]*models.Case),
		pools:    make(map[string][]models.Item),
		claims:   make(map[string]map[string]bool),
		openings: make(map[string]map[string]bool),
	}
}

func (m *mockCaseRepository) GetByID(_ context.Context, caseID string) (*models.Case, error) {
	if c, ok := m.cases[caseID]; ok {
		return c, nil
	}
	return nil, apperr.Newf(apperr.KindNotFound, "case %s not found", caseID)
}

func (m *mockCaseRepository) GetAll(_ context.Context) ([]models.Case, error) {
	var all []models.Case
	for _, c := range m.cases {
		all = append(all, *c)
	}
	return all, nil
}

func (m *mockCaseRepository) Pool(_ context.Context, caseID string) ([]models.Item, error) {
	return m.pools[caseID], nil
}

func (m *mockCaseRepository) ClaimOneTime(_ context.Context, userID, caseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claims[userID][caseID] {
		return apperr.Newf(apperr.KindConflict, "case %s already opened", caseID)
	}
	if m.claims[userID] == nil {
		m.claims[userID] = make(map[string]bool)
	}
	m.claims[userID][caseID] = true
	return nil
}

func (m *mockCaseRepository) RecordOpening(_ context.Context, userID, caseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openings[userID] == nil {
		m.openings[userID] = make(map[string]bool)
	}
	m.openings[userID][caseID] = true
	return nil
}

func (m *mockCaseRepository) OpenedCaseIDs(_ context.Context, userID string) (map[string]bool, error) {
	return m.openings[userID], nil
}

type mockItemRepository struct {
	mu      sync.Mutex
	granted map[string]map[string]int // userID -> itemID -> quantity
}

func newMockItemRepository() *mockItemRepository {
	return &mockItemRepository{granted: make(map[string]map[string]int)}
}

func (m *mockItemRepository) Grant(_ context.Context, userID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.granted[userID] == nil {
		m.granted[userID] = make(map[string]int)
	}
	m.granted[userID][itemID]++
	return nil
}

func (m *mockItemRepository) Inventory(_ context.Context, userID string) ([]models.UserItem, error) {
	var items []models.UserItem
	for itemID, qty := range m.granted[userID] {
		items = append(items, models.UserItem{UserID: userID, ItemID: itemID, Quantity: qty})
	}
	return items, nil
}

func (m *mockItemRepository) Equip(context.Context, string, uint) error   { return nil }
func (m *mockItemRepository) Unequip(context.Context, string, uint) error { return nil }

func poolOf(rarities ...string) []models.Item {
	items := make([]models.Item, 0, len(rarities))
	for i, rarity := range rarities {
		items = append(items, models.Item{
			ID:     string(rune('a' + i)),
			Name:   rarity,
			Rarity: rarity,
		})
	}
	return items
}

func newTestService(seed int64) (*Service, *mockCaseRepository, *mockItemRepository) {
	caseRepo := newMockCaseRepository()
	itemRepo := newMockItemRepository()
	svc := NewServiceWithInterfaces(caseRepo, itemRepo, logger.New("error", "json"), seed)
	return svc, caseRepo, itemRepo
}

func TestOpen_FixedPoolGrantsDistinctItems(t *testing.T) {
	svc, caseRepo, itemRepo := newTestService(1)
	caseRepo.cases["welcome"] = &models.Case{ID: "welcome", Name: "Welcome", DropModel: models.DropModelFixedPool}
	caseRepo.pools["welcome"] = poolOf("common", "common", "rare", "epic")

	drops, err := svc.Open(context.Background(), "user-1", "welcome")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if len(drops) < 1 || len(drops) > 3 {
		t.Fatalf("Expected 1 to 3 drops, got %d", len(drops))
	}

	seen := map[string]bool{}
	for _, d := range drops {
		if seen[d.ID] {
			t.Errorf("Duplicate drop %q from fixed pool", d.ID)
		}
		seen[d.ID] = true
		if itemRepo.granted["user-1"][d.ID] != 1 {
			t.Errorf("Drop %q not granted exactly once", d.ID)
		}
	}
}

func TestOpen_OneTimeCaseConflictsOnRepeat(t *testing.T) {
	svc, caseRepo, _ := newTestService(1)
	caseRepo.cases["starter"] = &models.Case{
		ID: "starter", Name: "Starter", OneTimeOnly: true, DropModel: models.DropModelFixedPool,
	}
	caseRepo.pools["starter"] = poolOf("common")
	ctx := context.Background()

	if _, err := svc.Open(ctx, "user-1", "starter"); err != nil {
		t.Fatalf("First Open() failed: %v", err)
	}

	_, err := svc.Open(ctx, "user-1", "starter")
	if !apperr.IsConflict(err) {
		t.Errorf("Expected conflict on repeat opening, got %v", err)
	}

	// Another user still gets theirs.
	if _, err := svc.Open(ctx, "user-2", "starter"); err != nil {
		t.Errorf("Open() for second user failed: %v", err)
	}
}

// TestOpen_OneTimeCaseConcurrentOpens races several opens of the same
// one-time case and verifies exactly one wins the claim.
func TestOpen_OneTimeCaseConcurrentOpens(t *testing.T) {
	svc, caseRepo, itemRepo := newTestService(1)
	caseRepo.cases["starter"] = &models.Case{
		ID: "starter", Name: "Starter", OneTimeOnly: true, DropModel: models.DropModelWeightedRarity,
		RarityWeights: []byte(`{"common": 1}`),
	}
	caseRepo.pools["starter"] = poolOf("common")
	ctx := context.Background()

	const racers = 8
	results := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Open(ctx, "user-1", "starter")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, conflicted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case apperr.IsConflict(err):
			conflicted++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("One-time case opened %d times under concurrency, want 1", succeeded)
	}
	if conflicted != racers-1 {
		t.Errorf("Conflicts = %d, want %d", conflicted, racers-1)
	}
	if got := itemRepo.granted["user-1"]["a"]; got != 1 {
		t.Errorf("Item granted %d times, want 1", got)
	}
}

func TestOpen_RepeatableCaseAllowsRepeats(t *testing.T) {
	svc, caseRepo, _ := newTestService(1)
	caseRepo.cases["daily"] = &models.Case{ID: "daily", Name: "Daily", DropModel: models.DropModelFixedPool}
	caseRepo.pools["daily"] = poolOf("common", "rare")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Open(ctx, "user-1", "daily"); err != nil {
			t.Fatalf("Open() #%d failed: %v", i+1, err)
		}
	}
}

func TestOpen_WeightedRarityRespectsWeights(t *testing.T) {
	svc, caseRepo, _ := newTestService(42)
	caseRepo.cases["premium"] = &models.Case{
		ID:            "premium",
		Name:          "Premium",
		DropModel:     models.DropModelWeightedRarity,
		RarityWeights: []byte(`{"common": 90, "legendary": 10}`),
	}
	caseRepo.pools["premium"] = poolOf("common", "legendary")
	ctx := context.Background()

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		drops, err := svc.Open(ctx, "user-1", "premium")
		if err != nil {
			t.Fatalf("Open() failed: %v", err)
		}
		if len(drops) != 1 {
			t.Fatalf("Weighted draw returned %d items, want 1", len(drops))
		}
		counts[drops[0].Rarity]++
	}

	// With a 90/10 split over 1000 draws the legendary share stays well
	// inside 5% to 20%.
	if counts["legendary"] < 50 || counts["legendary"] > 200 {
		t.Errorf("Legendary draws = %d of 1000, expected around 100", counts["legendary"])
	}
}

// TestDrawWeighted_DeterministicForSeed verifies a fixed seed replays the
// same weighted draw sequence run after run.
func TestDrawWeighted_DeterministicForSeed(t *testing.T) {
	def := &models.Case{
		ID:            "premium",
		Name:          "Premium",
		DropModel:     models.DropModelWeightedRarity,
		RarityWeights: []byte(`{"common": 70, "rare": 20, "legendary": 10}`),
	}
	pool := poolOf("common", "common", "rare", "legendary", "legendary")

	draw := func() []string {
		svc, _, _ := newTestService(7)
		ids := make([]string, 0, 50)
		for i := 0; i < 50; i++ {
			drops, err := svc.drawWeighted(def, pool)
			if err != nil {
				t.Fatalf("drawWeighted() failed: %v", err)
			}
			ids = append(ids, drops[0].ID)
		}
		return ids
	}

	first, second := draw(), draw()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Draw #%d differs between runs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestOpen_UnknownCase(t *testing.T) {
	svc, _, _ := newTestService(1)

	_, err := svc.Open(context.Background(), "user-1", "missing")
	if !apperr.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestOpen_EmptyPool(t *testing.T) {
	svc, caseRepo, _ := newTestService(1)
	caseRepo.cases["hollow"] = &models.Case{ID: "hollow", Name: "Hollow", DropModel: models.DropModelFixedPool}

	_, err := svc.Open(context.Background(), "user-1", "hollow")
	if err == nil {
		t.Error("Expected error for empty pool")
	}
}

func TestList_AnnotatesOpenedState(t *testing.T) {
	svc, caseRepo, _ := newTestService(1)
	caseRepo.cases["a"] = &models.Case{ID: "a", Name: "A", DropModel: models.DropModelFixedPool}
	caseRepo.cases["b"] = &models.Case{ID: "b", Name: "B", DropModel: models.DropModelFixedPool}
	caseRepo.pools["a"] = poolOf("common")
	ctx := context.Background()

	if _, err := svc.Open(ctx, "user-1", "a"); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	views, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	for _, v := range views {
		if v.ID == "a" && !v.Opened {
			t.Error("Case a should be marked opened")
		}
		if v.ID == "b" && v.Opened {
			t.Error("Case b should not be marked opened")
		}
	}
}
