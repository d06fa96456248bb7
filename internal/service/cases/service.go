// Package cases opens loot cases and manages the resulting inventory.
package cases

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/clickempire/click-empire/internal/apperr"
	prommetrics "github.com/clickempire/click-empire/internal/metrics"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/internal/repository"
	"github.com/clickempire/click-empire/pkg/logger"
)

// CaseRepository interface for case operations.
type CaseRepository interface {
	GetByID(ctx context.Context, caseID string) (*models.Case, error)
	GetAll(ctx context.Context) ([]models.Case, error)
	Pool(ctx context.Context, caseID string) ([]models.Item, error)
	ClaimOneTime(ctx context.Context, userID, caseID string) error
	RecordOpening(ctx context.Context, userID, caseID string) error
	OpenedCaseIDs(ctx context.Context, userID string) (map[string]bool, error)
}

// ItemRepository interface for inventory operations.
type ItemRepository interface {
	Grant(ctx context.Context, userID, itemID string) error
	Inventory(ctx context.Context, userID string) ([]models.UserItem, error)
	Equip(ctx context.Context, userID string, userItemID uint) error
	Unequip(ctx context.Context, userID string, userItemID uint) error
}

// Service opens cases and grants the drawn items.
type Service struct {
	caseRepo CaseRepository
	itemRepo ItemRepository
	log      *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a new case service with concrete repository types.
func NewService(caseRepo *repository.CaseRepository, itemRepo *repository.ItemRepository, log *logger.Logger) *Service {
	return newService(caseRepo, itemRepo, log, rand.NewSource(time.Now().UnixNano()))
}

// NewServiceWithInterfaces creates a new case service with interface
// dependencies and a fixed random seed (useful for testing).
func NewServiceWithInterfaces(caseRepo CaseRepository, itemRepo ItemRepository, log *logger.Logger, seed int64) *Service {
	return newService(caseRepo, itemRepo, log, rand.NewSource(seed))
}

func newService(caseRepo CaseRepository, itemRepo ItemRepository, log *logger.Logger, src rand.Source) *Service {
	return &Service{
		caseRepo: caseRepo,
		itemRepo: itemRepo,
		log:      log,
		rng:      rand.New(src),
	}
}

// CaseView is a case definition annotated with the user's opened state.
type CaseView struct {
	models.Case
	Opened bool `json:"opened"`
}

// List returns every case annotated with whether the user opened it.
func (s *Service) List(ctx context.Context, userID string) ([]CaseView, error) {
	defs, err := s.caseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	opened, err := s.caseRepo.OpenedCaseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]CaseView, 0, len(defs))
	for _, def := range defs {
		views = append(views, CaseView{Case: def, Opened: opened[def.ID]})
	}
	return views, nil
}

// Open opens a case for the user and grants the drawn items. A one-time case
// already opened by this user is a conflict.
func (s *Service) Open(ctx context.Context, userID, caseID string) ([]models.Item, error) {
	def, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		prommetrics.RecordCaseOpened("error")
		return nil, err
	}

	pool, err := s.caseRepo.Pool(ctx, caseID)
	if err != nil {
		prommetrics.RecordCaseOpened("error")
		return nil, err
	}
	if len(pool) == 0 {
		prommetrics.RecordCaseOpened("error")
		return nil, apperr.Newf(apperr.KindInvalid, "case %q has an empty pool", def.Name)
	}

	var drops []models.Item
	switch def.DropModel {
	case models.DropModelWeightedRarity:
		drops, err = s.drawWeighted(def, pool)
	default:
		drops = s.drawFixedPool(pool)
	}
	if err != nil {
		prommetrics.RecordCaseOpened("error")
		return nil, err
	}

	// The claim insert races on a unique index, so of two concurrent opens
	// exactly one wins; the loser sees a conflict.
	if def.OneTimeOnly {
		if err := s.caseRepo.ClaimOneTime(ctx, userID, caseID); err != nil {
			if apperr.IsConflict(err) {
				prommetrics.RecordCaseOpened("repeat")
				return nil, apperr.Newf(apperr.KindConflict, "case %q already opened", def.Name)
			}
			prommetrics.RecordCaseOpened("error")
			return nil, err
		}
	}

	// Record the opening before granting so a crash mid-grant cannot
	// reopen a one-time case for free.
	if err := s.caseRepo.RecordOpening(ctx, userID, caseID); err != nil {
		prommetrics.RecordCaseOpened("error")
		return nil, err
	}

	for _, item := range drops {
		if err := s.itemRepo.Grant(ctx, userID, item.ID); err != nil {
			prommetrics.RecordCaseOpened("error")
			return nil, fmt.Errorf("failed to grant %q: %w", item.Name, err)
		}
	}

	prommetrics.RecordCaseOpened("ok")
	s.log.Info().
		Str("user_id", userID).
		Str("case", def.Name).
		Int("drops", len(drops)).
		Msg("Case opened")
	return drops, nil
}

// drawFixedPool draws 1 to 3 distinct items uniformly from the pool.
func (s *Service) drawFixedPool(pool []models.Item) []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 1 + s.rng.Intn(3)
	if count > len(pool) {
		count = len(pool)
	}

	perm := s.rng.Perm(len(pool))
	drops := make([]models.Item, 0, count)
	for _, idx := range perm[:count] {
		drops = append(drops, pool[idx])
	}
	return drops
}

// drawWeighted picks a rarity by configured weight, then a uniform item of
// that rarity. Rarities missing from the pool fall back to the whole pool.
func (s *Service) drawWeighted(def *models.Case, pool []models.Item) ([]models.Item, error) {
	weights := map[string]int{}
	if len(def.RarityWeights) > 0 {
		if err := json.Unmarshal(def.RarityWeights, &weights); err != nil {
			return nil, fmt.Errorf("invalid rarity weights for case %q: %w", def.Name, err)
		}
	}

	byRarity := make(map[string][]models.Item)
	for _, item := range pool {
		byRarity[item.Rarity] = append(byRarity[item.Rarity], item)
	}

	// Walk rarities in sorted order so a fixed seed draws a fixed sequence;
	// map iteration order would reshuffle the roll every run.
	rarities := make([]string, 0, len(weights))
	for rarity := range weights {
		rarities = append(rarities, rarity)
	}
	sort.Strings(rarities)

	total := 0
	for _, rarity := range rarities {
		if len(byRarity[rarity]) > 0 && weights[rarity] > 0 {
			total += weights[rarity]
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := pool
	if total > 0 {
		roll := s.rng.Intn(total)
		for _, rarity := range rarities {
			weight := weights[rarity]
			if len(byRarity[rarity]) == 0 || weight <= 0 {
				continue
			}
			if roll < weight {
				candidates = byRarity[rarity]
				break
			}
			roll -= weight
		}
	}

	return []models.Item{candidates[s.rng.Intn(len(candidates))]}, nil
}

// Inventory returns the user's items.
func (s *Service) Inventory(ctx context.Context, userID string) ([]models.UserItem, error) {
	return s.itemRepo.Inventory(ctx, userID)
}

// Equip equips one inventory row, displacing any same-type item.
func (s *Service) Equip(ctx context.Context, userID string, userItemID uint) error {
	return s.itemRepo.Equip(ctx, userID, userItemID)
}

// Unequip clears the equipped flag on one inventory row.
func (s *Service) Unequip(ctx context.Context, userID string, userItemID uint) error {
	return s.itemRepo.Unequip(ctx, userID, userItemID)
}
