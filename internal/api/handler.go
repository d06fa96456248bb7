// Package api provides the REST handlers for the clicking game: clicks,
// counter reads, leaderboards, achievements, streaks, cases, inventory,
// chat and daily challenges.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/internal/notifier"
	"github.com/clickempire/click-empire/internal/service/achievements"
	"github.com/clickempire/click-empire/internal/service/cases"
	"github.com/clickempire/click-empire/internal/service/challenges"
	"github.com/clickempire/click-empire/internal/service/clicks"
	"github.com/clickempire/click-empire/internal/service/leaderboard"
	"github.com/clickempire/click-empire/pkg/logger"
)

// userIDHeader carries the caller's identity. Authentication is handled
// upstream; the API trusts the header.
const userIDHeader = "X-User-ID"

const maxChatMessageLen = 500

// ClickService interface for click operations.
type ClickService interface {
	Click(ctx context.Context, userID string) (*clicks.Result, error)
	CounterValue(ctx context.Context) (int64, error)
	Rewards(ctx context.Context, userID string, limit int) ([]models.CoinReward, error)
}

// AchievementService interface for achievement reads.
type AchievementService interface {
	ListForUser(ctx context.Context, userID string) ([]achievements.UserAchievement, error)
}

// StreakService interface for streak reads.
type StreakService interface {
	Get(ctx context.Context, userID string) (*models.ClickStreak, error)
}

// CaseService interface for case and inventory operations.
type CaseService interface {
	List(ctx context.Context, userID string) ([]cases.CaseView, error)
	Open(ctx context.Context, userID, caseID string) ([]models.Item, error)
	Inventory(ctx context.Context, userID string) ([]models.UserItem, error)
	Equip(ctx context.Context, userID string, userItemID uint) error
	Unequip(ctx context.Context, userID string, userItemID uint) error
}

// LeaderboardService interface for leaderboard reads.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

// ChallengeService interface for challenge reads.
type ChallengeService interface {
	ListForUser(ctx context.Context, userID string) ([]challenges.ChallengeView, error)
}

// UserService interface for profile operations.
type UserService interface {
	Create(ctx context.Context, user *models.UserProfile) error
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	SetPremium(ctx context.Context, id string, premium bool) error
}

// ChatService interface for the chat log.
type ChatService interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	Recent(ctx context.Context, limit int) ([]models.ChatMessage, error)
}

// Handler handles game API requests.
type Handler struct {
	clickService       ClickService
	achievementService AchievementService
	streakService      StreakService
	caseService        CaseService
	leaderboardService LeaderboardService
	challengeService   ChallengeService
	userService        UserService
	chatService        ChatService
	publisher          notifier.Publisher
	log                *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	clickService ClickService,
	achievementService AchievementService,
	streakService StreakService,
	caseService CaseService,
	leaderboardService LeaderboardService,
	challengeService ChallengeService,
	userService UserService,
	chatService ChatService,
	publisher notifier.Publisher,
	log *logger.Logger,
) *Handler {
	return &Handler{
		clickService:       clickService,
		achievementService: achievementService,
		streakService:      streakService,
		caseService:        caseService,
		leaderboardService: leaderboardService,
		challengeService:   challengeService,
		userService:        userService,
		chatService:        chatService,
		publisher:          publisher,
		log:                log,
	}
}

// RegisterRoutes wires the handler into a gin router group.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/clicks", h.PostClick)
		v1.GET("/counter", h.GetCounter)
		v1.GET("/leaderboard", h.GetLeaderboard)

		v1.POST("/users", h.CreateUser)
		v1.GET("/users/:id", h.GetUser)
		v1.POST("/users/:id/premium", h.SetPremium)
		v1.GET("/users/:id/achievements", h.GetUserAchievements)
		v1.GET("/users/:id/streak", h.GetUserStreak)
		v1.GET("/users/:id/rewards", h.GetUserRewards)
		v1.GET("/users/:id/inventory", h.GetUserInventory)

		v1.GET("/achievements", h.GetAchievements)
		v1.GET("/cases", h.GetCases)
		v1.POST("/cases/:id/open", h.OpenCase)
		v1.POST("/inventory/:id/equip", h.EquipItem)
		v1.POST("/inventory/:id/unequip", h.UnequipItem)

		v1.GET("/chat", h.GetChat)
		v1.POST("/chat", h.PostChat)
		v1.GET("/challenges", h.GetChallenges)
	}
}

// PostClick applies one click for the calling user.
// POST /api/v1/clicks.
func (h *Handler) PostClick(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	result, err := h.clickService.Click(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to apply click")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCounter returns the global counter value.
// GET /api/v1/counter.
func (h *Handler) GetCounter(c *gin.Context) {
	count, err := h.clickService.CounterValue(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to read counter")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "generated_at": time.Now().UTC()})
}

// GetLeaderboard returns the top clickers.
// GET /api/v1/leaderboard?limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, err := h.parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboardService.Top(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err, "Failed to build leaderboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"leaderboard":  entries,
		"generated_at": time.Now().UTC(),
	})
}

// CreateUser registers a new profile.
// POST /api/v1/users.
func (h *Handler) CreateUser(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		IsPremium bool   `json:"is_premium"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "username is required")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		h.errorResponse(c, http.StatusBadRequest, "username is required")
		return
	}

	user := &models.UserProfile{Username: req.Username, IsPremium: req.IsPremium}
	if err := h.userService.Create(c.Request.Context(), user); err != nil {
		h.respondError(c, err, "Failed to create profile")
		return
	}

	h.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("Profile created")
	c.JSON(http.StatusCreated, user)
}

// GetUser returns a profile.
// GET /api/v1/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPremium toggles a profile's premium flag. Billing happens elsewhere;
// this endpoint is the hook the payment callback calls.
// POST /api/v1/users/:id/premium.
func (h *Handler) SetPremium(c *gin.Context) {
	var req struct {
		Premium bool `json:"premium"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "premium flag is required")
		return
	}

	userID := c.Param("id")
	if err := h.userService.SetPremium(c.Request.Context(), userID, req.Premium); err != nil {
		h.respondError(c, err, "Failed to update premium status")
		return
	}

	h.log.Info().Str("user_id", userID).Bool("premium", req.Premium).Msg("Premium status updated")
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "is_premium": req.Premium})
}

// GetUserAchievements returns all achievement definitions with the user's
// unlock state.
// GET /api/v1/users/:id/achievements.
func (h *Handler) GetUserAchievements(c *gin.Context) {
	list, err := h.achievementService.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get achievements")
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": list})
}

// GetAchievements returns the caller's achievements.
// GET /api/v1/achievements.
func (h *Handler) GetAchievements(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	list, err := h.achievementService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to get achievements")
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": list})
}

// GetUserStreak returns a user's daily streak.
// GET /api/v1/users/:id/streak.
func (h *Handler) GetUserStreak(c *gin.Context) {
	streak, err := h.streakService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get streak")
		return
	}
	c.JSON(http.StatusOK, streak)
}

// GetUserRewards returns a user's coin ledger, newest first.
// GET /api/v1/users/:id/rewards?limit=20.
func (h *Handler) GetUserRewards(c *gin.Context) {
	limit, err := h.parseLimit(c, 20)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rewards, err := h.clickService.Rewards(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.respondError(c, err, "Failed to get rewards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// GetCases returns every case with the caller's opened state.
// GET /api/v1/cases.
func (h *Handler) GetCases(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	views, err := h.caseService.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to list cases")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": views})
}

// OpenCase opens a case for the caller and returns the drops.
// POST /api/v1/cases/:id/open.
func (h *Handler) OpenCase(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	drops, err := h.caseService.Open(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to open case")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": drops})
}

// GetUserInventory returns a user's items.
// GET /api/v1/users/:id/inventory.
func (h *Handler) GetUserInventory(c *gin.Context) {
	items, err := h.caseService.Inventory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get inventory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// EquipItem equips one of the caller's inventory rows.
// POST /api/v1/inventory/:id/equip.
func (h *Handler) EquipItem(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	rowID, err := h.parseRowID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.caseService.Equip(c.Request.Context(), userID, rowID); err != nil {
		h.respondError(c, err, "Failed to equip item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipped": true})
}

// UnequipItem clears the equipped flag on one of the caller's rows.
// POST /api/v1/inventory/:id/unequip.
func (h *Handler) UnequipItem(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	rowID, err := h.parseRowID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.caseService.Unequip(c.Request.Context(), userID, rowID); err != nil {
		h.respondError(c, err, "Failed to unequip item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipped": false})
}

// GetChat returns the most recent chat messages in chronological order.
// GET /api/v1/chat?limit=50.
func (h *Handler) GetChat(c *gin.Context) {
	limit, err := h.parseLimit(c, 50)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.chatService.Recent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err, "Failed to get chat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostChat appends a chat message from the caller and broadcasts it.
// POST /api/v1/chat.
func (h *Handler) PostChat(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "message is required")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" || len(req.Message) > maxChatMessageLen {
		h.errorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("message must be 1 to %d characters", maxChatMessageLen))
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		h.respondError(c, err, "Failed to get profile")
		return
	}

	msg := &models.ChatMessage{
		UserID:    user.ID,
		Username:  user.Username,
		IsPremium: user.IsPremium,
		Message:   req.Message,
	}
	if err := h.chatService.Append(ctx, msg); err != nil {
		h.respondError(c, err, "Failed to post message")
		return
	}

	event := notifier.ChatEvent{Username: user.Username, IsPremium: user.IsPremium, Message: req.Message}
	if err := h.publisher.Publish(ctx, notifier.ChannelChat, "chat", event); err != nil {
		h.log.Warn().Err(err).Msg("Failed to publish chat event")
	}

	c.JSON(http.StatusCreated, msg)
}

// GetChallenges returns today's challenges with the caller's completion state.
// GET /api/v1/challenges.
func (h *Handler) GetChallenges(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	views, err := h.challengeService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to get challenges")
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": views})
}

// callerID extracts the user ID header, responding 400 when absent.
func (h *Handler) callerID(c *gin.Context) (string, bool) {
	userID := strings.TrimSpace(c.GetHeader(userIDHeader))
	if userID == "" {
		h.errorResponse(c, http.StatusBadRequest, userIDHeader+" header is required")
		return "", false
	}
	return userID, true
}

// parseRowID extracts the inventory row ID path parameter.
func (h *Handler) parseRowID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid inventory item ID: %s", idStr)
	}
	return uint(id), nil
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}
	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}
	if limit > 100 {
		return 0, fmt.Errorf("limit cannot exceed 100")
	}
	return limit, nil
}

// respondError maps the error taxonomy onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch apperr.KindOf(err) {
	case apperr.KindRateLimited:
		h.errorResponse(c, http.StatusTooManyRequests, err.Error())
	case apperr.KindUnavailable:
		h.errorResponse(c, http.StatusServiceUnavailable, err.Error())
	case apperr.KindConflict:
		h.errorResponse(c, http.StatusConflict, err.Error())
	case apperr.KindNotFound:
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case apperr.KindInvalid:
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		h.errorResponse(c, http.StatusInternalServerError, fallback)
	}
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
