// services/user_service.go
package services

import (
	"log"
	"time"

	"github.com/ton21-official/t21-backend/models"
	"github.com/ton21-official/t21-backend/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// RewardPeriodMs is the length of one reward window (24h).
	RewardPeriodMs = 86_400_000

	// MiningReward is credited once per reward window.
	MiningReward = 20

	// AdReward is credited per watched ad, up to AdDailyCap per window.
	AdReward   = 5
	AdDailyCap = 10
)

var (
	rewardsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "t21_rewards_granted_total",
		Help: "Rewards credited to user balances, by reward type.",
	}, []string{"type"})
	rewardsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "t21_rewards_rejected_total",
		Help: "Reward attempts rejected by cooldown or daily cap, by reward type.",
	}, []string{"type"})
)

// UserService owns the reward-ledger endpoints. Every operation is a
// single load → decide → optional save against the injected store; two
// concurrent mutations of the same id can race between load and save
// (accepted limitation, the store offers no CAS).
type UserService struct {
	Store storage.Store

	// Now is swappable so tests can control the clock.
	Now func() time.Time
}

func NewUserService(store storage.Store) *UserService {
	return &UserService{Store: store, Now: time.Now}
}

func (s *UserService) nowMs() int64 {
	return s.Now().UnixMilli()
}

// loadUser fetches and decodes the record for id, or nil if the user
// has never been persisted (or the stored bytes are malformed).
func (s *UserService) loadUser(id string) (*models.User, error) {
	raw, err := s.Store.Load(id)
	if err != nil {
		return nil, err
	}
	return models.DecodeUser(raw), nil
}

func (s *UserService) saveUser(id string, user *models.User) error {
	raw, err := models.EncodeUser(user)
	if err != nil {
		return err
	}
	return s.Store.Save(id, raw)
}

// GetUser handles GET /user?id=...
// A never-seen id gets a fresh default record in the response without
// persisting anything; pure reads never write.
func (s *UserService) GetUser(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}

	user, err := s.loadUser(id)
	if err != nil {
		log.Printf("Store error fetching user %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "store unavailable"})
	}
	if user == nil {
		user = &models.User{CreatedAt: s.nowMs()}
	}

	return c.JSON(fiber.Map{"ok": true, "user": user})
}

// SaveAddress handles POST /save_address {id, address}.
func (s *UserService) SaveAddress(c *fiber.Ctx) error {
	var req struct {
		ID      string `json:"id"`
		Address string `json:"address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.ID == "" || req.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id and address are required"})
	}

	user, err := s.loadUser(req.ID)
	if err != nil {
		log.Printf("Store error fetching user %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "store unavailable"})
	}
	if user == nil {
		user = &models.User{CreatedAt: s.nowMs()}
	}

	user.Address = req.Address

	if err := s.saveUser(req.ID, user); err != nil {
		log.Printf("Store error saving address for user %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save address"})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// AddMiningReward handles POST /add_mining {id}.
// The reward amount is a fixed server-side constant; any amount sent
// by the client is ignored. One grant per 24h window: inside the
// cooldown the record is untouched and the response carries the
// instant the next claim becomes eligible.
func (s *UserService) AddMiningReward(c *fiber.Ctx) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id is required"})
	}

	user, err := s.loadUser(req.ID)
	if err != nil {
		log.Printf("Store error fetching user %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "store unavailable"})
	}
	now := s.nowMs()
	if user == nil {
		user = &models.User{CreatedAt: now}
	}

	if now-user.LastMining < RewardPeriodMs {
		rewardsRejected.WithLabelValues("mining").Inc()
		return c.JSON(fiber.Map{
			"ok":   false,
			"msg":  "try later",
			"next": user.LastMining + RewardPeriodMs,
		})
	}

	user.Balance += MiningReward
	user.LastMining = now

	if err := s.saveUser(req.ID, user); err != nil {
		log.Printf("Store error saving mining reward for user %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save reward"})
	}

	rewardsGranted.WithLabelValues("mining").Inc()
	return c.JSON(fiber.Map{"ok": true, "balance": user.Balance})
}

// AddAdReward handles POST /add_ad_reward {id}.
// Ad rewards are counted per day bucket. The bucket rolls over before
// the cap check, so the first ad of a new day always succeeds even if
// the previous day was capped.
func (s *UserService) AddAdReward(c *fiber.Ctx) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id is required"})
	}

	user, err := s.loadUser(req.ID)
	if err != nil {
		log.Printf("Store error fetching user %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "store unavailable"})
	}
	now := s.nowMs()
	if user == nil {
		user = &models.User{CreatedAt: now}
	}

	currentPeriod := now / RewardPeriodMs
	if user.LastAdPeriod != currentPeriod {
		user.LastAdPeriod = currentPeriod
		user.AdsToday = 0
	}

	if user.AdsToday >= AdDailyCap {
		rewardsRejected.WithLabelValues("ad").Inc()
		return c.JSON(fiber.Map{"ok": false, "error": "LIMIT"})
	}

	user.AdsToday++
	user.Balance += AdReward

	if err := s.saveUser(req.ID, user); err != nil {
		log.Printf("Store error saving ad reward for user %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save reward"})
	}

	rewardsGranted.WithLabelValues("ad").Inc()
	return c.JSON(fiber.Map{
		"ok":       true,
		"balance":  user.Balance,
		"adsToday": user.AdsToday,
	})
}
