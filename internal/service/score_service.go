package service

import (
	"context"
	"encoding/json"
	"errors"
	"physbank_backend/internal/model"
	"physbank_backend/internal/repository"
	"physbank_backend/internal/util"
	"physbank_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leaderboardCacheKey = "physbank:leaderboard"
const leaderboardCacheTTL = 60 * time.Second

// ScoreService 积分聚合：以 ScoreEvent 台账为唯一事实，
// User.Score 只是按需重算的缓存（物化视图），传播过程从不顺手刷新它。
type ScoreService struct {
	EventRepo *repository.ScoreEventRepository
	UserRepo  *repository.UserRepository
	DB        *gorm.DB
	Redis     *redis.Client
}

func NewScoreService(
	eventRepo *repository.ScoreEventRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
	rdb *redis.Client,
) *ScoreService {
	return &ScoreService{
		EventRepo: eventRepo,
		UserRepo:  userRepo,
		DB:        db,
		Redis:     rdb,
	}
}

// SplitCredit 供题分成：有供题人时投稿人与供题人对半分，否则投稿人全得。
// 返回 (submitCredit, offerCredit)。
func SplitCredit(score float64, hasOfferer bool) (float64, float64) {
	if hasOfferer {
		return score / 2, score / 2
	}
	return score, 0
}

// Propagate 审核定分后向投稿人/供题人传播 SUBMIT/OFFER 积分，运行在调用方的事务里。
// 不刷新任何 User.Score 缓存。
func (s *ScoreService) Propagate(tx *gorm.DB, problem *model.Problem, score float64) error {
	submitCredit, offerCredit := SplitCredit(score, problem.HasOfferer())

	if err := upsertCredit(tx, problem.UserID, problem.ID, model.EventSubmit, submitCredit); err != nil {
		return err
	}

	if !problem.HasOfferer() {
		return nil
	}

	var offerer model.User
	if err := tx.Where("email = ?", *problem.OffererEmail).First(&offerer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 供题人邮箱无法解析为用户，与“没有供题人”是两回事
			return util.ErrOffererMissing
		}
		return err
	}

	return upsertCredit(tx, offerer.ID, problem.ID, model.EventOffer, offerCredit)
}

// upsertCredit 每个 (user, problem, tag) 至多一条积分事件，重复传播覆盖旧值
func upsertCredit(tx *gorm.DB, userID, problemID uint, tag model.ScoreEventTag, credit float64) error {
	var event model.ScoreEvent
	err := tx.Where("user_id = ? AND problem_id = ? AND tag = ?", userID, problemID, tag).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pid := problemID
		return tx.Create(&model.ScoreEvent{
			Tag:       tag,
			UserID:    userID,
			ProblemID: &pid,
			Score:     credit,
		}).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&event).Update("score", credit).Error
}

// RecomputeUserScore 全量重算：总分 = 该用户全部事件分数之和
func (s *ScoreService) RecomputeUserScore(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	total, err := s.EventRepo.SumByUser(userID)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateScore(userID, total); err != nil {
		return nil, err
	}

	user.Score = total
	return user, nil
}

// RecomputeAllScores 逐用户全量重算，失败的用户记日志后继续
func (s *ScoreService) RecomputeAllScores() (int, error) {
	users, err := s.UserRepo.List()
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, user := range users {
		if _, err := s.RecomputeUserScore(user.ID); err != nil {
			logger.Log.Error("score recompute failed",
				zap.Uint("userId", user.ID), zap.Error(err))
			continue
		}
		updated++
	}
	return updated, nil
}

// SetExamineReward 批量改写全部 EXAMINE 事件的奖励分。
// SUBMIT/OFFER 来自题目得分，不受影响。
func (s *ScoreService) SetExamineReward(newScore float64) (int64, error) {
	return s.EventRepo.UpdateAllExamineScores(newScore)
}

type CreateEventRequest struct {
	UserID    uint                `json:"userId" binding:"required"`
	Score     float64             `json:"score"`
	Tag       model.ScoreEventTag `json:"tag" binding:"required"`
	ProblemID *uint               `json:"problemId"`
}

// CreateEvent 通用台账追加（调账、处罚等）
func (s *ScoreService) CreateEvent(req CreateEventRequest) (*model.ScoreEvent, error) {
	if !req.Tag.Valid() {
		return nil, util.NewValidationError("tag", "unknown tag %q", string(req.Tag))
	}
	if _, err := s.UserRepo.FindByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	event := &model.ScoreEvent{
		Tag:       req.Tag,
		UserID:    req.UserID,
		Score:     req.Score,
		ProblemID: req.ProblemID,
	}
	if err := s.EventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *ScoreService) ListUserEvents(userID uint) ([]model.ScoreEvent, error) {
	return s.EventRepo.ListByUser(userID)
}

// ClearEvents 管理员清空台账
func (s *ScoreService) ClearEvents() error {
	return s.EventRepo.DeleteAll()
}

// Leaderboard 按缓存总分取前 N 名，结果在 Redis 缓存一分钟
func (s *ScoreService) Leaderboard(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var users []model.User
			if json.Unmarshal([]byte(cached), &users) == nil && len(users) >= limit {
				return users[:limit], nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByScore(limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(users); err == nil {
			s.Redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL)
		}
	}
	return users, nil
}
