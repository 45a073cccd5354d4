package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"physbank_backend/internal/model"
	"physbank_backend/internal/repository"
	"physbank_backend/internal/util"
	"physbank_backend/pkg/logger"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pendingCountCacheTTL = 30 * time.Second

// AssignmentAxis 区分审题分配和翻译分配：二者算法相同，
// 只是作用的状态列和指派关系不同。
type AssignmentAxis string

const (
	AxisExamine   AssignmentAxis = "examine"
	AxisTranslate AssignmentAxis = "translate"
)

func (a AssignmentAxis) statusField() string {
	if a == AxisTranslate {
		return "translated_status"
	}
	return "status"
}

func (a AssignmentAxis) association() string {
	if a == AxisTranslate {
		return "TranslateProblems"
	}
	return "ExamineProblems"
}

// AssignmentService 把各分类待定题目列表中按位置选出的题目整体指派给一个用户。
// 每次调用都是全量替换而不是增量修改。
type AssignmentService struct {
	ProblemRepo *repository.ProblemRepository
	UserRepo    *repository.UserRepository
	DB          *gorm.DB
	Redis       *redis.Client
}

func NewAssignmentService(
	problemRepo *repository.ProblemRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
	rdb *redis.Client,
) *AssignmentService {
	return &AssignmentService{
		ProblemRepo: problemRepo,
		UserRepo:    userRepo,
		DB:          db,
		Redis:       rdb,
	}
}

// ParseIndexSpec 解析位置选择串。文法：空串，或逗号分隔的
// （单个正整数 | a-b 闭区间），1-based，允许空白。
// 越界、倒置区间、不合文法都报错。返回升序去重后的下标。
func ParseIndexSpec(spec string, max int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty entry in %q", spec)
		}

		var lo, hi int
		if dash := strings.Index(part, "-"); dash >= 0 {
			loStr := strings.TrimSpace(part[:dash])
			hiStr := strings.TrimSpace(part[dash+1:])
			var err error
			if lo, err = strconv.Atoi(loStr); err != nil {
				return nil, fmt.Errorf("invalid range start %q", loStr)
			}
			if hi, err = strconv.Atoi(hiStr); err != nil {
				return nil, fmt.Errorf("invalid range end %q", hiStr)
			}
			if lo > hi {
				return nil, fmt.Errorf("inverted range %d-%d", lo, hi)
			}
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid index %q", part)
			}
			lo, hi = n, n
		}

		if lo < 1 || hi > max {
			return nil, fmt.Errorf("index out of range [1, %d]: %s", max, part)
		}
		for i := lo; i <= hi; i++ {
			seen[i] = true
		}
	}

	indices := make([]int, 0, len(seen))
	for i := range seen {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, nil
}

// AssignProblems 校验并解析六个分类的选择串，把并集整体替换为该用户在
// 对应轴上的全部指派。任何一个分类校验失败则整体不写。
// 空选择串清空该用户在该轴的全部指派。
func (s *AssignmentService) AssignProblems(axis AssignmentAxis, userID uint, specs map[model.ProblemTag]string) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	// 先全部校验解析，再一次性落库
	var targetIDs []uint
	for _, tag := range model.AssignableTags {
		pendingIDs, err := s.ProblemRepo.ListPendingIDsByTag(tag, axis.statusField())
		if err != nil {
			return err
		}

		indices, err := ParseIndexSpec(specs[tag], len(pendingIDs))
		if err != nil {
			return util.NewValidationError(strings.ToLower(string(tag)), "%v", err)
		}

		for _, idx := range indices {
			targetIDs = append(targetIDs, pendingIDs[idx-1])
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user := model.User{BaseModel: model.BaseModel{ID: userID}}
		assoc := tx.Model(&user).Association(axis.association())

		if len(targetIDs) == 0 {
			return assoc.Clear()
		}

		var problems []*model.Problem
		if err := tx.Where("id IN ?", targetIDs).Find(&problems).Error; err != nil {
			return err
		}
		return assoc.Replace(problems)
	})
	if err != nil {
		return err
	}

	logger.Log.Info("assignments replaced",
		zap.String("axis", string(axis)),
		zap.Uint("userId", userID),
		zap.Int("count", len(targetIDs)),
	)
	return nil
}

// CountPendingByTag 六个分类的待定题目数，Redis 缓存 30 秒
func (s *AssignmentService) CountPendingByTag(ctx context.Context, axis AssignmentAxis) (map[string]int64, error) {
	cacheKey := "physbank:pending:" + string(axis)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			counts := make(map[string]int64)
			if json.Unmarshal([]byte(cached), &counts) == nil {
				return counts, nil
			}
		}
	}

	counts := make(map[string]int64, len(model.AssignableTags))
	for _, tag := range model.AssignableTags {
		count, err := s.ProblemRepo.CountPendingByTag(tag, axis.statusField())
		if err != nil {
			return nil, err
		}
		counts[strings.ToLower(string(tag))] = count
	}

	if s.Redis != nil {
		if data, err := json.Marshal(counts); err == nil {
			s.Redis.Set(ctx, cacheKey, data, pendingCountCacheTTL)
		}
	}
	return counts, nil
}

// ListAssigned 用户当前在某轴上的全部指派
func (s *AssignmentService) ListAssigned(axis AssignmentAxis, userID uint) ([]*model.Problem, error) {
	if axis == AxisTranslate {
		return s.ProblemRepo.ListAssignedTranslate(userID)
	}
	return s.ProblemRepo.ListAssignedExamine(userID)
}
