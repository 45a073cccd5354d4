package service

import (
	"errors"
	"physbank_backend/internal/model"
	"physbank_backend/internal/repository"
	"physbank_backend/internal/util"
	"physbank_backend/pkg/logger"
	"physbank_backend/pkg/monitoring"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewService 审核状态机：题目权威状态、每个审题人的个人选票、以及两者之间的对账。
type ReviewService struct {
	ProblemRepo *repository.ProblemRepository
	EventRepo   *repository.ScoreEventRepository
	Score       *ScoreService
	DB          *gorm.DB
	// 提交选票的固定奖励分
	ExamineReward float64
}

func NewReviewService(
	problemRepo *repository.ProblemRepository,
	eventRepo *repository.ScoreEventRepository,
	score *ScoreService,
	db *gorm.DB,
	examineReward float64,
) *ReviewService {
	return &ReviewService{
		ProblemRepo:   problemRepo,
		EventRepo:     eventRepo,
		Score:         score,
		DB:            db,
		ExamineReward: examineReward,
	}
}

// BallotView 审题人视角的选票：固定编号 + 个人意见影子字段
type BallotView struct {
	ExaminerNo             int                 `json:"examinerNo"`
	ExaminerAssignedStatus model.ProblemStatus `json:"examinerAssignedStatus"`
	ExaminerAssignedScore  *float64            `json:"examinerAssignedScore"`
	ExaminerRemark         string              `json:"examinerRemark"`
	ExaminerNominated      string              `json:"examinerNominated"`
}

func (s *ReviewService) authorizeExaminer(claims *util.Claims, problemID uint) error {
	if claims.IsAdmin() {
		return nil
	}
	assigned, err := s.ProblemRepo.IsExaminer(problemID, claims.UserID)
	if err != nil {
		return err
	}
	if !assigned {
		return util.ErrNotAssigned
	}
	return nil
}

// GetOrCreateBallot 打开选票。已有选票原样返回；没有则以题目当前权威字段为初值创建，
// 台账分数为 0（只打开不提交不得分）。编号是该题 EXAMINE 选票按创建顺序的 1-based 下标，
// 重复访问保持不变。
func (s *ReviewService) GetOrCreateBallot(claims *util.Claims, problemID uint) (*BallotView, error) {
	problem, err := s.ProblemRepo.FindByID(problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}

	if err := s.authorizeExaminer(claims, problemID); err != nil {
		return nil, err
	}

	events, err := s.EventRepo.ListExamineByProblem(problemID)
	if err != nil {
		return nil, err
	}
	if view := ballotFor(events, claims.UserID); view != nil {
		return view, nil
	}

	pid := problemID
	status := problem.Status
	nominated := problem.Nominated
	event := &model.ScoreEvent{
		Tag:              model.EventExamine,
		UserID:           claims.UserID,
		ProblemID:        &pid,
		Score:            0,
		ProblemStatus:    &status,
		ProblemScore:     problem.Score,
		ProblemRemark:    &problem.Remark,
		ProblemNominated: &nominated,
	}
	if err := s.EventRepo.Create(event); err != nil {
		// 并发首开：唯一索引 (user_id, problem_id, tag) 拦下第二次插入，重读即可
		events, reErr := s.EventRepo.ListExamineByProblem(problemID)
		if reErr == nil {
			if view := ballotFor(events, claims.UserID); view != nil {
				return view, nil
			}
		}
		return nil, err
	}

	monitoring.BallotCounter.WithLabelValues("opened").Inc()

	events, err = s.EventRepo.ListExamineByProblem(problemID)
	if err != nil {
		return nil, err
	}
	if view := ballotFor(events, claims.UserID); view != nil {
		return view, nil
	}
	return nil, util.ErrBallotNotOpened
}

// ballotFor 在创建顺序的选票列表中定位某审题人的选票并算出编号
func ballotFor(events []model.ScoreEvent, userID uint) *BallotView {
	for i, ev := range events {
		if ev.UserID != userID {
			continue
		}
		view := &BallotView{
			ExaminerNo:            i + 1,
			ExaminerAssignedScore: ev.ProblemScore,
		}
		if ev.ProblemStatus != nil {
			view.ExaminerAssignedStatus = *ev.ProblemStatus
		}
		if ev.ProblemRemark != nil {
			view.ExaminerRemark = *ev.ProblemRemark
		}
		if ev.ProblemNominated != nil {
			view.ExaminerNominated = *ev.ProblemNominated
		}
		return view
	}
	return nil
}

type SubmitBallotRequest struct {
	Status    model.ProblemStatus `json:"status" binding:"required"`
	Score     string              `json:"score" binding:"required"`
	Remark    string              `json:"remark"`
	Nominated string              `json:"nominated"`
}

// SubmitBallot 提交审题意见。一个事务里完成三件事：
// 选票影子字段更新 + 台账奖励分、题目权威字段覆盖（后写覆盖前写）、得分传播。
func (s *ReviewService) SubmitBallot(claims *util.Claims, problemID uint, req SubmitBallotRequest) error {
	score, err := util.ParseScore(req.Score)
	if err != nil {
		return util.NewValidationError("score", "must be a number, got %q", req.Score)
	}
	if !req.Status.Valid() {
		return util.NewValidationError("status", "unknown status %q", string(req.Status))
	}
	nominated := req.Nominated
	if nominated == "" {
		nominated = "No"
	}
	if nominated != "Yes" && nominated != "No" {
		return util.NewValidationError("nominated", "must be Yes or No")
	}
	if req.Status == model.StatusArchived && !claims.IsAdmin() {
		return util.ErrArchiveAdminOnly
	}

	problem, err := s.ProblemRepo.FindByID(problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrProblemNotFound
		}
		return err
	}

	if err := s.authorizeExaminer(claims, problemID); err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var event model.ScoreEvent
		if err := tx.Where("user_id = ? AND problem_id = ? AND tag = ?",
			claims.UserID, problemID, model.EventExamine).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrBallotNotOpened
			}
			return err
		}

		status := req.Status
		event.ProblemStatus = &status
		event.ProblemScore = &score
		event.ProblemRemark = &req.Remark
		event.ProblemNominated = &nominated
		event.Score = s.ExamineReward
		if err := tx.Save(&event).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Problem{}).Where("id = ?", problemID).
			Updates(map[string]interface{}{
				"status":    req.Status,
				"score":     score,
				"remark":    req.Remark,
				"nominated": nominated,
			}).Error; err != nil {
			return err
		}

		return s.Score.Propagate(tx, problem, score)
	})
	if err != nil {
		return err
	}

	monitoring.BallotCounter.WithLabelValues("submitted").Inc()
	logger.Log.Info("examiner ballot submitted",
		zap.Uint("problemId", problemID),
		zap.Uint("examinerId", claims.UserID),
		zap.String("status", string(req.Status)),
		zap.Float64("score", score),
	)
	return nil
}

// SyncExaminationOpinions 对账：每道题取最近创建的一张有内容的选票，
// 用它覆盖题目权威字段。返回被更新的题目。
func (s *ReviewService) SyncExaminationOpinions() ([]model.Problem, error) {
	events, err := s.EventRepo.ListExamineOpinions()
	if err != nil {
		return nil, err
	}

	// 列表按创建顺序升序，后出现的覆盖先出现的
	latest := make(map[uint]model.ScoreEvent)
	for _, ev := range events {
		latest[*ev.ProblemID] = ev
	}

	ids := make([]uint, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var updated []model.Problem
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			ev := latest[id]
			result := tx.Model(&model.Problem{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"status":    ev.ProblemStatus,
					"score":     ev.ProblemScore,
					"remark":    ev.ProblemRemark,
					"nominated": ev.ProblemNominated,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// 选票指向已删除的题目，跳过
				continue
			}
			var problem model.Problem
			if err := tx.First(&problem, id).Error; err != nil {
				return err
			}
			updated = append(updated, problem)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("examination opinions synced", zap.Int("updated", len(updated)))
	return updated, nil
}

// PromoteTranslatedToApproved 翻译已归档且审核仍待定的题目批量置为通过
func (s *ReviewService) PromoteTranslatedToApproved() (int64, error) {
	result := s.DB.Model(&model.Problem{}).
		Where("translated_status = ? AND status = ?", model.TranslatedArchived, model.StatusPending).
		Update("status", model.StatusApproved)
	return result.RowsAffected, result.Error
}

// SetTranslatedStatus 翻译轴 PENDING ⇄ ARCHIVED 切换，指派的翻译或管理员可用
func (s *ReviewService) SetTranslatedStatus(claims *util.Claims, problemID uint, status model.TranslatedStatus) error {
	if !status.Valid() {
		return util.NewValidationError("translatedStatus", "unknown status %q", string(status))
	}

	if _, err := s.ProblemRepo.FindByID(problemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrProblemNotFound
		}
		return err
	}

	if !claims.IsAdmin() {
		assigned, err := s.ProblemRepo.IsTranslator(problemID, claims.UserID)
		if err != nil {
			return err
		}
		if !assigned {
			return util.ErrNotAssigned
		}
	}

	return s.DB.Model(&model.Problem{}).Where("id = ?", problemID).
		Update("translated_status", status).Error
}
