package service

import (
	"errors"
	"physbank_backend/internal/model"
	"physbank_backend/internal/repository"
	"physbank_backend/internal/util"
	"physbank_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProblemService 投题生命周期：提交、编辑（重置待审）、删除、翻译文本、AI 表现记录
type ProblemService struct {
	ProblemRepo *repository.ProblemRepository
	AIRepo      *repository.AIPerformanceRepository
	DB          *gorm.DB
}

func NewProblemService(
	problemRepo *repository.ProblemRepository,
	aiRepo *repository.AIPerformanceRepository,
	db *gorm.DB,
) *ProblemService {
	return &ProblemService{
		ProblemRepo: problemRepo,
		AIRepo:      aiRepo,
		DB:          db,
	}
}

type ProblemVariableRequest struct {
	Name       string  `json:"name" binding:"required"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
}

type AIPerformanceRequest struct {
	AIName     string `json:"aiName" binding:"required"`
	AISolution string `json:"aiSolution"`
	AIAnswer   string `json:"aiAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
	Comment    string `json:"comment"`
}

type ProblemRequest struct {
	Title          string                   `json:"title" binding:"required"`
	Content        string                   `json:"content" binding:"required"`
	Tag            model.ProblemTag         `json:"tag"`
	OffererEmail   *string                  `json:"offererEmail"`
	Variables      []ProblemVariableRequest `json:"variables"`
	AIPerformances []AIPerformanceRequest   `json:"aiPerformances"`
}

func validTag(tag model.ProblemTag) bool {
	if tag == model.TagOther {
		return true
	}
	for _, t := range model.AssignableTags {
		if t == tag {
			return true
		}
	}
	return false
}

func buildVariables(reqs []ProblemVariableRequest) ([]model.ProblemVariable, error) {
	variables := make([]model.ProblemVariable, 0, len(reqs))
	for _, v := range reqs {
		if v.LowerBound > v.UpperBound {
			return nil, util.NewValidationError(v.Name, "lower bound %v exceeds upper bound %v", v.LowerBound, v.UpperBound)
		}
		variables = append(variables, model.ProblemVariable{
			Name:       v.Name,
			LowerBound: v.LowerBound,
			UpperBound: v.UpperBound,
		})
	}
	return variables, nil
}

// Create 提交题目，审核轴与翻译轴都从 PENDING 起步
func (s *ProblemService) Create(userID uint, req ProblemRequest) (*model.Problem, error) {
	if req.Tag == "" {
		req.Tag = model.TagOther
	}
	if !validTag(req.Tag) {
		return nil, util.NewValidationError("tag", "unknown tag %q", string(req.Tag))
	}

	variables, err := buildVariables(req.Variables)
	if err != nil {
		return nil, err
	}

	problem := &model.Problem{
		Title:            req.Title,
		Content:          req.Content,
		Tag:              req.Tag,
		Status:           model.StatusPending,
		TranslatedStatus: model.TranslatedPending,
		Nominated:        "No",
		OffererEmail:     req.OffererEmail,
		UserID:           userID,
		Variables:        variables,
	}
	for _, p := range req.AIPerformances {
		problem.AIPerformances = append(problem.AIPerformances, model.AIPerformance{
			AIName:     p.AIName,
			AISolution: p.AISolution,
			AIAnswer:   p.AIAnswer,
			IsCorrect:  p.IsCorrect,
			Comment:    p.Comment,
			Tag:        model.AISubmitted,
		})
	}

	if err := s.ProblemRepo.Create(problem); err != nil {
		return nil, err
	}

	logger.Log.Info("problem submitted",
		zap.Uint("problemId", problem.ID),
		zap.Uint("userId", userID),
		zap.String("tag", string(problem.Tag)),
	)
	return problem, nil
}

// Get 读题：所有者、管理员、或被指派的审题/翻译可见
func (s *ProblemService) Get(claims *util.Claims, problemID uint) (*model.Problem, error) {
	problem, err := s.ProblemRepo.FindByID(problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}

	if claims.IsAdmin() || problem.UserID == claims.UserID {
		return problem, nil
	}
	if ok, err := s.ProblemRepo.IsExaminer(problemID, claims.UserID); err != nil {
		return nil, err
	} else if ok {
		return problem, nil
	}
	if ok, err := s.ProblemRepo.IsTranslator(problemID, claims.UserID); err != nil {
		return nil, err
	} else if ok {
		return problem, nil
	}
	return nil, util.ErrPermissionDenied
}

func (s *ProblemService) ListMine(userID uint) ([]model.Problem, error) {
	return s.ProblemRepo.ListByUser(userID)
}

func (s *ProblemService) ListAll(tag model.ProblemTag, status model.ProblemStatus) ([]model.Problem, error) {
	return s.ProblemRepo.ListAll(tag, status)
}

// Edit 编辑题目：权威状态回到 PENDING，变量和随题提交的 AI 记录整体换新。
// 删旧建新放在一个事务里，外部观察不到“空集合”中间态。
func (s *ProblemService) Edit(claims *util.Claims, problemID uint, req ProblemRequest) (*model.Problem, error) {
	problem, err := s.ProblemRepo.FindByID(problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}
	if !claims.IsAdmin() && problem.UserID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}

	if req.Tag == "" {
		req.Tag = problem.Tag
	}
	if !validTag(req.Tag) {
		return nil, util.NewValidationError("tag", "unknown tag %q", string(req.Tag))
	}
	variables, err := buildVariables(req.Variables)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Problem{}).Where("id = ?", problemID).
			Updates(map[string]interface{}{
				"title":         req.Title,
				"content":       req.Content,
				"tag":           req.Tag,
				"offerer_email": req.OffererEmail,
				"status":        model.StatusPending,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("problem_id = ?", problemID).
			Delete(&model.ProblemVariable{}).Error; err != nil {
			return err
		}
		for i := range variables {
			variables[i].ProblemID = problemID
		}
		if len(variables) > 0 {
			if err := tx.Create(&variables).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("problem_id = ? AND tag = ?", problemID, model.AISubmitted).
			Delete(&model.AIPerformance{}).Error; err != nil {
			return err
		}
		for _, p := range req.AIPerformances {
			perf := model.AIPerformance{
				ProblemID:  problemID,
				AIName:     p.AIName,
				AISolution: p.AISolution,
				AIAnswer:   p.AIAnswer,
				IsCorrect:  p.IsCorrect,
				Comment:    p.Comment,
				Tag:        model.AISubmitted,
			}
			if err := tx.Create(&perf).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ProblemRepo.FindByID(problemID)
}

// Delete 删题：先删 AI 记录，再清变量和指派关系，最后删题，全在一个事务里
func (s *ProblemService) Delete(claims *util.Claims, problemID uint) error {
	problem, err := s.ProblemRepo.FindByID(problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrProblemNotFound
		}
		return err
	}
	if !claims.IsAdmin() && problem.UserID != claims.UserID {
		return util.ErrPermissionDenied
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("problem_id = ?", problemID).
			Delete(&model.AIPerformance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("problem_id = ?", problemID).
			Delete(&model.ProblemVariable{}).Error; err != nil {
			return err
		}
		if err := tx.Model(problem).Association("Examiners").Clear(); err != nil {
			return err
		}
		if err := tx.Model(problem).Association("Translators").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Problem{}, problemID).Error
	})
}

// SetTranslation 翻译人员更新译文，不动翻译轴状态
func (s *ProblemService) SetTranslation(claims *util.Claims, problemID uint, translation string) error {
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
		Update("translation", translation).Error
}

// SetFigureURL 题图上传完成后记录访问地址
func (s *ProblemService) SetFigureURL(problemID uint, url string) error {
	return s.DB.Model(&model.Problem{}).Where("id = ?", problemID).
		Update("figure_url", url).Error
}

// AddEvaluation 管理员追加 EVALUATION 类型 AI 评测记录
func (s *ProblemService) AddEvaluation(problemID uint, req AIPerformanceRequest) (*model.AIPerformance, error) {
	if _, err := s.ProblemRepo.FindByID(problemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}

	perf := &model.AIPerformance{
		ProblemID:  problemID,
		AIName:     req.AIName,
		AISolution: req.AISolution,
		AIAnswer:   req.AIAnswer,
		IsCorrect:  req.IsCorrect,
		Comment:    req.Comment,
		Tag:        model.AIEvaluation,
	}
	if err := s.AIRepo.Create(perf); err != nil {
		return nil, err
	}
	return perf, nil
}

func (s *ProblemService) ListAIPerformances(problemID uint) ([]model.AIPerformance, error) {
	return s.AIRepo.ListByProblem(problemID)
}
