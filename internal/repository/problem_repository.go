package repository

import (
	"physbank_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

func (r *ProblemRepository) Create(problem *model.Problem) error {
	return r.DB.Create(problem).Error
}

func (r *ProblemRepository) FindByID(id uint) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.Preload("Variables").Preload("AIPerformances").First(&problem, id).Error
	return &problem, err
}

func (r *ProblemRepository) ListByUser(userID uint) ([]model.Problem, error) {
	var problems []model.Problem
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&problems).Error
	return problems, err
}

func (r *ProblemRepository) ListAll(tag model.ProblemTag, status model.ProblemStatus) ([]model.Problem, error) {
	q := r.DB.Order("id ASC")
	if tag != "" {
		q = q.Where("tag = ?", tag)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var problems []model.Problem
	err := q.Find(&problems).Error
	return problems, err
}

// ListPendingIDsByTag 某分类下待定题目的 ID 列表，按 ID 升序。
// statusField 是 "status" 或 "translated_status"，分配引擎按位置下标索引该列表。
func (r *ProblemRepository) ListPendingIDsByTag(tag model.ProblemTag, statusField string) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Problem{}).
		Where(statusField+" = ?", string(model.StatusPending)).
		Where("tag = ?", tag).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *ProblemRepository) CountPendingByTag(tag model.ProblemTag, statusField string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Problem{}).
		Where(statusField+" = ?", string(model.StatusPending)).
		Where("tag = ?", tag).
		Count(&count).Error
	return count, err
}

func (r *ProblemRepository) Update(problem *model.Problem) error {
	return r.DB.Save(problem).Error
}

// IsExaminer 用户是否在该题的审题人集合里
func (r *ProblemRepository) IsExaminer(problemID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Table("problem_examiners").
		Where("problem_id = ? AND user_id = ?", problemID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProblemRepository) IsTranslator(problemID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Table("problem_translators").
		Where("problem_id = ? AND user_id = ?", problemID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProblemRepository) ListAssignedExamine(userID uint) ([]*model.Problem, error) {
	user := model.User{BaseModel: model.BaseModel{ID: userID}}
	var problems []*model.Problem
	err := r.DB.Model(&user).Association("ExamineProblems").Find(&problems)
	return problems, err
}

func (r *ProblemRepository) ListAssignedTranslate(userID uint) ([]*model.Problem, error) {
	user := model.User{BaseModel: model.BaseModel{ID: userID}}
	var problems []*model.Problem
	err := r.DB.Model(&user).Association("TranslateProblems").Find(&problems)
	return problems, err
}
