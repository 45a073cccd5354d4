package repository

import (
	"physbank_backend/internal/model"

	"gorm.io/gorm"
)

type ScoreEventRepository struct {
	DB *gorm.DB
}

func NewScoreEventRepository(db *gorm.DB) *ScoreEventRepository {
	return &ScoreEventRepository{DB: db}
}

func (r *ScoreEventRepository) Create(event *model.ScoreEvent) error {
	return r.DB.Create(event).Error
}

func (r *ScoreEventRepository) FindByUserProblemTag(userID, problemID uint, tag model.ScoreEventTag) (*model.ScoreEvent, error) {
	var event model.ScoreEvent
	err := r.DB.Where("user_id = ? AND problem_id = ? AND tag = ?", userID, problemID, tag).
		First(&event).Error
	return &event, err
}

// ListExamineByProblem 某题的全部 EXAMINE 选票，按创建顺序。
// 选票在列表中的 1-based 位置就是审题人在该题的固定编号。
func (r *ScoreEventRepository) ListExamineByProblem(problemID uint) ([]model.ScoreEvent, error) {
	var events []model.ScoreEvent
	err := r.DB.Where("problem_id = ? AND tag = ?", problemID, model.EventExamine).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

// ListExamineOpinions 全部有意见内容的 EXAMINE 选票，供对账用
func (r *ScoreEventRepository) ListExamineOpinions() ([]model.ScoreEvent, error) {
	var events []model.ScoreEvent
	err := r.DB.Where("tag = ? AND problem_status IS NOT NULL AND problem_id IS NOT NULL", model.EventExamine).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

func (r *ScoreEventRepository) ListByUser(userID uint) ([]model.ScoreEvent, error) {
	var events []model.ScoreEvent
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&events).Error
	return events, err
}

// SumByUser 用户全部事件分数之和，无事件时为 0
func (r *ScoreEventRepository) SumByUser(userID uint) (float64, error) {
	var total float64
	err := r.DB.Model(&model.ScoreEvent{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(score), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ScoreEventRepository) Update(event *model.ScoreEvent) error {
	return r.DB.Save(event).Error
}

// UpdateAllExamineScores 批量调整审题奖励分，不回溯 SUBMIT/OFFER
func (r *ScoreEventRepository) UpdateAllExamineScores(newScore float64) (int64, error) {
	result := r.DB.Model(&model.ScoreEvent{}).
		Where("tag = ?", model.EventExamine).
		Update("score", newScore)
	return result.RowsAffected, result.Error
}

// DeleteAll 管理员批量清空台账。必须硬删除：软删行仍占用
// (tag, user_id, problem_id) 唯一索引，会挡住之后的选票重开和积分重传播
func (r *ScoreEventRepository) DeleteAll() error {
	return r.DB.Unscoped().Where("1 = 1").Delete(&model.ScoreEvent{}).Error
}
