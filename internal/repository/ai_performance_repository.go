package repository

import (
	"physbank_backend/internal/model"

	"gorm.io/gorm"
)

type AIPerformanceRepository struct {
	DB *gorm.DB
}

func NewAIPerformanceRepository(db *gorm.DB) *AIPerformanceRepository {
	return &AIPerformanceRepository{DB: db}
}

func (r *AIPerformanceRepository) Create(perf *model.AIPerformance) error {
	return r.DB.Create(perf).Error
}

func (r *AIPerformanceRepository) ListByProblem(problemID uint) ([]model.AIPerformance, error) {
	var perfs []model.AIPerformance
	err := r.DB.Where("problem_id = ?", problemID).Order("id ASC").Find(&perfs).Error
	return perfs, err
}

func (r *AIPerformanceRepository) Delete(id uint) error {
	return r.DB.Delete(&model.AIPerformance{}, id).Error
}
