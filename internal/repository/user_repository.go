package repository

import (
	"physbank_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) List() ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateScore(userID uint, score float64) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("score", score).
		Error
}

func (r *UserRepository) CountAdmins() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error
	return count, err
}

func (r *UserRepository) FindTopByScore(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("score DESC").Limit(limit).Find(&users).Error
	return users, err
}
