package service

import (
	"errors"
	"physbank_backend/internal/model"
	"physbank_backend/internal/repository"
	"physbank_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) List() ([]model.User, error) {
	return s.UserRepo.List()
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangeRole 改角色。最后一名管理员不能被降级，不然系统就没人管了
func (s *UserService) ChangeRole(userID uint, role model.UserRole) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, util.NewValidationError("role", "unknown role %q", string(role))
	}

	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if user.Role == model.RoleAdmin && role == model.RoleUser {
		admins, err := s.UserRepo.CountAdmins()
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, util.ErrLastAdmin
		}
	}

	user.Role = role
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUsername 自己或管理员改用户名
func (s *UserService) UpdateUsername(claims *util.Claims, userID uint, username string) (*model.User, error) {
	if username == "" {
		return nil, util.NewValidationError("username", "must not be empty")
	}
	if !claims.IsAdmin() && claims.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	user.Username = username
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
