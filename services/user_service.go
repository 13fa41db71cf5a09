package services

import (
	"errors"
	"fmt"

	"contesthub/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserFilter struct {
	FullName string `form:"full_name"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	FullName string `json:"full_name" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=6"`
}

type CreateDefaultUserRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	FullName string `json:"full_name" binding:"required,max=255"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (s *UserService) GetUsers(filter *UserFilter) ([]models.User, error) {
	query := s.db
	if filter.FullName != "" {
		query = query.Where("full_name LIKE ?", "%"+filter.FullName+"%")
	}

	var users []models.User
	err := query.Find(&users).Error
	return users, err
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) CreateUser(req *CreateUserRequest) (*models.User, error) {
	var existing models.User
	err := s.db.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		FullName: req.FullName,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUsers bulk-creates participant accounts with a derived default
// password. Every username is checked before the first insert.
func (s *UserService) CreateUsers(reqs []CreateDefaultUserRequest) ([]models.User, error) {
	if len(reqs) == 0 {
		return []models.User{}, nil
	}
	for _, req := range reqs {
		var existing models.User
		err := s.db.Where("username = ?", req.Username).First(&existing).Error
		if err == nil {
			return nil, ErrUsernameTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	users := make([]models.User, 0, len(reqs))
	for _, req := range reqs {
		hash, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("%s@1234", req.Username)), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		users = append(users, models.User{
			Username: req.Username,
			FullName: req.FullName,
			Password: string(hash),
			Role:     models.RoleUser,
		})
	}

	if err := s.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) UpdateUser(userID uint, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	return s.db.Delete(user).Error
}
