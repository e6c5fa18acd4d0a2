package services

import (
	"errors"
	"time"

	"firetrack-backend/internal/models"
	"firetrack-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages accounts. Every operation is admin-only; operators and
// readers manage nothing but their own session.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Grade     string `json:"grade,omitempty"`
	Station   string `json:"station,omitempty"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,oneof=admin operator reader"`
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Grade     string `json:"grade,omitempty"`
	Station   string `json:"station,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=admin operator reader"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
}

func (s *UserService) GetAllUsers(actor Actor) ([]*models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.FindAll()
}

func (s *UserService) GetUserByID(id string, actor Actor) (*models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(id)
}

func (s *UserService) CreateUser(req *CreateUserRequest, actor Actor) (*models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Grade:     req.Grade,
		Station:   req.Station,
		Password:  string(hashed),
		Role:      req.Role,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.userRepo.Create(user)
}

func (s *UserService) UpdateUser(id string, req *UpdateUserRequest, actor Actor) (*models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Grade != "" {
		user.Grade = req.Grade
	}
	if req.Station != "" {
		user.Station = req.Station
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	user.UpdatedAt = time.Now()

	return s.userRepo.Update(id, user)
}

func (s *UserService) DeleteUser(id string, actor Actor) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		return errors.New("user not found")
	}
	return s.userRepo.Delete(id)
}
