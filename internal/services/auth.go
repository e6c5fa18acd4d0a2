package services

import (
	"errors"
	"time"

	"firetrack-backend/internal/models"
	"firetrack-backend/internal/repository"
	"firetrack-backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo *repository.UserRepository
	jwtUtil  *jwt.JWTUtil
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwtUtil:  jwt.NewJWTUtil(),
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *models.AuthUser `json:"user"`
	Token string           `json:"token"`
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.Status != "active" {
		return nil, errors.New("account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	now := time.Now()
	user.LastLogin = &now
	s.userRepo.Update(user.ID.Hex(), user)

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.DisplayName(), user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		User:  authUserFrom(user),
		Token: token,
	}, nil
}

func (s *AuthService) RefreshTokenFromString(tokenString string) (string, error) {
	newToken, err := s.jwtUtil.RefreshToken(tokenString)
	if err != nil {
		return "", errors.New("failed to refresh token")
	}
	return newToken, nil
}

func (s *AuthService) GetUserProfile(userID string) (*models.AuthUser, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if user.Status != "active" {
		return nil, errors.New("account is not active")
	}

	return authUserFrom(user), nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func authUserFrom(user *models.User) *models.AuthUser {
	return &models.AuthUser{
		ID:          user.ID.Hex(),
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DisplayName: user.DisplayName(),
		Role:        user.Role,
	}
}
