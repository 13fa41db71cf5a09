package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"contesthub/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 1 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	db        *gorm.DB
	tokens    RefreshTokenStore
	jwtSecret string
}

func NewAuthService(db *gorm.DB, tokens RefreshTokenStore, jwtSecret string) *AuthService {
	return &AuthService{db: db, tokens: tokens, jwtSecret: jwtSecret}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.signAccessToken(&user)
	if err != nil {
		return nil, err
	}

	refreshToken := generateRefreshToken()
	if err := s.tokens.Save(ctx, refreshToken, user.ID, refreshTokenTTL); err != nil {
		return nil, err
	}

	resp := &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	resp.User.Username = user.Username
	resp.User.Role = user.Role
	return resp, nil
}

// RefreshAccessToken exchanges a live refresh token for a fresh access
// token. Expired tokens fall out of the store by TTL.
func (s *AuthService) RefreshAccessToken(ctx context.Context, req *RefreshRequest) (string, error) {
	userID, err := s.tokens.Lookup(ctx, req.RefreshToken)
	if err != nil {
		return "", err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return "", ErrInvalidRefreshToken
	}
	return s.signAccessToken(&user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Delete(ctx, refreshToken)
}

func (s *AuthService) signAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func generateRefreshToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	sum := sha256.Sum256(bytes)
	return hex.EncodeToString(sum[:])
}
