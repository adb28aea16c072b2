package service

import (
	"context"
	"errors"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/repository"
	"lingochat_backend/internal/util"
	"lingochat_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string

	// GrantRole 仅管理员创建账户时为 true，否则一律按普通用户注册
	GrantRole bool
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, util.NewValidationError("All fields are required")
	}

	role := model.RoleUser
	if r := strings.TrimSpace(in.Role); r != "" {
		role = model.UserRole(strings.ToLower(r))
		if !role.Valid() {
			return nil, util.NewValidationError("Invalid role %q", in.Role)
		}
		if !in.GrantRole && role != model.RoleUser {
			logger.Log.Warn("role ignored for self registration",
				zap.String("email", in.Email),
				zap.String("requestedRole", string(role)))
			role = model.RoleUser
		}
	}

	_, err := s.UserRepo.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.WrapStore("find user by email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, util.WrapStore("create user", err)
	}
	return user, nil
}

// Login 校验密码哈希并签发 JWT；邮箱不存在与密码错误返回同一错误
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", util.NewValidationError("Email and password are required")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", util.WrapStore("find user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, now); err == nil {
		user.LastLogin = &now
	}
	return user, token, nil
}

func (s *AuthService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return nil, util.WrapStore("list users", err)
	}
	return users, nil
}
