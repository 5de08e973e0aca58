package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "tms/internal/errors"
	"tms/internal/model"
	"tms/internal/repository"
)

// ApprovalAction is an admin decision on a pending user.
type ApprovalAction string

const (
	ActionApprove ApprovalAction = "approve"
	ActionReject  ApprovalAction = "reject"
)

// UserService exposes profile and user administration operations.
type UserService interface {
	Me(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error

	ListUsers(ctx context.Context) ([]model.User, error)
	ListPending(ctx context.Context) ([]model.User, error)
	Approve(ctx context.Context, email string, action ApprovalAction) (*model.User, error)
	SetRole(ctx context.Context, email string, role model.Role) (*model.User, error)
	SetStatus(ctx context.Context, email string, status model.UserStatus) (*model.User, error)
	ResetPassword(ctx context.Context, email, password string) error
}

type userService struct {
	store repository.Store
}

// NewUserService builds a UserService.
func NewUserService(store repository.Store) UserService {
	return &userService{store: store}
}

func (s *userService) Me(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile renames the user. Plan items assigned to the old name follow the rename
// inside the same transaction.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	var user *model.User
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		current, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}
		if current.Name != name {
			if err := tx.Users().UpdateFields(ctx, id, map[string]interface{}{"name": name}); err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			if _, err := tx.Plans().RenameAssignee(ctx, current.Name, name); err != nil {
				return fmt.Errorf("rename assignee: %w", err)
			}
		}
		user, err = tx.Users().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if current == "" || next == "" {
		return apperrors.NewValidationError("currentPassword and newPassword are required")
	}
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	hashed, err := hashPassword(next)
	if err != nil {
		return err
	}
	return s.store.Users().UpdateFields(ctx, id, map[string]interface{}{"password_hash": hashed})
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.Users().List(ctx)
}

func (s *userService) ListPending(ctx context.Context) ([]model.User, error) {
	return s.store.Users().ListByStatus(ctx, model.UserStatusPending)
}

func (s *userService) Approve(ctx context.Context, email string, action ApprovalAction) (*model.User, error) {
	switch action {
	case ActionApprove:
		return s.SetStatus(ctx, email, model.UserStatusActive)
	case ActionReject:
		return s.SetStatus(ctx, email, model.UserStatusRejected)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid action %q", action))
	}
}

func (s *userService) SetRole(ctx context.Context, email string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid role %q", role))
	}
	return s.updateByEmail(ctx, email, map[string]interface{}{"role": role})
}

func (s *userService) SetStatus(ctx context.Context, email string, status model.UserStatus) (*model.User, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status %q", status))
	}
	return s.updateByEmail(ctx, email, map[string]interface{}{"status": status})
}

func (s *userService) ResetPassword(ctx context.Context, email, password string) error {
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.updateByEmail(ctx, email, map[string]interface{}{"password_hash": hashed})
	return err
}

func (s *userService) updateByEmail(ctx context.Context, email string, fields map[string]interface{}) (*model.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	if err := s.store.Users().UpdateFields(ctx, user.ID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.store.Users().FindByID(ctx, user.ID)
}
