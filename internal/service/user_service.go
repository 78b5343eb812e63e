package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

// RoleChangeDispatcher posts user events to external webhook endpoints.
type RoleChangeDispatcher interface {
	RoleChangeEvent(ctx context.Context, user *models.User)
}

// UserService handles sign-in upserts and the admin approval/role flows.
type UserService struct {
	users      *repository.UserRepository
	dispatcher RoleChangeDispatcher
	notifier   Notifier
	logger     *log.Logger
}

// NewUserService creates a user service.
func NewUserService(users *repository.UserRepository, dispatcher RoleChangeDispatcher, notifier Notifier) *UserService {
	return &UserService{
		users:      users,
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     log.New(log.Writer(), "[USER] ", log.LstdFlags),
	}
}

// SignIn creates the user on first sign-in or refreshes profile fields.
func (s *UserService) SignIn(ctx context.Context, user *models.User) (*models.User, error) {
	return s.users.Upsert(ctx, user)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return user, err
}

// List returns a bounded page of users.
func (s *UserService) List(ctx context.Context, page, perPage int) ([]*models.User, error) {
	return s.users.List(ctx, page, perPage)
}

// Approve admits a pending user. Deciding an already-decided user returns
// ErrAlreadyDecided. On success the user gets an in-app notification.
func (s *UserService) Approve(ctx context.Context, id string) (*models.User, error) {
	return s.decide(ctx, id, models.ApprovalApproved)
}

// Reject declines a pending user.
func (s *UserService) Reject(ctx context.Context, id string) (*models.User, error) {
	return s.decide(ctx, id, models.ApprovalRejected)
}

func (s *UserService) decide(ctx context.Context, id, status string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ApprovalStatus != models.ApprovalPending {
		return nil, ErrAlreadyDecided
	}

	err = s.users.SetApprovalStatus(ctx, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		// Another admin decided first.
		return nil, ErrAlreadyDecided
	}
	if err != nil {
		return nil, err
	}
	user.ApprovalStatus = status

	if status == models.ApprovalApproved {
		s.notifier.Create(ctx, user.ID, models.NotificationAccountApproved,
			"Account Approved",
			"An administrator has approved your account.",
			"/",
		)
	}
	return user, nil
}

// SetRole changes a user's role and fans out the role-change webhook plus an
// in-app notification.
func (s *UserService) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRole(ctx, id, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.Role = role

	s.dispatcher.RoleChangeEvent(ctx, user)
	s.notifier.Create(ctx, user.ID, models.NotificationRoleChanged,
		"Role Changed",
		fmt.Sprintf("Your role is now %s.", role),
		"/",
	)
	return user, nil
}

// LinkTelegram stores the user's Telegram handle and chat ID.
func (s *UserService) LinkTelegram(ctx context.Context, id, handle, chatID string) error {
	err := s.users.SetTelegram(ctx, id, handle, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
