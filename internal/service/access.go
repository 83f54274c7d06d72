package service

import (
	"context"
	"fmt"

	"github.com/astralshopid/astral-api/internal/domain"
)

type AccessUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	SetBlocked(ctx context.Context, id uint, blocked bool) error
	FindBlocked(ctx context.Context) ([]domain.User, error)
}

// AccessService maintains the blocklist. Blocking hides the user's
// conversation from the roster and rejects their sends; their message
// history stays intact so unblocking restores everything.
type AccessService struct {
	repo     AccessUserRepository
	notifier *Notifier
}

func NewAccessService(repo AccessUserRepository, notifier *Notifier) *AccessService {
	return &AccessService{
		repo:     repo,
		notifier: notifier,
	}
}

// Block flags the user. Blocking an already blocked user is a no-op.
func (s *AccessService) Block(ctx context.Context, id uint) error {
	return s.setBlocked(ctx, id, true)
}

// Unblock clears the flag. Unblocking a user who is not blocked is a no-op.
func (s *AccessService) Unblock(ctx context.Context, id uint) error {
	return s.setBlocked(ctx, id, false)
}

func (s *AccessService) setBlocked(ctx context.Context, id uint, blocked bool) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if user.Blocked == blocked {
		return nil
	}

	if err = s.repo.SetBlocked(ctx, id, blocked); err != nil {
		return fmt.Errorf("s.repo.SetBlocked -> %w", err)
	}

	// The roster includes or drops this user's conversation now.
	s.notifier.RosterChanged(ctx)

	return nil
}

func (s *AccessService) IsBlocked(ctx context.Context, id uint) (bool, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user.Blocked, nil
}

func (s *AccessService) ListBlocked(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindBlocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindBlocked -> %w", err)
	}

	return users, nil
}
