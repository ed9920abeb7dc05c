package account

import (
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var ErrNoRepository = errors.New("repository is not configured")

type Repository interface {
	FindUserByID(ctx context.Context, id int64) (*entity.User, error)
	FindUserByUniqueID(ctx context.Context, uniqueID string) (*entity.User, error)
	FindUserByChatID(ctx context.Context, chatID string) (*entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
	FindUsersByPhone(ctx context.Context, phone string) ([]entity.User, error)
	FindUsersLike(ctx context.Context, phone, email string) ([]entity.User, error)
	FindAllUsers(ctx context.Context) ([]entity.User, error)
	SaveUser(ctx context.Context, user *entity.User) error
	SetUserBanned(ctx context.Context, id int64, banned bool) error
	AddUserToGroup(ctx context.Context, id int64, group string) error
	RemoveUserFromGroup(ctx context.Context, id int64, group string) error
	UpdateUserChatID(ctx context.Context, uniqueID, chatID string) (bool, error)
	CountUsersByGroup(ctx context.Context, group string) (int64, error)
	FindUsersByGroup(ctx context.Context, group string, page, size int) ([]entity.User, error)

	GroupNames(ctx context.Context) ([]string, error)
	FindGroup(ctx context.Context, name string) (*entity.Group, error)
	CreateGroup(ctx context.Context, name string) (bool, error)

	SaveInvite(ctx context.Context, invite *entity.Invite) error
}

// Service is the user, group and invite directory used by the admin bot.
type Service struct {
	repository Repository
	validate   *validator.Validate
	now        func() time.Time
	log        *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		validate: validator.New(),
		now:      time.Now,
		log:      logger.With(sl.Module("account-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

func (s *Service) repo() (Repository, error) {
	if s.repository == nil {
		return nil, ErrNoRepository
	}
	return s.repository, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.FindUserByID(ctx, id)
}

func (s *Service) FindByChatID(ctx context.Context, chatID string) (*entity.User, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.FindUserByChatID(ctx, chatID)
}

func (s *Service) FindByPhone(ctx context.Context, phone string) ([]entity.User, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.FindUsersByPhone(ctx, phone)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.FindUserByEmail(ctx, email)
}

func (s *Service) FindByPhoneOrEmailLike(ctx context.Context, phone, email string) ([]entity.User, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.FindUsersLike(ctx, phone, email)
}

func (s *Service) FindAll(ctx context.Context) ([]entity.User, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.FindAllUsers(ctx)
}

// SaveUser lower-cases e-mails and validates the record before storing it.
func (s *Service) SaveUser(ctx context.Context, user *entity.User) error {
	r, err := s.repo()
	if err != nil {
		return err
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for i, e := range user.Emails {
		user.Emails[i] = strings.ToLower(strings.TrimSpace(e))
	}
	if err = s.validate.Struct(user); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	return r.SaveUser(ctx, user)
}

func (s *Service) SetBanned(ctx context.Context, id int64, banned bool) error {
	r, err := s.repo()
	if err != nil {
		return err
	}
	if err = r.SetUserBanned(ctx, id, banned); err != nil {
		return err
	}
	s.log.With(
		slog.Int64("user_id", id),
		slog.Bool("banned", banned),
	).Info("user ban changed")
	return nil
}

func (s *Service) CountByGroup(ctx context.Context, group string) (int64, error) {
	r, err := s.repo()
	if err != nil {
		return 0, err
	}
	return r.CountUsersByGroup(ctx, group)
}

func (s *Service) FindByGroup(ctx context.Context, group string, page, size int) ([]entity.User, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.FindUsersByGroup(ctx, group, page, size)
}

func (s *Service) AddToGroup(ctx context.Context, id int64, group string) error {
	r, err := s.repo()
	if err != nil {
		return err
	}
	return r.AddUserToGroup(ctx, id, group)
}

func (s *Service) RemoveFromGroup(ctx context.Context, id int64, group string) error {
	r, err := s.repo()
	if err != nil {
		return err
	}
	return r.RemoveUserFromGroup(ctx, id, group)
}

// LinkChat binds a Telegram chat to the account reached through a /start deep link.
func (s *Service) LinkChat(ctx context.Context, uniqueID, chatID string) (bool, error) {
	r, err := s.repo()
	if err != nil {
		return false, err
	}
	return r.UpdateUserChatID(ctx, uniqueID, chatID)
}

func (s *Service) GroupNames(ctx context.Context) ([]string, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.GroupNames(ctx)
}

func (s *Service) FindGroup(ctx context.Context, name string) (*entity.Group, error) {
	r, err := s.repo()
	if err != nil {
		return nil, err
	}
	return r.FindGroup(ctx, strings.TrimSpace(name))
}

func (s *Service) CreateGroup(ctx context.Context, name string) (bool, error) {
	r, err := s.repo()
	if err != nil {
		return false, err
	}
	return r.CreateGroup(ctx, strings.TrimSpace(name))
}

// CreateInvite stores a new invite and returns its code.
func (s *Service) CreateInvite(ctx context.Context, role entity.Role, days, maxUsage int, kind entity.DestinationType, destination string) (string, error) {
	r, err := s.repo()
	if err != nil {
		return "", err
	}
	if maxUsage <= 0 {
		return "", fmt.Errorf("max usage must be positive: %d", maxUsage)
	}

	now := s.now()
	invite := &entity.Invite{
		Code:            newInviteCode(),
		Role:            role,
		DestinationType: kind,
		Destination:     destination,
		MaxUsage:        maxUsage,
		CreatedAt:       now,
		ExpiresAt:       now.AddDate(0, 0, days),
	}
	if err = r.SaveInvite(ctx, invite); err != nil {
		return "", err
	}

	s.log.With(
		slog.String("role", string(role)),
		slog.String("destination", destination),
		slog.Int("max_usage", maxUsage),
	).Info("invite created")
	return invite.Code, nil
}

func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
