package certificate

import (
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const pageSize = 100

var ErrNoRepository = errors.New("repository is not configured")

type Repository interface {
	FindUserByID(ctx context.Context, id int64) (*entity.User, error)
	FindUsersLike(ctx context.Context, phone, email string) ([]entity.User, error)
	FindUsersByGroup(ctx context.Context, group string, page, size int) ([]entity.User, error)
	SaveCertificateTasks(ctx context.Context, tasks []entity.CertificateTask) error
}

// Service resolves certificate recipients and queues certificate tasks.
// Rendering and mailing is done by a separate worker reading the task collection.
type Service struct {
	repository Repository
	now        func() time.Time
	log        *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	return &Service{
		now: time.Now,
		log: log.With(sl.Module("certificate-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

// recipients collects users per group name, each user at most once per group.
type recipients struct {
	users map[string][]entity.User
	seen  map[string]map[int64]bool
}

func newRecipients() *recipients {
	return &recipients{
		users: make(map[string][]entity.User),
		seen:  make(map[string]map[int64]bool),
	}
}

func (r *recipients) add(group string, user entity.User) {
	if r.seen[group] == nil {
		r.seen[group] = make(map[int64]bool)
	}
	if r.seen[group][user.ID] {
		return
	}
	r.seen[group][user.ID] = true
	r.users[group] = append(r.users[group], user)
}

// addToOwnGroups files a user under every group the user belongs to.
func (r *recipients) addToOwnGroups(user entity.User) {
	for _, g := range user.Groups {
		r.add(g, user)
	}
}

// UsersByCriteria returns matching users keyed by the group the certificate is issued for.
// Users picked by id, phone or email are filed under each of their groups.
func (s *Service) UsersByCriteria(ctx context.Context, criteria entity.CertificateCriteria) (map[string][]entity.User, error) {
	if s.repository == nil {
		return nil, ErrNoRepository
	}
	r := newRecipients()

	for _, id := range criteria.UserIDs {
		user, err := s.repository.FindUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			s.log.Debug("certificate user not found", slog.Int64("user_id", id))
			continue
		}
		r.addToOwnGroups(*user)
	}

	for _, group := range criteria.Groups {
		for page := 0; ; page++ {
			users, err := s.repository.FindUsersByGroup(ctx, group, page, pageSize)
			if err != nil {
				return nil, err
			}
			for _, u := range users {
				r.add(group, u)
			}
			if len(users) < pageSize {
				break
			}
		}
	}

	for _, phone := range criteria.Phones {
		users, err := s.repository.FindUsersLike(ctx, phone, "")
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			r.addToOwnGroups(u)
		}
	}

	for _, email := range criteria.Emails {
		users, err := s.repository.FindUsersLike(ctx, "", email)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			r.addToOwnGroups(u)
		}
	}

	return r.users, nil
}

// EnqueueTasks stores one pending task per user and group and returns the number of tasks.
func (s *Service) EnqueueTasks(ctx context.Context, users map[string][]entity.User) (int, error) {
	if s.repository == nil {
		return 0, ErrNoRepository
	}
	now := s.now()

	var tasks []entity.CertificateTask
	for group, list := range users {
		for _, u := range list {
			tasks = append(tasks, entity.CertificateTask{
				ID:        uuid.NewString(),
				UserID:    u.ID,
				UserName:  u.FullName(),
				GroupName: group,
				Status:    entity.CertificatePending,
				CreatedAt: now,
			})
		}
	}
	if err := s.repository.SaveCertificateTasks(ctx, tasks); err != nil {
		return 0, err
	}

	s.log.With(slog.Int("tasks", len(tasks))).Info("certificate tasks queued")
	return len(tasks), nil
}
