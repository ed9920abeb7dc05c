package admin

import (
	"ProgJulia/entity"
	"context"
)

// Messenger is the outbound side of the chat transport.
type Messenger interface {
	SendText(chatID, text string) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// UserService lookups return nil, nil when nothing matches.
type UserService interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByPhone(ctx context.Context, phone string) ([]entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByPhoneOrEmailLike(ctx context.Context, phone, email string) ([]entity.User, error)
	FindAll(ctx context.Context) ([]entity.User, error)
	SaveUser(ctx context.Context, user *entity.User) error
	SetBanned(ctx context.Context, id int64, banned bool) error
	CountByGroup(ctx context.Context, group string) (int64, error)
	FindByGroup(ctx context.Context, group string, page, size int) ([]entity.User, error)
	AddToGroup(ctx context.Context, id int64, group string) error
	RemoveFromGroup(ctx context.Context, id int64, group string) error
}

type GroupService interface {
	GroupNames(ctx context.Context) ([]string, error)
	FindGroup(ctx context.Context, name string) (*entity.Group, error)
	// CreateGroup reports false when the group already exists.
	CreateGroup(ctx context.Context, name string) (bool, error)
}

type InviteService interface {
	CreateInvite(ctx context.Context, role entity.Role, days, maxUsage int, kind entity.DestinationType, destination string) (string, error)
}

type CourseService interface {
	FindLessons(ctx context.Context, spreadsheetID string, sheet int) ([]entity.Lesson, error)
	SaveLessons(ctx context.Context, link string, sheet int, group *entity.Group) (*entity.ImportReport, error)
	ReplaceLessons(ctx context.Context, existing []entity.Lesson, link string, sheet int, group *entity.Group) (*entity.ImportReport, error)
}

type CertificateService interface {
	UsersByCriteria(ctx context.Context, criteria entity.CertificateCriteria) (map[string][]entity.User, error)
	EnqueueTasks(ctx context.Context, users map[string][]entity.User) (int, error)
}

type CredentialService interface {
	// CredentialKey is the client id of the installed credentials, empty when none are loaded.
	CredentialKey() string
	ClearToken(ctx context.Context) error
	Store(ctx context.Context, raw []byte) (string, error)
	AuthURL(ctx context.Context) (string, error)
}

type Locker interface {
	TryLock(ctx context.Context, key string) (func(), error)
}

// Services bundles the collaborators states reach through the Context.
type Services struct {
	Users        UserService
	Groups       GroupService
	Invites      InviteService
	Courses      CourseService
	Certificates CertificateService
	Credentials  CredentialService
	Locker       Locker
}
