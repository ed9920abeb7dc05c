package states

import (
	"ProgJulia/bot/admin"
	"ProgJulia/entity"
	"ProgJulia/internal/lib/keylock"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const operatorChat int64 = 100

type fakeMessenger struct {
	mu    sync.Mutex
	sent  map[string][]string
	files map[string][]byte
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{sent: make(map[string][]string), files: make(map[string][]byte)}
}

func (m *fakeMessenger) SendText(chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if strings.HasPrefix(chatID, "dead") {
		return errors.New("bot was blocked by the user")
	}
	m.sent[chatID] = append(m.sent[chatID], text)
	return nil
}

func (m *fakeMessenger) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	data, ok := m.files[fileID]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (m *fakeMessenger) to(chat string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent[chat]...)
}

// fakeDirectory serves users, groups and invites from memory.
type fakeDirectory struct {
	users   map[int64]*entity.User
	groups  map[string]bool
	invites []entity.Invite
}

func newFakeDirectory(users ...entity.User) *fakeDirectory {
	d := &fakeDirectory{users: make(map[int64]*entity.User), groups: make(map[string]bool)}
	for i := range users {
		u := users[i]
		d.users[u.ID] = &u
		for _, g := range u.Groups {
			d.groups[g] = true
		}
	}
	return d
}

func (d *fakeDirectory) sorted() []entity.User {
	list := make([]entity.User, 0, len(d.users))
	for _, u := range d.users {
		list = append(list, *u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (d *fakeDirectory) FindByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (d *fakeDirectory) FindByPhone(_ context.Context, phone string) ([]entity.User, error) {
	digits := strings.TrimPrefix(phone, "+")
	var list []entity.User
	for _, u := range d.sorted() {
		for _, p := range append([]string{u.Phone}, u.Phones...) {
			if p != "" && strings.TrimPrefix(p, "+") == digits {
				list = append(list, u)
				break
			}
		}
	}
	return list, nil
}

func (d *fakeDirectory) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range d.sorted() {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
		for _, e := range u.Emails {
			if strings.EqualFold(e, email) {
				return &u, nil
			}
		}
	}
	return nil, nil
}

func (d *fakeDirectory) FindByPhoneOrEmailLike(_ context.Context, phone, email string) ([]entity.User, error) {
	var list []entity.User
	for _, u := range d.sorted() {
		if (phone != "" && strings.Contains(u.Phone, strings.TrimPrefix(phone, "+"))) ||
			(email != "" && strings.Contains(u.Email, email)) {
			list = append(list, u)
		}
	}
	return list, nil
}

func (d *fakeDirectory) FindAll(context.Context) ([]entity.User, error) {
	return d.sorted(), nil
}

func (d *fakeDirectory) SaveUser(_ context.Context, user *entity.User) error {
	c := *user
	d.users[user.ID] = &c
	return nil
}

func (d *fakeDirectory) SetBanned(_ context.Context, id int64, banned bool) error {
	d.users[id].Banned = banned
	return nil
}

func (d *fakeDirectory) members(group string) []entity.User {
	var list []entity.User
	for _, u := range d.sorted() {
		if u.InGroup(group) {
			list = append(list, u)
		}
	}
	return list
}

func (d *fakeDirectory) CountByGroup(_ context.Context, group string) (int64, error) {
	return int64(len(d.members(group))), nil
}

func (d *fakeDirectory) FindByGroup(_ context.Context, group string, page, size int) ([]entity.User, error) {
	all := d.members(group)
	from := page * size
	if from >= len(all) {
		return nil, nil
	}
	return all[from:min(from+size, len(all))], nil
}

func (d *fakeDirectory) AddToGroup(_ context.Context, id int64, group string) error {
	u := d.users[id]
	if !u.InGroup(group) {
		u.Groups = append(u.Groups, group)
	}
	return nil
}

func (d *fakeDirectory) RemoveFromGroup(_ context.Context, id int64, group string) error {
	u := d.users[id]
	var kept []string
	for _, g := range u.Groups {
		if g != group {
			kept = append(kept, g)
		}
	}
	u.Groups = kept
	return nil
}

func (d *fakeDirectory) GroupNames(context.Context) ([]string, error) {
	var names []string
	for g := range d.groups {
		names = append(names, g)
	}
	sort.Strings(names)
	return names, nil
}

func (d *fakeDirectory) FindGroup(_ context.Context, name string) (*entity.Group, error) {
	if !d.groups[name] {
		return nil, nil
	}
	return &entity.Group{Name: name}, nil
}

func (d *fakeDirectory) CreateGroup(_ context.Context, name string) (bool, error) {
	if d.groups[name] {
		return false, nil
	}
	d.groups[name] = true
	return true, nil
}

func (d *fakeDirectory) CreateInvite(_ context.Context, role entity.Role, _, maxUsage int, kind entity.DestinationType, destination string) (string, error) {
	code := fmt.Sprintf("CODE%d", len(d.invites)+1)
	d.invites = append(d.invites, entity.Invite{
		Code:            code,
		Role:            role,
		MaxUsage:        maxUsage,
		DestinationType: kind,
		Destination:     destination,
	})
	return code, nil
}

type fakeCourses struct {
	stored map[string][]entity.Lesson
	read   []entity.Lesson
	err    error
	calls  []string
}

func newFakeCourses(read ...string) *fakeCourses {
	f := &fakeCourses{stored: make(map[string][]entity.Lesson)}
	for _, name := range read {
		f.read = append(f.read, entity.Lesson{Name: name})
	}
	return f
}

func lessonKey(id string, sheet int) string {
	return id + "#" + strconv.Itoa(sheet)
}

func (f *fakeCourses) FindLessons(_ context.Context, id string, sheet int) ([]entity.Lesson, error) {
	return f.stored[lessonKey(id, sheet)], nil
}

func (f *fakeCourses) load(link string, sheet int) []entity.Lesson {
	id := strings.Split(strings.TrimPrefix(link, "https://docs.google.com/spreadsheets/d/"), "/")[0]
	f.stored[lessonKey(id, sheet)] = f.read
	return f.read
}

func (f *fakeCourses) SaveLessons(_ context.Context, link string, sheet int, _ *entity.Group) (*entity.ImportReport, error) {
	f.calls = append(f.calls, "save")
	if f.err != nil {
		return nil, f.err
	}
	lessons := f.load(link, sheet)
	return &entity.ImportReport{Added: len(lessons)}, nil
}

func (f *fakeCourses) ReplaceLessons(_ context.Context, existing []entity.Lesson, link string, sheet int, _ *entity.Group) (*entity.ImportReport, error) {
	f.calls = append(f.calls, "replace")
	if f.err != nil {
		return nil, f.err
	}
	lessons := f.load(link, sheet)
	return &entity.ImportReport{Updated: min(len(existing), len(lessons))}, nil
}

type fakeCertificates struct {
	users    map[string][]entity.User
	criteria entity.CertificateCriteria
	queued   int
}

func (f *fakeCertificates) UsersByCriteria(_ context.Context, c entity.CertificateCriteria) (map[string][]entity.User, error) {
	f.criteria = c
	return f.users, nil
}

func (f *fakeCertificates) EnqueueTasks(_ context.Context, users map[string][]entity.User) (int, error) {
	for _, list := range users {
		f.queued += len(list)
	}
	return f.queued, nil
}

type fakeCredentials struct {
	mu       sync.Mutex
	key      string
	stored   []byte
	cleared  bool
	storeErr error
}

func (f *fakeCredentials) CredentialKey() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

func (f *fakeCredentials) ClearToken(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
	return nil
}

func (f *fakeCredentials) Store(_ context.Context, raw []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.stored = raw
	f.key = "client-123.apps.googleusercontent.com"
	return f.key, nil
}

func (f *fakeCredentials) AuthURL(context.Context) (string, error) {
	return "https://accounts.google.com/o/oauth2/auth?state=s1", nil
}

type harness struct {
	t            *testing.T
	exec         *admin.Executor
	messenger    *fakeMessenger
	dir          *fakeDirectory
	courses      *fakeCourses
	certificates *fakeCertificates
	credentials  *fakeCredentials
	locker       *keylock.Memory
	operator     *entity.User
}

func newHarness(t *testing.T, dir *fakeDirectory, cmds ...*admin.Command) *harness {
	h := &harness{
		t:            t,
		messenger:    newFakeMessenger(),
		dir:          dir,
		courses:      newFakeCourses(),
		certificates: &fakeCertificates{},
		credentials:  &fakeCredentials{key: "client-1"},
		locker:       keylock.NewMemory(),
		operator:     &entity.User{ID: 900, Name: "Olena", Role: entity.ManagerRole},
	}
	registry := admin.NewRegistry()
	for _, cmd := range cmds {
		registry.Register(cmd)
	}
	services := admin.Services{
		Users:        dir,
		Groups:       dir,
		Invites:      dir,
		Courses:      h.courses,
		Certificates: h.certificates,
		Credentials:  h.credentials,
		Locker:       h.locker,
	}
	h.exec = admin.NewExecutor(registry, admin.NewMemorySessionStore(), h.messenger, services,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return h
}

func (h *harness) send(texts ...string) {
	for _, text := range texts {
		h.exec.Execute(context.Background(), h.operator, admin.Update{ChatID: operatorChat, Text: text})
	}
}

func (h *harness) replies() []string {
	return h.messenger.to(strconv.FormatInt(operatorChat, 10))
}

// command wraps states into a runnable test command.
func command(name string, chain ...admin.State) *admin.Command {
	return &admin.Command{Name: name, States: chain}
}
