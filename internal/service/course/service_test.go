package course

import (
	"ProgJulia/entity"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stored  []entity.Lesson
	updated []entity.Lesson
	deleted []int64
	nextID  int64

	deleteErr error
}

func (r *fakeRepo) FindLessons(_ context.Context, _ string, _ int) ([]entity.Lesson, error) {
	return r.stored, nil
}

func (r *fakeRepo) InsertLessons(_ context.Context, lessons []entity.Lesson) error {
	for i := range lessons {
		r.nextID++
		lessons[i].ID = r.nextID
		r.stored = append(r.stored, lessons[i])
	}
	return nil
}

func (r *fakeRepo) UpdateLesson(_ context.Context, lesson *entity.Lesson) error {
	r.updated = append(r.updated, *lesson)
	return nil
}

func (r *fakeRepo) DeleteLessons(_ context.Context, ids []int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, ids...)
	return nil
}

type fakeReader struct {
	lessons []entity.Lesson
	err     error
}

func (f *fakeReader) ReadLessons(_ context.Context, _ string, _ int) ([]entity.Lesson, error) {
	out := make([]entity.Lesson, len(f.lessons))
	copy(out, f.lessons)
	return out, f.err
}

func lessons(names ...string) []entity.Lesson {
	list := make([]entity.Lesson, 0, len(names))
	for _, n := range names {
		list = append(list, entity.Lesson{Name: n, VideoURL: "https://youtu.be/" + n, SpreadsheetID: "sheet"})
	}
	return list
}

func newTestService(reader *fakeReader) (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	s := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.SetRepository(repo)
	s.SetReader(reader)
	return s, repo
}

func TestSaveLessonsBindsGroup(t *testing.T) {
	s, repo := newTestService(&fakeReader{lessons: lessons("Intro", "Loops")})

	report, err := s.SaveLessons(context.Background(), "link", 0, &entity.Group{Name: "java-1"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Added)
	assert.Equal(t, []string{"Intro", "Loops"}, report.Lessons)
	require.Len(t, repo.stored, 2)
	assert.Equal(t, []string{"java-1"}, repo.stored[1].Groups)
}

func TestSaveLessonsEmptySheet(t *testing.T) {
	s, _ := newTestService(&fakeReader{})

	_, err := s.SaveLessons(context.Background(), "link", 0, &entity.Group{Name: "g"})
	assert.ErrorIs(t, err, ErrNoLessons)
}

func TestSaveLessonsReaderError(t *testing.T) {
	boom := errors.New("quota exceeded")
	s, _ := newTestService(&fakeReader{err: boom})

	_, err := s.SaveLessons(context.Background(), "link", 0, &entity.Group{Name: "g"})
	assert.ErrorIs(t, err, boom)
}

func TestSaveLessonsFieldTooLong(t *testing.T) {
	list := lessons("Intro")
	list[0].Name = strings.Repeat("x", 300)
	s, repo := newTestService(&fakeReader{lessons: list})

	_, err := s.SaveLessons(context.Background(), "link", 0, &entity.Group{Name: "g"})

	var tooLong *FieldTooLongError
	require.ErrorAs(t, err, &tooLong)
	assert.Equal(t, "name", tooLong.Field)
	assert.Empty(t, repo.stored)
}

func TestPlanReplace(t *testing.T) {
	existing := lessons("a", "b", "c")
	for i := range existing {
		existing[i].ID = int64(i + 1)
	}

	shrink := PlanReplace(existing, lessons("A"))
	assert.Len(t, shrink.Update, 1)
	assert.Len(t, shrink.Delete, 2)
	assert.Empty(t, shrink.Add)
	assert.Equal(t, int64(2), shrink.Delete[0].ID)

	grow := PlanReplace(existing, lessons("A", "B", "C", "D", "E"))
	assert.Len(t, grow.Update, 3)
	assert.Empty(t, grow.Delete)
	require.Len(t, grow.Add, 2)
	assert.Equal(t, "D", grow.Add[0].Name)

	empty := PlanReplace(nil, lessons("A"))
	assert.Empty(t, empty.Update)
	assert.Len(t, empty.Add, 1)
}

func TestReplaceLessonsKeepsIDs(t *testing.T) {
	existing := lessons("a", "b", "c")
	for i := range existing {
		existing[i].ID = int64(10 + i)
	}
	s, repo := newTestService(&fakeReader{lessons: lessons("A", "B")})

	report, err := s.ReplaceLessons(context.Background(), existing, "link", 0, &entity.Group{Name: "g"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 0, report.Added)
	require.Len(t, repo.updated, 2)
	assert.Equal(t, int64(10), repo.updated[0].ID)
	assert.Equal(t, "A", repo.updated[0].Name)
	assert.Equal(t, []string{"g"}, repo.updated[1].Groups)
	assert.Equal(t, []int64{12}, repo.deleted)
}

func TestReplaceLessonsInterruptedLogsAppliedSteps(t *testing.T) {
	existing := lessons("a", "b", "c")
	for i := range existing {
		existing[i].ID = int64(10 + i)
	}
	var logs bytes.Buffer
	repo := &fakeRepo{deleteErr: errors.New("mongodb delete error")}
	s := NewService(slog.New(slog.NewJSONHandler(&logs, nil)))
	s.SetRepository(repo)
	s.SetReader(&fakeReader{lessons: lessons("A", "B")})

	report, err := s.ReplaceLessons(context.Background(), existing, "link", 0, &entity.Group{Name: "g"})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorContains(t, err, "delete lessons: mongodb delete error")

	assert.Len(t, repo.updated, 2)
	assert.Contains(t, logs.String(), `"msg":"course replace interrupted"`)
	assert.Contains(t, logs.String(), `"step":"delete"`)
	assert.Contains(t, logs.String(), `"updated":2`)
	assert.Contains(t, logs.String(), `"deleted":0`)
}
