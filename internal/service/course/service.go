package course

import (
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNoLessons    = errors.New("no lessons found in the sheet")
	ErrNoRepository = errors.New("repository is not configured")
)

// FieldTooLongError names the lesson field whose value exceeds the stored size.
type FieldTooLongError struct {
	Field string
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("field %s exceeds the allowed size", e.Field)
}

type Repository interface {
	FindLessons(ctx context.Context, spreadsheetID string, sheet int) ([]entity.Lesson, error)
	InsertLessons(ctx context.Context, lessons []entity.Lesson) error
	UpdateLesson(ctx context.Context, lesson *entity.Lesson) error
	DeleteLessons(ctx context.Context, ids []int64) error
}

type LessonReader interface {
	ReadLessons(ctx context.Context, link string, sheet int) ([]entity.Lesson, error)
}

// Service imports course lessons from a spreadsheet into the database.
type Service struct {
	repository Repository
	reader     LessonReader
	validate   *validator.Validate
	log        *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("bson"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Service{
		validate: v,
		log:      log.With(sl.Module("course-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

func (s *Service) SetReader(reader LessonReader) {
	s.reader = reader
}

func (s *Service) FindLessons(ctx context.Context, spreadsheetID string, sheet int) ([]entity.Lesson, error) {
	if s.repository == nil {
		return nil, ErrNoRepository
	}
	return s.repository.FindLessons(ctx, spreadsheetID, sheet)
}

// read loads and validates the sheet, binding every lesson to group.
func (s *Service) read(ctx context.Context, link string, sheet int, group *entity.Group) ([]entity.Lesson, error) {
	if s.repository == nil {
		return nil, ErrNoRepository
	}
	incoming, err := s.reader.ReadLessons(ctx, link, sheet)
	if err != nil {
		return nil, err
	}
	if len(incoming) == 0 {
		return nil, ErrNoLessons
	}
	for i := range incoming {
		incoming[i].Groups = []string{group.Name}
		if err = s.check(&incoming[i]); err != nil {
			return nil, err
		}
	}
	return incoming, nil
}

func (s *Service) check(lesson *entity.Lesson) error {
	err := s.validate.Struct(lesson)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "max" {
			return &FieldTooLongError{Field: fe.Field()}
		}
		return fmt.Errorf("lesson %q: %s failed on %s", lesson.Name, fe.Field(), fe.Tag())
	}
	return err
}

// SaveLessons stores a sheet imported for the first time.
func (s *Service) SaveLessons(ctx context.Context, link string, sheet int, group *entity.Group) (*entity.ImportReport, error) {
	incoming, err := s.read(ctx, link, sheet, group)
	if err != nil {
		return nil, err
	}
	if err = s.repository.InsertLessons(ctx, incoming); err != nil {
		return nil, err
	}

	report := &entity.ImportReport{Added: len(incoming), Lessons: names(incoming)}
	s.logReport(link, sheet, group, report)
	return report, nil
}

// ReplaceLessons reconciles existing lessons of a sheet with its current content.
func (s *Service) ReplaceLessons(ctx context.Context, existing []entity.Lesson, link string, sheet int, group *entity.Group) (*entity.ImportReport, error) {
	incoming, err := s.read(ctx, link, sheet, group)
	if err != nil {
		return nil, err
	}

	plan := PlanReplace(existing, incoming)
	applied := &entity.ImportReport{}
	interrupted := func(step string, err error) error {
		s.log.With(
			slog.String("link", link),
			slog.Int("sheet", sheet),
			slog.String("group", group.Name),
			slog.String("step", step),
			slog.Int("updated", applied.Updated),
			slog.Int("deleted", applied.Deleted),
			slog.Int("added", applied.Added),
			sl.Err(err),
		).Error("course replace interrupted")
		return fmt.Errorf("%s lessons: %w", step, err)
	}

	for _, u := range plan.Update {
		merged := merge(u.Existing, u.Incoming)
		if err = s.repository.UpdateLesson(ctx, &merged); err != nil {
			return nil, interrupted("update", err)
		}
		applied.Updated++
	}
	if len(plan.Delete) > 0 {
		ids := make([]int64, 0, len(plan.Delete))
		for _, l := range plan.Delete {
			ids = append(ids, l.ID)
		}
		if err = s.repository.DeleteLessons(ctx, ids); err != nil {
			return nil, interrupted("delete", err)
		}
		applied.Deleted = len(ids)
	}
	if err = s.repository.InsertLessons(ctx, plan.Add); err != nil {
		return nil, interrupted("insert", err)
	}

	report := &entity.ImportReport{
		Added:   len(plan.Add),
		Updated: len(plan.Update),
		Deleted: len(plan.Delete),
		Lessons: names(incoming),
	}
	s.logReport(link, sheet, group, report)
	return report, nil
}

func (s *Service) logReport(link string, sheet int, group *entity.Group, r *entity.ImportReport) {
	s.log.With(
		slog.String("link", link),
		slog.Int("sheet", sheet),
		slog.String("group", group.Name),
		slog.Int("added", r.Added),
		slog.Int("updated", r.Updated),
		slog.Int("deleted", r.Deleted),
	).Info("course imported")
}

func names(lessons []entity.Lesson) []string {
	list := make([]string, 0, len(lessons))
	for _, l := range lessons {
		list = append(list, l.Name)
	}
	return list
}
