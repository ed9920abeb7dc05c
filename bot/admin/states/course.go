package states

import (
	"ProgJulia/bot/admin"
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"ProgJulia/internal/service/course"
	"ProgJulia/internal/service/sheets"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

const credentialsHint = "\n Please, update the credentials Google data (run command: /google_credentials)"

const readRetryHint = "\n Please, try again later. If the error repeats, update the credentials Google data (run command: /google_credentials)"

// AddUpdateCourse imports a course sheet for a group, replacing lessons
// already imported from the same sheet, then notifies the group.
type AddUpdateCourse struct {
	admin.BaseState
	linkKey  string
	sheetKey string
	groupKey string
	notify   *NotifyGroupLesson
}

func NewAddUpdateCourse(linkKey, sheetKey, groupKey string, pageSize int) *AddUpdateCourse {
	return &AddUpdateCourse{
		BaseState: admin.NewBaseState(false),
		linkKey:   linkKey,
		sheetKey:  sheetKey,
		groupKey:  groupKey,
		notify:    NewNotifyGroupLesson(linkKey, sheetKey, groupKey, pageSize),
	}
}

// readSheetRef returns the spreadsheet link, id and sheet number, or the reply
// for a bad one.
func readSheetRef(c *admin.Context, linkKey, sheetKey string) (link, id string, sheet int, msg string) {
	link = strings.TrimSpace(c.Attributes().MustString(linkKey))
	id = sheets.ExtractSpreadsheetID(link)
	if id == "" {
		return "", "", 0, "Incorrect spreadsheet link"
	}
	sheet, err := strconv.Atoi(strings.TrimSpace(c.Attributes().MustString(sheetKey)))
	if err != nil {
		return "", "", 0, "Incorrect sheetNumber input"
	}
	return link, id, sheet, ""
}

func (s *AddUpdateCourse) Enter(c *admin.Context) error {
	link, id, sheet, msg := readSheetRef(c, s.linkKey, s.sheetKey)
	if msg != "" {
		c.Send(msg)
		return nil
	}

	group, err := c.Groups().FindGroup(c.Context(), strings.TrimSpace(c.Attributes().MustString(s.groupKey)))
	if err != nil {
		return err
	}
	if group == nil {
		c.Send("This group is not exist")
		return nil
	}

	if c.Credentials().CredentialKey() == "" {
		c.Send("Lessons save/update operation failed: Google credentials are not installed." + credentialsHint)
		return nil
	}

	existing, err := c.Courses().FindLessons(c.Context(), id, sheet)
	if err != nil {
		return err
	}

	var report *entity.ImportReport
	if len(existing) == 0 {
		report, err = c.Courses().SaveLessons(c.Context(), link, sheet, group)
	} else {
		report, err = c.Courses().ReplaceLessons(c.Context(), existing, link, sheet, group)
	}
	if err != nil {
		if reply, ok := importFailure(err); ok {
			c.Log().With(
				slog.String("spreadsheet", id),
				slog.Int("sheet", sheet),
				sl.Err(err),
			).Warn("course import failed")
			c.Send(reply)
			return nil
		}
		return err
	}

	c.Send(fmt.Sprintf("Lessons added: %d, updated: %d, deleted: %d", report.Added, report.Updated, report.Deleted))
	return s.notify.Enter(c)
}

// importFailure maps import errors the operator can act on to a reply.
func importFailure(err error) (string, bool) {
	var (
		tooLong  *course.FieldTooLongError
		apiErr   *googleapi.Error
		tokenErr *oauth2.RetrieveError
		netErr   net.Error
	)
	switch {
	case errors.As(err, &tooLong):
		return "Data integrity error: the input for field '" + tooLong.Field + "' exceeds the allowed size.", true
	case errors.Is(err, sheets.ErrNoTestQuestions),
		errors.Is(err, sheets.ErrBadDeadline),
		errors.Is(err, sheets.ErrSheetNotFound),
		errors.Is(err, course.ErrNoLessons):
		return "Lessons save/update operation failed: " + err.Error(), true
	case errors.Is(err, sheets.ErrNotAuthorized),
		errors.Is(err, sheets.ErrNoCredentials),
		errors.As(err, &apiErr),
		errors.As(err, &tokenErr):
		return "Lessons save/update operation failed: " + err.Error() + credentialsHint, true
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded):
		return "Lessons save/update operation failed: could not read the spreadsheet: " + err.Error() + readRetryHint, true
	}
	return "", false
}

// NotifyGroupLesson tells every group member which lessons the sheet holds.
type NotifyGroupLesson struct {
	admin.BaseState
	linkKey  string
	sheetKey string
	groupKey string
	pageSize int
}

func NewNotifyGroupLesson(linkKey, sheetKey, groupKey string, pageSize int) *NotifyGroupLesson {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &NotifyGroupLesson{
		BaseState: admin.NewBaseState(false),
		linkKey:   linkKey,
		sheetKey:  sheetKey,
		groupKey:  groupKey,
		pageSize:  pageSize,
	}
}

func (s *NotifyGroupLesson) Enter(c *admin.Context) error {
	_, id, sheet, msg := readSheetRef(c, s.linkKey, s.sheetKey)
	if msg != "" {
		c.Send(msg)
		return nil
	}

	lessons, err := c.Courses().FindLessons(c.Context(), id, sheet)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(lessons))
	for _, l := range lessons {
		names = append(names, l.Name)
	}

	name := strings.TrimSpace(c.Attributes().MustString(s.groupKey))
	group, err := c.Groups().FindGroup(c.Context(), name)
	if err != nil {
		return err
	}
	if group == nil {
		c.Send("The group with name '" + name + "' was not found. Please check the group name and try again.")
		return nil
	}

	text := "In your course were added or updated next lessons: \n[" + strings.Join(names, ", ") + "]"
	sent, skipped, err := sendToGroup(c, group.Name, text, s.pageSize)
	if err != nil {
		return err
	}
	c.Send(fmt.Sprintf("Lesson notification sent to %d user(s), skipped %d.", sent, skipped))
	return nil
}
