package states

import (
	"ProgJulia/bot/admin"
	"ProgJulia/entity"
	"ProgJulia/internal/service/course"
	"ProgJulia/internal/service/sheets"
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheetLink = "https://docs.google.com/spreadsheets/d/1AbC_def/edit#gid=0"

func students() *fakeDirectory {
	return newFakeDirectory(
		entity.User{ID: 1, Name: "Ivan", Phone: "+380501112233", Email: "ivan@prog.academy", Role: entity.StudentRole, TelegramChatID: "501", Groups: []string{"java-1"}},
		entity.User{ID: 2, Name: "Lesia", Phone: "+380671112233", Email: "lesia@prog.academy", Role: entity.StudentRole, Banned: true, Groups: []string{"java-1"}},
		entity.User{ID: 3, Name: "Taras", Phone: "+380931112233", Email: "taras@prog.academy", Role: entity.AdminRole, TelegramChatID: "503"},
		entity.User{ID: 4, Name: "Marko", Phone: "+380971112233", Email: "marko@prog.academy", Role: entity.StudentRole, TelegramChatID: "dead-504", Groups: []string{"java-1"}},
	)
}

func TestParseGroupOps(t *testing.T) {
	ops, ok := parseGroupOps("1+java-1;2-python")
	require.True(t, ok)
	assert.Equal(t, []groupOp{
		{userID: "1", group: "java-1", add: true},
		{userID: "2", group: "python", add: false},
	}, ops)

	ops, ok = parseGroupOps("abc+g")
	require.True(t, ok)
	assert.Equal(t, "abc", ops[0].userID)

	_, ok = parseGroupOps("1+")
	assert.False(t, ok)
	_, ok = parseGroupOps("1+g;2")
	assert.False(t, ok)
}

func TestParseCriteria(t *testing.T) {
	c, bad, err := parseCriteria("user_id:1, 2,x;group:Test,Test2;user_email:a@b.c;user_phone:+380111234567;")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, c.UserIDs)
	assert.Equal(t, []string{"x"}, bad)
	assert.Equal(t, []string{"Test", "Test2"}, c.Groups)
	assert.Equal(t, []string{"a@b.c"}, c.Emails)
	assert.Equal(t, []string{"+380111234567"}, c.Phones)

	_, _, err = parseCriteria("group Test")
	assert.ErrorIs(t, err, errNoColon)

	for _, input := range []string{"name:Ivan", "group:", "group:a:b"} {
		_, _, err = parseCriteria(input)
		assert.ErrorIs(t, err, errBadRequest, input)
	}
}

func TestCheckPhone(t *testing.T) {
	assert.Empty(t, checkPhone("380501112233"))
	assert.Contains(t, checkPhone("0501112233"), "Invalid country code")
	assert.Contains(t, checkPhone("38050"), "Invalid quantity of digits")
	assert.Contains(t, checkPhone("38050111223344556"), "Invalid quantity of digits")
	assert.Contains(t, checkPhone("38050-111"), "Invalid phone number format")
	assert.Equal(t, []string{"380501112233", "380671112233"}, normalizePhones(" +380501112233, 380671112233 ,"))
}

func TestSplitSearch(t *testing.T) {
	phone, email := splitSearch("380111; aa@gmail.com")
	assert.Equal(t, "380111", phone)
	assert.Equal(t, "aa@gmail.com", email)

	phone, email = splitSearch(" aa@gmail.com ")
	assert.Empty(t, phone)
	assert.Equal(t, "aa@gmail.com", email)

	phone, email = splitSearch("380111")
	assert.Equal(t, "380111", phone)
	assert.Empty(t, email)
}

func blockCommand() *admin.Command {
	return command("/block", NewEnterText("Enter user", "block_list"), NewBlock("block_list"))
}

func TestBlock(t *testing.T) {
	h := newHarness(t, students(), blockCommand())

	h.send("/block", "+380501112233")
	assert.Contains(t, h.replies(), "User blocked successfully.")
	assert.True(t, h.dir.users[1].Banned)
	assert.Equal(t, `The "/block" command execution finished successfully!`, h.replies()[len(h.replies())-1])

	h.send("/block", "taras@prog.academy")
	assert.Contains(t, h.replies(), "You can't block an administrator with Id 3")
	assert.False(t, h.dir.users[3].Banned)

	h.send("/block", "77")
	assert.Contains(t, h.replies(), "User not found!")

	h.send("/block", " ")
	assert.Contains(t, h.replies(), "Incorrect input: phone number, email, or user ID is required!")
}

func TestUnblock(t *testing.T) {
	h := newHarness(t, students(), command("/unblock", NewEnterText("Enter user", "k"), NewUnblock("k")))

	h.send("/unblock", "1")
	assert.Contains(t, h.replies(), "User is not blocked.")

	h.send("/unblock", "2")
	assert.Contains(t, h.replies(), "User unblocked successfully.")
	assert.False(t, h.dir.users[2].Banned)
}

func TestFindUser(t *testing.T) {
	h := newHarness(t, students(), command("/user_find", NewEnterText("Enter", "user_data"), NewFindUser("user_data")))

	h.send("/user_find", "380501112233")
	assert.Contains(t, h.replies(), "The person you are looking for: \nID: 1\nName: Ivan\r\n")

	h.send("/user_find", "nobody@nowhere.ua")
	replies := h.replies()
	assert.Equal(t, "No users found", replies[len(replies)-1])
	assert.Empty(t, h.exec.Sessions())
}

func setEmailCommand() *admin.Command {
	return command("/set_email",
		NewEnterText("Enter user", "user_data"),
		NewFindUser("user_data"),
		NewEnterText("Enter new email(s)", "emails"),
		NewSetEmail("user_data", "emails"),
	)
}

func TestSetEmail(t *testing.T) {
	h := newHarness(t, students(), setEmailCommand())

	h.send("/set_email", "ivan@prog.academy", "Ivan.New@gmail.com, ivan@prog.academy")

	assert.Contains(t, h.replies(), "User emails successfully updated")
	assert.Equal(t, "ivan.new@gmail.com", h.dir.users[1].Email)
	assert.Equal(t, []string{"ivan.new@gmail.com", "ivan@prog.academy"}, h.dir.users[1].Emails)
}

func TestSetEmailRejectsForeignAddress(t *testing.T) {
	h := newHarness(t, students(), setEmailCommand())

	h.send("/set_email", "ivan@prog.academy", "lesia@prog.academy")
	assert.Contains(t, h.replies(), "Email address lesia@prog.academy is already in use by another user.")

	h.send("/set_email", "ivan@prog.academy", "not-an-email")
	assert.Contains(t, h.replies(), "Invalid email address: not-an-email")
	assert.Equal(t, "ivan@prog.academy", h.dir.users[1].Email)
}

func TestSetPhone(t *testing.T) {
	h := newHarness(t, students(), command("/set_phone",
		NewEnterText("Enter user id:", "user_id"),
		NewEnterText("Enter phones", "phones"),
		NewSetPhone("user_id", "phones"),
	))

	h.send("/set_phone", "1", "+380501112233, 48601234567")
	assert.Contains(t, h.replies(), "User phone(s) successfully changed")
	assert.Equal(t, "+380501112233", h.dir.users[1].Phone)
	assert.Equal(t, []string{"+380501112233", "+48601234567"}, h.dir.users[1].Phones)

	h.send("/set_phone", "1", "380671112233")
	assert.Contains(t, h.replies(), "Phone number 380671112233 is already in use by another user.")

	h.send("/set_phone", "99", "380671112299")
	assert.Contains(t, h.replies(), "user id not exists")

	h.send("/set_phone", "x", "380671112299")
	assert.Contains(t, h.replies(), "Wrong user id")
}

func TestListUsers(t *testing.T) {
	h := newHarness(t, students(), command("/users_list", NewListUsers()))

	h.send("/users_list")
	require.NotEmpty(t, h.replies())
	list := h.replies()[0]
	assert.Contains(t, list, "All user list:\r\n")
	assert.Contains(t, list, "Id: 3, name: Taras, surname: , email: taras@prog.academy, phone: +380931112233\r\n")

	empty := newHarness(t, newFakeDirectory(), command("/users_list", NewListUsers()))
	empty.send("/users_list")
	assert.Equal(t, "There are no users, except you", empty.replies()[0])
}

func TestCreateAndListGroups(t *testing.T) {
	h := newHarness(t, students(),
		command("/group_new", NewEnterText("Enter new group name:", "g"), NewCreateGroup("g")),
		command("/group_list", NewListGroups()),
	)

	h.send("/group_new", "ProgAcademy")
	assert.Contains(t, h.replies(), "This group name is reserved and cannot be used")

	h.send("/group_new", "java-1")
	assert.Contains(t, h.replies(), "Group already exists")

	h.send("/group_new", "python-2")
	assert.True(t, h.dir.groups["python-2"])

	h.send("/group_list")
	assert.Contains(t, h.replies(), "java-1\r\npython-2")
}

func TestGroupMembership(t *testing.T) {
	dir := students()
	dir.groups["python"] = true
	h := newHarness(t, dir, command("/group", NewEnterText("Enter", "d"), NewGroup("d")))

	h.send("/group", "3+python;1-java-1")
	assert.True(t, dir.users[3].InGroup("python"))
	assert.False(t, dir.users[1].InGroup("java-1"))

	h.send("/group", "3+nope")
	assert.Contains(t, h.replies(), `Incorrect input: group "nope" doesn't exist!`)

	h.send("/group", "x+python")
	assert.Contains(t, h.replies(), "Incorrect input of user's id!")

	h.send("/group", "42+python")
	assert.Contains(t, h.replies(), "User not found!")

	h.send("/group", "no sign")
	assert.Contains(t, h.replies(), `Incorrect input: at least one "+" or "-" is required!`)
}

func TestBroadcastGroup(t *testing.T) {
	h := newHarness(t, students(), command("/broadcast",
		NewEnterText("group", "g"),
		NewEnterText("message", "m"),
		NewBroadcastGroup("g", "m", 2),
	))

	h.send("/broadcast", "java-1", "Lesson moved to 19:00")

	assert.Equal(t, []string{"Lesson moved to 19:00"}, h.messenger.to("501"))
	assert.Contains(t, h.replies(), "Message sent to 1 user(s), skipped 2.")

	h.send("/broadcast", "missing", "hi")
	assert.Contains(t, h.replies(), "This Group does not exist. Please try again.")
}

func TestBroadcastSkipsRecipientWithoutChat(t *testing.T) {
	dir := newFakeDirectory(
		entity.User{ID: 11, Name: "Olha", Role: entity.StudentRole, TelegramChatID: "601", Groups: []string{"python-2"}},
		entity.User{ID: 12, Name: "Petro", Role: entity.StudentRole, Groups: []string{"python-2"}},
		entity.User{ID: 13, Name: "Iryna", Role: entity.StudentRole, TelegramChatID: "603", Groups: []string{"python-2"}},
	)
	h := newHarness(t, dir, command("/broadcast",
		NewEnterText("group", "g"),
		NewEnterText("message", "m"),
		NewBroadcastGroup("g", "m", 2),
	))

	h.send("/broadcast", "python-2", "Exam on Friday")

	assert.Equal(t, []string{"Exam on Friday"}, h.messenger.to("601"))
	assert.Equal(t, []string{"Exam on Friday"}, h.messenger.to("603"))
	assert.Contains(t, h.replies(), "Message sent to 2 user(s), skipped 1.")
}

func TestCreateInvite(t *testing.T) {
	h := newHarness(t, students(), command("/invite_group_new",
		NewEnterText("group", "g"),
		NewEnterInteger("max", "n"),
		NewCreateInvite("g", "n", "https://prog.academy/", 0),
	))

	h.send("/invite_group_new", "java-1", "25")
	assert.Contains(t, h.replies(), "Invite URL is: https://prog.academy/invite\nYour invite code: CODE1")
	require.Len(t, h.dir.invites, 1)
	assert.Equal(t, entity.StudentRole, h.dir.invites[0].Role)
	assert.Equal(t, 25, h.dir.invites[0].MaxUsage)
	assert.Equal(t, "java-1", h.dir.invites[0].Destination)

	h.send("/invite_group_new", "java-1", "0")
	assert.Contains(t, h.replies(), "Error: Max users must be a positive integer.")

	h.send("/invite_group_new", "nope", "3")
	assert.Contains(t, h.replies(), "Error: Group with name nope does not exist.")

	h.send("/invite_group_new", "java-1", "three")
	assert.Contains(t, h.replies(), "Wrong input: is not the integer: three. Please, enter number.")
}

func TestCreateInviteByRole(t *testing.T) {
	h := newHarness(t, students(), command("/invite_for_user_by_role",
		NewEnterText("role", "r"),
		NewEnterInteger("max", "n"),
		NewCreateInviteByRole("r", "n", 30),
	))

	h.send("/invite_for_user_by_role", "mentor", "2")
	assert.Contains(t, h.replies(), "New invite code for MENTOR(s) is: CODE1")
	require.Len(t, h.dir.invites, 1)
	assert.Equal(t, entity.DestinationCoworker, h.dir.invites[0].DestinationType)
	assert.Equal(t, entity.CoworkersGroup, h.dir.invites[0].Destination)

	h.send("/invite_for_user_by_role", "student", "2")
	assert.Contains(t, h.replies(), "Wrong role name! Please select from ADMIN, TEACHER, MANAGER, MENTOR.")
	assert.Len(t, h.dir.invites, 1)
}

func TestCertificate(t *testing.T) {
	h := newHarness(t, students(), command("/certificate", NewEnterText("Enter", "d"), NewCertificate("d")))

	h.send("/certificate", "group:java-1")
	assert.Contains(t, h.replies(), "No data matching your criteria. Please enter the correct data.")

	h.certificates.users = map[string][]entity.User{"java-1": {{ID: 1}, {ID: 2}}}
	h.send("/certificate", "group:java-1;user_id:1")
	assert.Contains(t, h.replies(), "Create certificate tasks: 2")
	assert.Equal(t, []int64{1}, h.certificates.criteria.UserIDs)

	h.send("/certificate", "java-1")
	assert.Contains(t, h.replies(), `At least one ":" is required`)
}

func courseCommand() *admin.Command {
	return command("/add_or_update_course",
		NewEnterText("link", "link"),
		NewEnterText("sheet", "number", admin.Integer()),
		NewEnterText("group", "group"),
		NewAddUpdateCourse("link", "number", "group", 100),
	)
}

func TestAddCourseSavesAndNotifies(t *testing.T) {
	h := newHarness(t, students(), courseCommand())
	h.courses.read = []entity.Lesson{{Name: "Intro"}, {Name: "Loops"}}

	h.send("/add_or_update_course", sheetLink, "0", "java-1")

	assert.Equal(t, []string{"save"}, h.courses.calls)
	assert.Contains(t, h.replies(), "Lessons added: 2, updated: 0, deleted: 0")
	assert.Equal(t, []string{"In your course were added or updated next lessons: \n[Intro, Loops]"}, h.messenger.to("501"))
	assert.Contains(t, h.replies(), "Lesson notification sent to 1 user(s), skipped 2.")

	h.send("/add_or_update_course", sheetLink, "0", "java-1")
	assert.Equal(t, []string{"save", "replace"}, h.courses.calls)
}

func TestAddCourseRejectsBadInput(t *testing.T) {
	h := newHarness(t, students(), courseCommand())

	h.send("/add_or_update_course", "https://example.com/sheet", "0", "java-1")
	assert.Contains(t, h.replies(), "Incorrect spreadsheet link")

	h.send("/add_or_update_course", sheetLink, "0", "missing")
	assert.Contains(t, h.replies(), "This group is not exist")

	h.credentials.key = ""
	h.send("/add_or_update_course", sheetLink, "0", "java-1")
	assert.Contains(t, h.replies()[len(h.replies())-2], "run command: /google_credentials")
	assert.Empty(t, h.courses.calls)
}

func TestAddCourseErrorReplies(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&course.FieldTooLongError{Field: "name"}, "Data integrity error: the input for field 'name' exceeds the allowed size."},
		{fmt.Errorf("lesson Intro: %w", sheets.ErrNoTestQuestions), "Lessons save/update operation failed: lesson Intro: no test questions"},
		{course.ErrNoLessons, "Lessons save/update operation failed: no lessons found in the sheet"},
		{sheets.ErrNotAuthorized, "Lessons save/update operation failed: google access is not authorized" + credentialsHint},
		{
			&url.Error{Op: "Get", URL: "https://sheets.googleapis.com", Err: errors.New("dial tcp: i/o timeout")},
			"Lessons save/update operation failed: could not read the spreadsheet: Get \"https://sheets.googleapis.com\": dial tcp: i/o timeout" + readRetryHint,
		},
		{
			fmt.Errorf("read sheet: %w", context.DeadlineExceeded),
			"Lessons save/update operation failed: could not read the spreadsheet: read sheet: context deadline exceeded" + readRetryHint,
		},
	}
	for _, tc := range cases {
		h := newHarness(t, students(), courseCommand())
		h.courses.err = tc.err

		h.send("/add_or_update_course", sheetLink, "0", "java-1")

		assert.Contains(t, h.replies(), tc.want)
		assert.Empty(t, h.messenger.to("501"))
	}
}

func TestAddCourseUnexpectedErrorFailsCommand(t *testing.T) {
	h := newHarness(t, students(), courseCommand())
	h.courses.err = errors.New("mongodb insert error")

	h.send("/add_or_update_course", sheetLink, "0", "java-1")

	assert.Equal(t, `The "/add_or_update_course" command failed, please try again later`, h.replies()[len(h.replies())-1])
}

func credentialsCommand() *admin.Command {
	return &admin.Command{
		Name:   "/google_credentials",
		States: []admin.State{NewEnterCredentialsFile(1024, 0)},
	}
}

func (h *harness) upload(fileID string, size int64) {
	h.exec.Execute(context.Background(), h.operator, admin.Update{
		ChatID:   operatorChat,
		Document: &admin.Document{FileID: fileID, FileName: "credentials.json", Size: size},
	})
}

func TestCredentialsUpload(t *testing.T) {
	h := newHarness(t, students(), credentialsCommand())
	h.messenger.files["f1"] = []byte(`{"installed":{"client_id":"client-123"}}`)

	h.send("/google_credentials", "hello")
	assert.Contains(t, h.replies(), "Please upload the credentials.json file from Google:")
	assert.Contains(t, h.replies(), "Wrong input: Invalid input. Please upload a valid file.")

	h.upload("f1", 40)
	h.exec.Wait()

	replies := h.replies()
	assert.Contains(t, replies, "Processing the credentials file...")
	assert.Contains(t, replies, "File uploaded successfully!")
	assert.Contains(t, replies[len(replies)-1], "https://accounts.google.com/o/oauth2/auth?state=s1")
	assert.True(t, h.credentials.cleared)
	assert.Equal(t, h.messenger.files["f1"], h.credentials.stored)
	assert.Empty(t, h.exec.Sessions())

	release, err := h.locker.TryLock(context.Background(), credentialsLock)
	require.NoError(t, err)
	release()
}

func TestCredentialsUploadBusy(t *testing.T) {
	h := newHarness(t, students(), credentialsCommand())
	h.messenger.files["f1"] = []byte(`{}`)

	release, err := h.locker.TryLock(context.Background(), credentialsLock)
	require.NoError(t, err)
	defer release()

	h.send("/google_credentials")
	h.upload("f1", 2)
	h.exec.Wait()

	assert.Contains(t, h.replies(), "Wrong input: The process is already in progress!\nPlease use the link that was generated earlier.")
	assert.Nil(t, h.credentials.stored)
	assert.Len(t, h.exec.Sessions(), 1)
}

func TestCredentialsUploadFailure(t *testing.T) {
	h := newHarness(t, students(), credentialsCommand())
	h.send("/google_credentials")

	h.upload("big", 4096)
	assert.Contains(t, h.replies(), "Wrong input: the file is larger than 1024 bytes")

	h.upload("missing", 10)
	h.exec.Wait()
	assert.Equal(t, "Failed to upload file: download: file not found", h.replies()[len(h.replies())-1])
}

type fakeShortener struct{}

func (fakeShortener) Shorten(_ context.Context, link string) string {
	return "short(" + link + ")"
}

func TestWebLinks(t *testing.T) {
	h := newHarness(t, students(),
		command("/web", NewWebLink("https://prog.academy/", fakeShortener{})),
		command("/users_list_web", NewListUsersWeb("https://prog.academy", fakeShortener{})),
	)

	h.send("/web", "/users_list_web")

	assert.Contains(t, h.replies(), "Link to log into your account: short(https://prog.academy/login)")
	assert.Contains(t, h.replies(), "Students list: short(https://prog.academy/students)")
}

func TestHelpListsAllowedCommands(t *testing.T) {
	h := newHarness(t, students(),
		&admin.Command{Name: "/help", Description: "List all commands", States: []admin.State{NewCreateHelp("t"), NewPrintText("t")}},
		&admin.Command{Name: "/block", Description: "block users", Roles: []entity.Role{entity.ManagerRole}, States: []admin.State{NewListUsers()}},
		&admin.Command{Name: "/secret", Description: "admins only", Roles: []entity.Role{entity.AdminRole}, States: []admin.State{NewListUsers()}},
	)

	h.send("/help")

	assert.Equal(t, "/block: block users\r\n/help: List all commands\r\n", h.replies()[0])
}
