// Package commands assembles the admin bot command catalogue.
package commands

import (
	"ProgJulia/bot/admin"
	"ProgJulia/bot/admin/states"
	"ProgJulia/entity"
	"strings"
	"time"
)

type Options struct {
	FrontendURL       string
	BroadcastPageSize int
	InviteDays        int
	MaxFileSize       int64
	UploadTimeout     time.Duration
	Shortener         states.Shortener
}

var (
	adminOnly      = []entity.Role{entity.AdminRole}
	adminOrManager = []entity.Role{entity.AdminRole, entity.ManagerRole}
	allButStudent  = []entity.Role{entity.MentorRole, entity.TeacherRole, entity.ManagerRole, entity.AdminRole}
)

const userSearchInput = "Enter user phone or/and e-mail:\n(example -> 380111111111;aa@gmail.com)"

const certificatePrompt = "Enter student ID (IDs of students) and/or group of student(s) to generate certificate(s): \n" +
	"E.g.\n" +
	"user_id:1\n" +
	"user_id:1,2\n" +
	"group:Test\n" +
	"group:Test,Test2\n" +
	"user_email:test@email.test\n" +
	"user_email:test@email.test,anothertest@email.test\n" +
	"user_phone:+380111234567\n" +
	"user_phone:+380111234567,+380111234568\n" +
	"And grouping with separator \";\"\n" +
	"user_id:1;group:Test\n" +
	"group:Test;user_email:test@email.test"

// All returns every admin command.
func All(o Options) []*admin.Command {
	roleNames := make([]string, 0, len(entity.CoworkerRoles))
	for _, r := range entity.CoworkerRoles {
		roleNames = append(roleNames, string(r))
	}

	return []*admin.Command{
		{
			Name:        "/help",
			Description: "List all commands",
			States: []admin.State{
				states.NewCreateHelp("help_text"),
				states.NewPrintText("help_text"),
			},
		},
		{
			Name:        admin.ExitCommand,
			Description: "Exit the current command execution",
			Roles:       adminOrManager,
		},
		{
			Name:        "/web",
			Description: "Get a link to log in to your account",
			States:      []admin.State{states.NewWebLink(o.FrontendURL, o.Shortener)},
		},
		{
			Name:        "/users_list_web",
			Description: "Get link to list of all students in browser",
			Roles:       adminOrManager,
			States:      []admin.State{states.NewListUsersWeb(o.FrontendURL, o.Shortener)},
		},
		{
			Name:        "/users_list",
			Description: "show list of all users",
			Roles:       adminOrManager,
			States:      []admin.State{states.NewListUsers()},
		},
		{
			Name:        "/group_list",
			Description: "list all groups",
			Roles:       allButStudent,
			States:      []admin.State{states.NewListGroups()},
		},
		{
			Name:        "/group_new",
			Description: "create new group of users",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText("Enter new group name:", "group_name", admin.NotBlank()),
				states.NewCreateGroup("group_name"),
			},
		},
		{
			Name:        "/group",
			Description: "Add/remove users to/from groups",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText("Enter user's ID, add/remove, group: \n"+
					"- to add, entering \"+\" (example -> 1+group1)\n"+
					"- to remove, entering \"-\" (example -> 1-group1) ", "data_group"),
				states.NewGroup("data_group"),
			},
		},
		{
			Name:        "/user_find",
			Description: "Find user by phone or/and e-mail",
			Roles:       allButStudent,
			States: []admin.State{
				states.NewEnterText(userSearchInput, "user_data", admin.NotBlank()),
				states.NewFindUser("user_data"),
			},
		},
		{
			Name:        "/set_email",
			Description: "Change email(s) of user",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText(userSearchInput, "user_data", admin.NotBlank()),
				states.NewFindUser("user_data"),
				states.NewEnterText("Enter new email(s):\n"+
					"(example -> aa@gmail.com,bb@gmail.com)\n"+
					"First mail in the list is the mail for login!", "emails_to_change", admin.NotBlank()),
				states.NewSetEmail("user_data", "emails_to_change"),
			},
		},
		{
			Name:        "/set_phone",
			Description: "Change phone(s) of user",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText("Enter user id:", "user_id", admin.Integer()),
				states.NewEnterText("Enter new phone(s):\n(example -> 380111111111,380222222222)", "user_phones", admin.NotBlank()),
				states.NewSetPhone("user_id", "user_phones"),
			},
		},
		{
			Name:        "/block",
			Description: "block users",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText("Enter user's IDs and/or phone, mail", "block_list"),
				states.NewBlock("block_list"),
			},
		},
		{
			Name:        "/unblock",
			Description: "unblock users",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText("Enter user's IDs and/or phone, mail", "unblock_list"),
				states.NewUnblock("unblock_list"),
			},
		},
		{
			Name:        "/broadcast",
			Description: "broadcast message to users",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText("Enter recipient group name:", "recipient_group_name", admin.NotBlank()),
				states.NewEnterText("Enter message to broadcast:", "broadcast_message", admin.NotBlank()),
				states.NewBroadcastGroup("recipient_group_name", "broadcast_message", o.BroadcastPageSize),
			},
		},
		{
			Name:        "/invite_group_new",
			Description: "create invite code to join the group of users",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText("Enter group name:", "group_name", admin.NotBlank()),
				states.NewEnterInteger("Enter maximum number of participants:", "group_max_users"),
				states.NewCreateInvite("group_name", "group_max_users", o.FrontendURL, o.InviteDays),
			},
		},
		{
			Name:        "/invite_for_user_by_role",
			Description: "create invite code to join the user by role",
			Roles:       adminOnly,
			States: []admin.State{
				states.NewEnterText("Enter role:\n("+strings.Join(roleNames, ", ")+")", "user_role", admin.OneOf(roleNames...)),
				states.NewEnterInteger("Enter number of participants:", "number_users"),
				states.NewCreateInviteByRole("user_role", "number_users", o.InviteDays),
			},
		},
		{
			Name:        "/certificate",
			Description: "Command to generate and send certificates to students",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText(certificatePrompt, "user_data", admin.NotBlank()),
				states.NewCertificate("user_data"),
			},
		},
		{
			Name:        "/add_or_update_course",
			Description: "add the course or update existed one",
			Roles:       adminOrManager,
			States: []admin.State{
				states.NewEnterText("Enter google spreadsheet link", "link", admin.NotBlank()),
				states.NewEnterText("Enter sheet number", "number", admin.Integer()),
				states.NewEnterText("Enter group name", "group_name", admin.NotBlank()),
				states.NewAddUpdateCourse("link", "number", "group_name", o.BroadcastPageSize),
			},
		},
		{
			Name:        "/google_credentials",
			Description: "Overwrite Google credentials.",
			Roles:       adminOnly,
			States:      []admin.State{states.NewEnterCredentialsFile(o.MaxFileSize, o.UploadTimeout)},
		},
	}
}

// NewRegistry registers the catalogue.
func NewRegistry(o Options) *admin.Registry {
	registry := admin.NewRegistry()
	for _, cmd := range All(o) {
		registry.Register(cmd)
	}
	return registry
}
