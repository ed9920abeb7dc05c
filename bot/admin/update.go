package admin

import "strings"

// Document is a file attached to an update.
type Document struct {
	FileID   string
	FileName string
	Size     int64
}

// Update is one inbound operator message, already stripped of transport types.
type Update struct {
	ChatID   int64
	Text     string
	Document *Document
}

// Command returns the first word of the text, e.g. "/block".
func (u Update) Command() string {
	fields := strings.Fields(u.Text)
	if len(fields) == 0 {
		return ""
	}
	name := fields[0]
	// "/help@ProgJuliaBot" in group chats
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	return name
}

// Args returns the words after the command.
func (u Update) Args() []string {
	fields := strings.Fields(u.Text)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}
