package states

import (
	"ProgJulia/bot/admin"
	"context"
	"strings"
)

type Shortener interface {
	Shorten(ctx context.Context, link string) string
}

// WebLink sends a short link to a page of the web frontend.
type WebLink struct {
	admin.BaseState
	link      string
	caption   string
	shortener Shortener
}

func newWebLink(frontendURL, path, caption string, shortener Shortener) *WebLink {
	return &WebLink{
		BaseState: admin.NewBaseState(false),
		link:      strings.TrimRight(frontendURL, "/") + path,
		caption:   caption,
		shortener: shortener,
	}
}

func NewWebLink(frontendURL string, shortener Shortener) *WebLink {
	return newWebLink(frontendURL, "/login", "Link to log into your account: ", shortener)
}

func NewListUsersWeb(frontendURL string, shortener Shortener) *WebLink {
	return newWebLink(frontendURL, "/students", "Students list: ", shortener)
}

func (s *WebLink) Enter(c *admin.Context) error {
	c.Send(s.caption + s.shortener.Shorten(c.Context(), s.link))
	return nil
}
