package core

import (
	"ProgJulia/internal/lib/sl"
	"context"
)

// CompleteAuthorization exchanges the consent code and tells the bot admin about it.
func (c *Core) CompleteAuthorization(ctx context.Context, state, code string) error {
	if c.google == nil {
		return ErrNotConfigured
	}
	if err := c.google.Exchange(ctx, state, code); err != nil {
		c.log.With(sl.Err(err)).Warn("google authorization")
		return err
	}
	if c.ms != nil {
		c.ms.SendMessage("Google Sheets access granted, course import is available")
	}
	return nil
}
