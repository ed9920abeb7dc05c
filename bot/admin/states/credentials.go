package states

import (
	"ProgJulia/bot/admin"
	"ProgJulia/internal/lib/keylock"
	"ProgJulia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const credentialsLock = "credentials-upload"

// EnterCredentialsFile takes the Google OAuth client file as a document and
// installs it in the background. One upload runs at a time.
type EnterCredentialsFile struct {
	admin.BaseState
	maxSize int64
	timeout time.Duration
}

func NewEnterCredentialsFile(maxSize int64, timeout time.Duration) *EnterCredentialsFile {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &EnterCredentialsFile{
		BaseState: admin.NewBaseState(true),
		maxSize:   maxSize,
		timeout:   timeout,
	}
}

func (s *EnterCredentialsFile) Enter(c *admin.Context) error {
	c.Send("Please upload the credentials.json file from Google:")
	return nil
}

func (s *EnterCredentialsFile) HandleInput(*admin.Context) error {
	return admin.Invalid("Invalid input. Please upload a valid file.")
}

func (s *EnterCredentialsFile) HandleUpdate(c *admin.Context) error {
	doc := c.Update().Document
	if doc == nil || doc.FileID == "" {
		return admin.Invalid("Invalid input. Please upload a valid file.")
	}
	if s.maxSize > 0 && doc.Size > s.maxSize {
		return admin.Invalid(fmt.Sprintf("the file is larger than %d bytes", s.maxSize))
	}

	release, err := c.Locker().TryLock(c.Context(), credentialsLock)
	if errors.Is(err, keylock.ErrLocked) {
		return admin.Invalid("The process is already in progress!\nPlease use the link that was generated earlier.")
	}
	if err != nil {
		return err
	}

	c.Send("Processing the credentials file...")
	c.SetFinished(true)

	fileID := doc.FileID
	c.Go("google-credentials", func(ctx context.Context) {
		defer release()
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := s.install(ctx, c, fileID); err != nil {
			c.Log().With(sl.Err(err)).Error("install google credentials")
			c.Send("Failed to upload file: " + err.Error())
		}
	})
	return nil
}

func (s *EnterCredentialsFile) install(ctx context.Context, c *admin.Context, fileID string) error {
	creds := c.Credentials()

	if err := creds.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	data, err := c.Files().DownloadFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	clientID, err := creds.Store(ctx, data)
	if err != nil {
		return err
	}
	c.Log().With(sl.Secret("client_id", clientID)).Info("google credentials installed")
	c.Send("File uploaded successfully!")

	link, err := creds.AuthURL(ctx)
	if err != nil {
		return fmt.Errorf("consent link: %w", err)
	}
	c.Send("Please, visit this link and make the necessary settings: \n" + link +
		"\nThe link will remain active for one hour.\nAll chat-bot commands you can use as usual.")
	c.Log().With(slog.Int64("chat_id", c.ChatID())).Debug("consent link sent")
	return nil
}
