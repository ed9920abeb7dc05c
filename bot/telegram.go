package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// maxMessageLength is the Telegram limit for one text message.
const maxMessageLength = 4096

// TelegramAPI defines the Telegram bot methods needed by the messenger.
type TelegramAPI interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
	GetFile(fileId string, opts *tgbotapi.GetFileOpts) (*tgbotapi.File, error)
}

// Messenger sends plain texts and downloads documents through the bot api.
type Messenger struct {
	api        TelegramAPI
	fileURL    string
	maxSize    int64
	httpClient *http.Client
}

func NewMessenger(api TelegramAPI, token string, maxSize int64) *Messenger {
	return &Messenger{
		api:        api,
		fileURL:    tgbotapi.DefaultAPIURL + "/file/bot" + token + "/",
		maxSize:    maxSize,
		httpClient: &http.Client{Timeout: time.Minute},
	}
}

func (m *Messenger) SendText(chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return err
	}
	for _, part := range splitMessage(text, maxMessageLength) {
		if _, err = m.api.SendMessage(id, part, nil); err != nil {
			return err
		}
	}
	return nil
}

// SendKeyboard sends text with the admin command keyboard attached.
func (m *Messenger) SendKeyboard(chatID int64, text string, rows [][]string) error {
	keyboard := make([][]tgbotapi.KeyboardButton, len(rows))
	for i, row := range rows {
		keyboard[i] = make([]tgbotapi.KeyboardButton, len(row))
		for j, label := range row {
			keyboard[i][j] = tgbotapi.KeyboardButton{Text: label}
		}
	}

	_, err := m.api.SendMessage(chatID, text, &tgbotapi.SendMessageOpts{
		ReplyMarkup: tgbotapi.ReplyKeyboardMarkup{
			Keyboard:       keyboard,
			ResizeKeyboard: true,
		},
	})
	return err
}

func (m *Messenger) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := m.api.GetFile(fileID, nil)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if m.maxSize > 0 && file.FileSize > m.maxSize {
		return nil, fmt.Errorf("file is %d bytes, limit is %d", file.FileSize, m.maxSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.fileURL+file.FilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file storage returned %d", resp.StatusCode)
	}

	limit := m.maxSize
	if limit <= 0 {
		limit = 20 << 20
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds %d bytes", limit)
	}
	return data, nil
}

// splitMessage cuts text into parts of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		if i := strings.LastIndex(string(runes[:limit]), "\n"); i > 0 {
			cut = utf8.RuneCountInString(string(runes[:limit])[:i]) + 1
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
