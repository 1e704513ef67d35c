package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobs-backend/internal/intake"
	"jobs-backend/internal/shared/storage/object"
	"jobs-backend/internal/shared/telemetry"
)

// maxResumeBytes matches the Bot API download limit.
const maxResumeBytes = 20 << 20

var ErrResumeTooLarge = errors.New("resume file too large")

// ResumeArchive copies uploaded resumes into the object store and forwards them to the
// admin chat. The storage key becomes the profile's file reference. With no store the
// Telegram file id is kept instead.
type ResumeArchive struct {
	API         API
	Store       object.ObjectStore
	HTTP        *http.Client
	AdminChatID int64
}

func NewResumeArchive(api API, store object.ObjectStore, adminChatID int64) *ResumeArchive {
	return &ResumeArchive{
		API:         api,
		Store:       store,
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		AdminChatID: adminChatID,
	}
}

func (a *ResumeArchive) Accept(ctx context.Context, userID int64, upload intake.Upload) (string, error) {
	if upload.Size > maxResumeBytes {
		return "", ErrResumeTooLarge
	}
	ref := upload.FileID
	stored := false
	if a.Store != nil {
		body, err := a.download(ctx, upload.FileID)
		if err != nil {
			return "", err
		}
		defer body.Close()
		name := upload.FileName
		if strings.TrimSpace(name) == "" {
			name = "resume_" + strconv.FormatInt(userID, 10)
		}
		key, size, _, err := a.Store.Save(ctx, strconv.FormatInt(userID, 10), name, io.LimitReader(body, maxResumeBytes))
		if err != nil {
			return "", fmt.Errorf("store resume: %w", err)
		}
		telemetry.Info("resume.archived", map[string]any{"user_id": userID, "size_bytes": size})
		ref = key
		stored = true
	}

	if a.AdminChatID != 0 {
		doc := tgbotapi.NewDocument(a.AdminChatID, tgbotapi.FileID(upload.FileID))
		doc.Caption = fmt.Sprintf("📎 Resume from user %d: %s", userID, intake.ResumeLabel(upload.FileName))
		if _, err := a.API.Send(doc); err != nil {
			// The user is asked to upload again, so the stored copy would be orphaned.
			if stored {
				a.discard(ctx, userID, ref)
			}
			return "", fmt.Errorf("forward resume: %w", err)
		}
	}
	return ref, nil
}

func (a *ResumeArchive) discard(ctx context.Context, userID int64, key string) {
	if err := a.Store.Delete(ctx, key); err != nil {
		telemetry.Warn("resume.discard_failed", map[string]any{"user_id": userID, "error": err.Error()})
	}
}

// Open returns the stored resume and a download name. References that are not store keys
// are treated as Telegram file ids and fetched from the Bot API.
func (a *ResumeArchive) Open(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	if a.Store != nil {
		rc, err := a.Store.Open(ctx, ref)
		if err == nil {
			return rc, displayName(ref), nil
		}
		if a.API == nil {
			return nil, "", err
		}
	}
	if a.API == nil {
		return nil, "", errors.New("telegram api not configured")
	}
	body, err := a.download(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	return body, "resume_" + ref, nil
}

func (a *ResumeArchive) download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	url, err := a.API.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve telegram file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := a.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download telegram file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download telegram file: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// displayName strips the random prefix the object stores put in front of file names.
func displayName(key string) string {
	base := path.Base(strings.ReplaceAll(key, "\\", "/"))
	if i := strings.IndexByte(base, '_'); i == 32 {
		return base[i+1:]
	}
	return base
}
