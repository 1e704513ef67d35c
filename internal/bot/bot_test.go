package bot

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobs-backend/internal/applications"
	"jobs-backend/internal/intake"
	"jobs-backend/internal/jobs"
	"jobs-backend/internal/profiles"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return "", nil
}

// lastText returns the text of the most recent message or edit.
func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	switch c := f.sent[len(f.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	default:
		t.Fatalf("unexpected chattable %T", c)
		return ""
	}
}

type harness struct {
	api     *fakeAPI
	bot     *Bot
	catalog *jobs.Service
	ledger  *applications.Service
	job     jobs.Job
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	profileRepo := profiles.NewMemoryRepo()
	jobRepo := jobs.NewMemoryRepo()
	appRepo := applications.NewMemoryRepo(profileRepo, jobRepo)
	jobRepo.SetCounter(appRepo)

	profileSvc := profiles.NewService(profileRepo)
	jobSvc := jobs.NewService(jobRepo)
	appSvc := applications.NewService(appRepo, profileRepo, jobRepo)
	machine := intake.NewMachine(profileSvc, intake.NewMemorySessions(), nil)

	job, err := jobSvc.Create(context.Background(), jobs.Input{Title: "Software Developer", Description: "Full-stack", Location: "Remote"})
	require.NoError(t, err)

	api := &fakeAPI{}
	return &harness{
		api:     api,
		bot:     New(api, profileSvc, jobSvc, appSvc, machine),
		catalog: jobSvc,
		ledger:  appSvc,
		job:     job,
	}
}

func (h *harness) say(userID int64, text string) {
	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "jdoe"},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}})
}

func (h *harness) click(userID int64, data string) {
	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}})
}

func TestStartShowsMainMenu(t *testing.T) {
	h := newHarness(t)
	h.say(1, "/start")

	msg, ok := h.api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Welcome to Jobs Bot")
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, btnProfile, keyboard.Keyboard[0][0].Text)
}

func TestApplyBeforeProfileThenAfterIntake(t *testing.T) {
	h := newHarness(t)
	jobData := cbApplyPrefix + "1"

	h.click(1, cbJobPrefix+"1")
	assert.Contains(t, h.api.lastText(t), "Software Developer")
	edit := h.api.sent[len(h.api.sent)-1].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, cbCreateProfile, *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)

	h.click(1, jobData)
	assert.Equal(t, msgProfileRequired, h.api.lastText(t))

	h.say(1, btnProfile)
	assert.Contains(t, h.api.lastText(t), "What's your full name?")
	for _, answer := range []string{"Jane Doe", "jane@x.com", "555", "3y", "SQL", "bio text"} {
		h.say(1, answer)
	}
	assert.Contains(t, h.api.lastText(t), "Profile saved successfully")

	h.click(1, cbJobPrefix+"1")
	edit = h.api.sent[len(h.api.sent)-1].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, jobData, *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)

	h.click(1, jobData)
	id := regexp.MustCompile("`([A-Z0-9]{8})`").FindStringSubmatch(h.api.lastText(t))
	require.Len(t, id, 2)

	h.click(1, jobData)
	assert.Equal(t, msgAlreadyApplied, h.api.lastText(t))

	h.say(1, btnApplications)
	text := h.api.lastText(t)
	assert.Contains(t, text, "⏳")
	assert.Contains(t, text, id[1])
	assert.True(t, h.api.requests >= 4)
}

func TestInvalidEmailStaysOnEmailStep(t *testing.T) {
	h := newHarness(t)
	h.say(1, btnProfile)
	h.say(1, "Jane")
	h.say(1, "not-an-email")
	assert.Contains(t, h.api.lastText(t), "valid email")
	h.say(1, "jane@x.com")
	assert.Contains(t, h.api.lastText(t), "phone")
}

func TestCancelReturnsToMenu(t *testing.T) {
	h := newHarness(t)
	h.say(1, btnProfile)
	h.say(1, "Jane")
	h.say(1, "/cancel")
	assert.Contains(t, h.api.lastText(t), "Operation cancelled")

	h.say(1, btnJobs)
	assert.Contains(t, h.api.lastText(t), "Available Jobs")
}

func TestCommandsAddressedToBotByName(t *testing.T) {
	h := newHarness(t)
	h.say(1, "/start@JobsBot")
	assert.Contains(t, h.api.lastText(t), "Welcome to Jobs Bot")

	h.say(1, btnProfile)
	h.say(1, "Jane")
	h.say(1, "/cancel@JobsBot")
	assert.Contains(t, h.api.lastText(t), "Operation cancelled")

	h.say(1, "/help@JobsBot")
	assert.Equal(t, msgHelp, h.api.lastText(t))
}

func TestCommandText(t *testing.T) {
	tests := map[string]string{
		"  /start  ":          "/start",
		"/start@JobsBot":      "/start",
		"/start@JobsBot ref1": "/start",
		"/cancel@JobsBot":     "/cancel",
		"jane@x.com":          "jane@x.com",
		"Jane Doe":            "Jane Doe",
	}
	for in, want := range tests {
		assert.Equal(t, want, commandText(in), in)
	}
}

func TestInactiveJobCannotBeApplied(t *testing.T) {
	h := newHarness(t)
	h.say(1, btnProfile)
	for _, answer := range []string{"Jane Doe", "jane@x.com", "555", "3y", "SQL", "bio"} {
		h.say(1, answer)
	}
	off := false
	_, err := h.catalog.Update(context.Background(), h.job.ID, jobs.Input{Title: "Software Developer", Description: "Full-stack", Active: &off})
	require.NoError(t, err)

	h.click(1, cbApplyPrefix+"1")
	assert.Equal(t, msgJobInactive, h.api.lastText(t))

	h.say(1, btnJobs)
	assert.Equal(t, msgNoJobs, h.api.lastText(t))
}

func TestUnknownTextGetsHint(t *testing.T) {
	h := newHarness(t)
	h.say(1, "hello?")
	assert.Equal(t, msgUnknown, h.api.lastText(t))
}

func TestApplicationsTextEscapesMarkdown(t *testing.T) {
	text := applicationsText([]applications.Detail{{
		Application: applications.Application{PublicID: "ABCD1234", Status: applications.StatusInterviewed},
		Job:         &jobs.Job{Title: "Go_Dev *senior*"},
	}})
	assert.Contains(t, text, "🤝")
	assert.Contains(t, text, "Interviewed")
	assert.True(t, strings.Contains(text, `Go\_Dev \*senior\*`), text)
}
