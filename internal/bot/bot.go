package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobs-backend/internal/applications"
	"jobs-backend/internal/intake"
	"jobs-backend/internal/jobs"
	"jobs-backend/internal/profiles"
	"jobs-backend/internal/shared/telemetry"
	"jobs-backend/internal/telegram"
)

type ProfileReader interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type JobCatalog interface {
	ListActive(ctx context.Context) ([]jobs.Job, error)
	Get(ctx context.Context, id int64) (jobs.Job, error)
}

type ApplicationWorkflow interface {
	Apply(ctx context.Context, userID, jobID int64) (applications.Application, error)
	ListForUser(ctx context.Context, userID int64) ([]applications.Detail, error)
}

// Bot turns Telegram updates into calls on the intake machine and the job workflows.
type Bot struct {
	API          telegram.API
	Profiles     ProfileReader
	Jobs         JobCatalog
	Applications ApplicationWorkflow
	Intake       *intake.Machine
}

func New(api telegram.API, profileReader ProfileReader, catalog JobCatalog, workflow ApplicationWorkflow, machine *intake.Machine) *Bot {
	return &Bot{API: api, Profiles: profileReader, Jobs: catalog, Applications: workflow, Intake: machine}
}

// HandleUpdate processes one update. Failures are logged and reported to the user;
// they never stop the update loop.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	default:
		return
	}
	if err != nil {
		telemetry.Error("bot.update_failed", map[string]any{
			"update_id": update.UpdateID,
			"user_id":   senderID(update),
			"error":     err.Error(),
		})
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := commandText(msg.Text)

	if text == intake.CancelCommand {
		reply, err := b.Intake.Cancel(ctx, userID)
		if err != nil {
			return b.fail(chatID, err)
		}
		return b.sendMenu(chatID, reply.Text)
	}

	active, err := b.Intake.Active(ctx, userID)
	if err != nil {
		return b.fail(chatID, err)
	}
	if active && text != "/start" {
		return b.continueIntake(ctx, chatID, userID, msg)
	}

	switch text {
	case "/start":
		if active {
			if _, err := b.Intake.Cancel(ctx, userID); err != nil {
				return b.fail(chatID, err)
			}
		}
		telemetry.Info("bot.started", map[string]any{"user_id": userID})
		return b.sendMarkdown(chatID, msgWelcome, mainMenu())
	case "/help", btnHelp:
		return b.sendMarkdown(chatID, msgHelp, nil)
	case btnProfile:
		return b.startIntake(ctx, chatID, msg.From)
	case btnJobs:
		return b.showJobs(ctx, chatID)
	case btnApplications:
		return b.showApplications(ctx, chatID, userID)
	default:
		return b.sendPlain(chatID, msgUnknown, nil)
	}
}

// commandText trims the message and, for commands, drops the "@botname" suffix Telegram
// adds when a command is picked from the menu in a group.
func commandText(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd
}

func (b *Bot) continueIntake(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	in := intake.Input{Text: msg.Text}
	if doc := msg.Document; doc != nil {
		in.Upload = &intake.Upload{
			FileID:   doc.FileID,
			FileName: doc.FileName,
			MimeType: doc.MimeType,
			Size:     int64(doc.FileSize),
		}
	}
	reply, err := b.Intake.OnUserMessage(ctx, userID, in)
	if err != nil {
		if errors.Is(err, intake.ErrNoSession) {
			return b.sendPlain(chatID, msgUnknown, nil)
		}
		return b.fail(chatID, err)
	}
	if reply.Done || reply.Cancelled {
		return b.sendMenu(chatID, reply.Text)
	}
	return b.sendPlain(chatID, reply.Text, nil)
}

func (b *Bot) startIntake(ctx context.Context, chatID int64, from *tgbotapi.User) error {
	reply, err := b.Intake.Start(ctx, from.ID, from.UserName)
	if err != nil {
		return b.fail(chatID, err)
	}
	return b.sendPlain(chatID, reply.Text, tgbotapi.NewRemoveKeyboard(false))
}

func (b *Bot) showJobs(ctx context.Context, chatID int64) error {
	list, err := b.Jobs.ListActive(ctx)
	if err != nil {
		return b.fail(chatID, err)
	}
	if len(list) == 0 {
		return b.sendPlain(chatID, msgNoJobs, nil)
	}
	return b.sendMarkdown(chatID, msgJobsHeader, jobsKeyboard(list))
}

func (b *Bot) showApplications(ctx context.Context, chatID, userID int64) error {
	details, err := b.Applications.ListForUser(ctx, userID)
	if err != nil {
		return b.fail(chatID, err)
	}
	if len(details) == 0 {
		return b.sendPlain(chatID, msgNoApplications, nil)
	}
	return b.sendMarkdown(chatID, applicationsText(details), nil)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if _, err := b.API.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		telemetry.Warn("bot.callback_ack_failed", map[string]any{"error": err.Error()})
	}
	if q.Message == nil || q.From == nil {
		return nil
	}
	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID
	userID := q.From.ID

	switch data := q.Data; {
	case data == cbBackJobs:
		list, err := b.Jobs.ListActive(ctx)
		if err != nil {
			return b.fail(chatID, err)
		}
		if len(list) == 0 {
			return b.edit(chatID, messageID, msgNoJobs, nil, false)
		}
		keyboard := jobsKeyboard(list)
		return b.edit(chatID, messageID, msgJobsHeader, &keyboard, true)
	case data == cbCreateProfile:
		return b.startIntake(ctx, chatID, q.From)
	case strings.HasPrefix(data, cbJobPrefix):
		jobID, err := strconv.ParseInt(strings.TrimPrefix(data, cbJobPrefix), 10, 64)
		if err != nil {
			return b.edit(chatID, messageID, msgJobNotFound, nil, false)
		}
		return b.showJobDetails(ctx, chatID, messageID, userID, jobID)
	case strings.HasPrefix(data, cbApplyPrefix):
		jobID, err := strconv.ParseInt(strings.TrimPrefix(data, cbApplyPrefix), 10, 64)
		if err != nil {
			return b.edit(chatID, messageID, msgJobNotFound, nil, false)
		}
		return b.apply(ctx, chatID, messageID, userID, jobID)
	default:
		return nil
	}
}

func (b *Bot) showJobDetails(ctx context.Context, chatID int64, messageID int, userID, jobID int64) error {
	job, err := b.Jobs.Get(ctx, jobID)
	if errors.Is(err, jobs.ErrNotFound) {
		return b.edit(chatID, messageID, msgJobNotFound, nil, false)
	}
	if err != nil {
		return b.fail(chatID, err)
	}
	hasProfile, err := b.Profiles.Exists(ctx, userID)
	if err != nil {
		return b.fail(chatID, err)
	}
	keyboard := jobDetailsKeyboard(job, hasProfile)
	return b.edit(chatID, messageID, jobDetailsText(job), &keyboard, true)
}

func (b *Bot) apply(ctx context.Context, chatID int64, messageID int, userID, jobID int64) error {
	app, err := b.Applications.Apply(ctx, userID, jobID)
	switch {
	case err == nil:
		return b.edit(chatID, messageID, appliedText(app), nil, true)
	case errors.Is(err, applications.ErrAlreadyApplied):
		return b.edit(chatID, messageID, msgAlreadyApplied, nil, false)
	case errors.Is(err, applications.ErrProfileRequired):
		return b.edit(chatID, messageID, msgProfileRequired, nil, false)
	case errors.Is(err, applications.ErrJobNotFound):
		return b.edit(chatID, messageID, msgJobNotFound, nil, false)
	case errors.Is(err, applications.ErrJobInactive):
		return b.edit(chatID, messageID, msgJobInactive, nil, false)
	default:
		return b.fail(chatID, err)
	}
}

func (b *Bot) sendMenu(chatID int64, text string) error {
	return b.sendPlain(chatID, text, mainMenu())
}

func (b *Bot) sendMarkdown(chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := b.API.Send(msg)
	return err
}

// sendPlain is used for text that echoes user input, which may not be valid Markdown.
func (b *Bot) sendPlain(chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) edit(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup, markdown bool) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if markdown {
		edit.ParseMode = tgbotapi.ModeMarkdown
	}
	edit.ReplyMarkup = keyboard
	_, err := b.API.Send(edit)
	return err
}

// fail tells the user something went wrong and hands err back for logging.
func (b *Bot) fail(chatID int64, err error) error {
	if sendErr := b.sendPlain(chatID, msgInternalError, nil); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return err
}

var _ ProfileReader = (*profiles.Service)(nil)
