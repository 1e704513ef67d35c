package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobs-backend/internal/applications"
	"jobs-backend/internal/jobs"
	"jobs-backend/internal/telegram"
)

const (
	btnProfile      = "📝 Create/Update Profile"
	btnJobs         = "💼 View Jobs"
	btnApplications = "📋 My Applications"
	btnHelp         = "ℹ️ Help"

	cbJobPrefix     = "job_"
	cbApplyPrefix   = "apply_"
	cbBackJobs      = "back_jobs"
	cbCreateProfile = "create_profile"

	msgWelcome = `🤖 Welcome to Jobs Bot!

I can help you find and apply for jobs. Here's what you can do:

📝 *Create/Update Profile* - Set up your professional profile
💼 *View Jobs* - Browse available job positions
📋 *My Applications* - Check your application status
ℹ️ *Help* - Get assistance

Start by creating your profile to apply for jobs with one click!`

	msgHelp = `🤖 *Jobs Bot Help*

*Available Commands:*
• /start - Start the bot and see main menu
• /cancel - Stop creating or updating your profile

*Main Features:*
📝 *Create/Update Profile* - Set up your professional information (name, email, phone, experience, skills, resume)
💼 *View Jobs* - Browse available job positions and apply with one click
📋 *My Applications* - Check the status of your submitted job applications
ℹ️ *Help* - Show this help message

*How to Apply for Jobs:*
1. First, create or update your profile using the '📝 Create/Update Profile' button.
2. Browse available jobs using the '💼 View Jobs' button.
3. Click on any job in the list to see its details.
4. If you have a profile, an '✅ Apply Now' button will appear. Click it to apply!

*Need Support?*
Contact the admin if you have any issues or questions.`

	msgUnknown         = "I didn't understand that. Please use the menu buttons."
	msgNoJobs          = "😔 No jobs available at the moment. Please check back later!"
	msgJobsHeader      = "💼 *Available Jobs:*\n\nClick on a job to see details and apply:"
	msgNoApplications  = "📋 You haven't applied for any jobs yet.\n\nUse '💼 View Jobs' to browse and apply!"
	msgJobNotFound     = "❌ Job not found!"
	msgJobInactive     = "⚠️ This position is no longer accepting applications."
	msgAlreadyApplied  = "⚠️ You have already applied for this position!"
	msgProfileRequired = "❌ Please create your profile first before applying!\n\nUse '📝 Create/Update Profile' from the main menu."
	msgInternalError   = "⚠️ Something went wrong on our side. Please try again in a moment."
)

func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnProfile)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnJobs), tgbotapi.NewKeyboardButton(btnApplications)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnHelp)),
	)
}

func escape(s string) string {
	return telegram.EscapeMarkdown(s)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func jobsKeyboard(list []jobs.Job) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(list))
	for _, job := range list {
		label := "💼 " + job.Title
		if job.Location != "" {
			label += " - " + job.Location
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", cbJobPrefix, job.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func jobDetailsText(job jobs.Job) string {
	return fmt.Sprintf("💼 *%s*\n\n📍 *Location:* %s\n💰 *Salary:* %s\n\n📋 *Description:*\n%s\n\n🔧 *Requirements:*\n%s",
		escape(job.Title),
		escape(orDefault(job.Location, "N/A")),
		escape(orDefault(job.Salary, "N/A")),
		escape(orDefault(job.Description, "No description provided.")),
		escape(orDefault(job.Requirements, "No specific requirements listed.")),
	)
}

func jobDetailsKeyboard(job jobs.Job, hasProfile bool) tgbotapi.InlineKeyboardMarkup {
	var first tgbotapi.InlineKeyboardButton
	if hasProfile {
		first = tgbotapi.NewInlineKeyboardButtonData("✅ Apply Now", fmt.Sprintf("%s%d", cbApplyPrefix, job.ID))
	} else {
		first = tgbotapi.NewInlineKeyboardButtonData("📝 Create Profile First", cbCreateProfile)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(first),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Jobs", cbBackJobs)),
	)
}

func appliedText(app applications.Application) string {
	return fmt.Sprintf("🎉 Application submitted successfully!\n\nYour application ID: `%s`\n\nYour application has been submitted and will be reviewed by our team.", app.PublicID)
}

func applicationsText(details []applications.Detail) string {
	var b strings.Builder
	b.WriteString("📋 *Your Job Applications:*\n\n")
	for _, d := range details {
		title, location := "Unknown position", "N/A"
		if d.Job != nil {
			title = d.Job.Title
			location = orDefault(d.Job.Location, "N/A")
		}
		fmt.Fprintf(&b, "%s *%s* - %s\n", d.Status.Emoji(), escape(title), escape(location))
		fmt.Fprintf(&b, "   Status: %s\n", d.Status.Title())
		fmt.Fprintf(&b, "   ID: `%s`\n", d.PublicID)
		fmt.Fprintf(&b, "   Applied: %s\n\n", d.AppliedAt.Format("2006-01-02"))
	}
	return b.String()
}
