package intake

import (
	"fmt"
	"strings"

	"jobs-backend/internal/profiles"
)

const (
	CancelCommand = "/cancel"

	promptName       = "What's your full name?"
	promptEmail      = "📧 What's your email address?"
	promptPhone      = "📱 What's your phone number?"
	promptExperience = "💼 Tell me about your work experience (e.g., '5 years as a Software Engineer'):"
	promptSkills     = "🔧 What are your key skills? (e.g., 'Python, SQL, Project Management')"
	promptResume     = "📄 Please send a brief resume/bio about yourself, or upload your resume as a file:"

	msgInvalidEmail  = "❌ That doesn't look like a valid email address. Please enter it again (e.g. name@example.com):"
	msgTextRequired  = "✍️ Please answer with a text message, or send /cancel to stop."
	msgResumeMissing = "📄 Please send your resume as text or upload it as a file, or send /cancel to stop."
	msgUploadFailed  = "⚠️ I couldn't save that file. Please try uploading it again or send your resume as text."
	msgSaved         = "✅ Profile saved successfully!\n\nYou can now apply for jobs with one click. Use '💼 View Jobs' to browse available positions."
	msgCancelled     = "❌ Operation cancelled. You can use the main menu buttons to continue."

	resumePreviewRunes = 50
)

var prompts = map[State]string{
	StateAwaitName:       promptName,
	StateAwaitEmail:      promptEmail,
	StateAwaitPhone:      promptPhone,
	StateAwaitExperience: promptExperience,
	StateAwaitSkills:     promptSkills,
	StateAwaitResume:     promptResume,
}

// Prompt returns the question asked in state s.
func Prompt(s State) string {
	return prompts[s]
}

func startText(existing *profiles.Profile) string {
	if existing == nil {
		return "📝 Let's create your professional profile!\n\n" +
			"This information will be used for job applications.\n\n" + promptName
	}
	var b strings.Builder
	b.WriteString("📝 Updating your existing profile:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", existing.FullName)
	fmt.Fprintf(&b, "Email: %s\n", existing.Email)
	fmt.Fprintf(&b, "Phone: %s\n", existing.Phone)
	fmt.Fprintf(&b, "Experience: %s\n", existing.Experience)
	fmt.Fprintf(&b, "Skills: %s\n", existing.Skills)
	fmt.Fprintf(&b, "Resume: %s\n\n", existing.Resume.Preview(resumePreviewRunes))
	b.WriteString("Let's update your information. " + promptName)
	return b.String()
}

// ResumeLabel is the placeholder text stored in place of an uploaded resume.
func ResumeLabel(fileName string) string {
	if strings.TrimSpace(fileName) == "" {
		fileName = "resume"
	}
	return "📎 Resume file: " + fileName
}
