package profiles

import (
	"encoding/json"
	"time"
	"unicode/utf8"
)

// ResumeKind tags which representation a Resume carries.
type ResumeKind string

const (
	ResumeKindText ResumeKind = "text"
	ResumeKindFile ResumeKind = "file"
)

// Resume is either inline text or a reference to a stored file. The zero value is "no resume".
type Resume struct {
	kind ResumeKind
	text string
	ref  string
}

// TextResume builds an inline-text resume.
func TextResume(text string) Resume {
	return Resume{kind: ResumeKindText, text: text}
}

// FileResume builds a file resume. ref is opaque; label is what gets shown in place of text.
func FileResume(ref, label string) Resume {
	return Resume{kind: ResumeKindFile, text: label, ref: ref}
}

func (r Resume) Kind() ResumeKind { return r.kind }

func (r Resume) IsZero() bool { return r.kind == "" }

// Text returns the resume body, or the upload label for file resumes.
func (r Resume) Text() string { return r.text }

// FileRef returns the stored file reference for file resumes.
func (r Resume) FileRef() (string, bool) {
	if r.kind != ResumeKindFile {
		return "", false
	}
	return r.ref, true
}

// Preview returns at most n runes of the resume text.
func (r Resume) Preview(n int) string {
	if n <= 0 || utf8.RuneCountInString(r.text) <= n {
		return r.text
	}
	runes := []rune(r.text)
	return string(runes[:n]) + "..."
}

type resumeJSON struct {
	Kind    ResumeKind `json:"kind"`
	Text    string     `json:"text"`
	FileRef string     `json:"fileRef,omitempty"`
}

func (r Resume) MarshalJSON() ([]byte, error) {
	return json.Marshal(resumeJSON{Kind: r.kind, Text: r.text, FileRef: r.ref})
}

func (r *Resume) UnmarshalJSON(data []byte) error {
	var raw resumeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case ResumeKindText:
		*r = TextResume(raw.Text)
	case ResumeKindFile:
		if raw.FileRef == "" {
			return ErrInvalidProfile
		}
		*r = FileResume(raw.FileRef, raw.Text)
	case "":
		*r = Resume{}
	default:
		return ErrInvalidProfile
	}
	return nil
}

// Profile is the professional information a user supplies once and reuses for every application.
type Profile struct {
	UserID     int64     `json:"userId"`
	Username   string    `json:"username,omitempty"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Experience string    `json:"experience"`
	Skills     string    `json:"skills"`
	Resume     Resume    `json:"resume"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
