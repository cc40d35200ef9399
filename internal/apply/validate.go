package apply

import (
	"mime"
	"net/mail"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"aimploy/pkg/types"
)

const (
	MaxResumeBytes = 5 << 20
	MaxAudioBytes  = 10 << 20
	MaxVideoBytes  = 50 << 20
)

// ResumeContentTypes are the accepted resume formats: pdf, doc, docx and txt.
var ResumeContentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

// Field keys used in FieldErrors.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldResume     = "resume"
	FieldBehavioral = "behavioral"
	FieldAudio      = "audio"
	FieldVideo      = "video"
)

// File is a file picked by the user for one of the upload slots.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// MediaType returns the content type without parameters, lower cased.
func (f *File) MediaType() string {
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(f.ContentType))
	}
	return mediaType
}

type FieldErrors map[string]string

// ValidationError is returned by step operations when user input is
// rejected. The messages are meant to be shown next to the fields.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: FieldErrors{field: msg}}
}

func ValidatePersonalInfo(info types.PersonalInfo) FieldErrors {
	errs := FieldErrors{}

	if utf8.RuneCountInString(strings.TrimSpace(info.Name)) < 2 {
		errs[FieldName] = "Name must be at least 2 characters."
	}

	email := strings.TrimSpace(info.Email)
	if !validEmail(email) {
		errs[FieldEmail] = "Please enter a valid email address."
	}

	if utf8.RuneCountInString(strings.TrimSpace(info.Phone)) < 10 {
		errs[FieldPhone] = "Please enter a valid phone number."
	}

	return errs
}

// validEmail accepts a bare address whose domain has a dot in it, so
// "jane@localhost" is rejected.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

func ValidateResume(f *File) error {
	if f == nil || f.Size() == 0 {
		return invalid(FieldResume, "Please select a file")
	}
	if !slices.Contains(ResumeContentTypes, f.MediaType()) {
		return invalid(FieldResume, "Please upload a PDF, DOCX, or TXT file")
	}
	if f.Size() > MaxResumeBytes {
		return invalid(FieldResume, "File size must be less than 5MB")
	}
	return nil
}

func ValidateAudio(f *File) error {
	if !strings.HasPrefix(f.MediaType(), "audio/") {
		return invalid(FieldAudio, "Please upload an audio file")
	}
	if f.Size() > MaxAudioBytes {
		return invalid(FieldAudio, "Audio file must be less than 10MB")
	}
	return nil
}

func ValidateVideo(f *File) error {
	if !strings.HasPrefix(f.MediaType(), "video/") {
		return invalid(FieldVideo, "Please upload a video file")
	}
	if f.Size() > MaxVideoBytes {
		return invalid(FieldVideo, "Video file must be less than 50MB")
	}
	return nil
}
