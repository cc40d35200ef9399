package apply

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"aimploy/pkg/types"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrSubmitInProgress  = errors.New("submission already in progress")
)

// Uploader stores a file and returns its reference path.
type Uploader interface {
	SaveFile(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Submitter persists a finished application and returns the new record id.
type Submitter interface {
	SubmitApplication(ctx context.Context, req *types.SubmissionRequest) (string, error)
}

// UploadError is returned by a step when storing one of its files failed.
// The draft slot is left in the failed state.
type UploadError struct {
	Field string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Field, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Message is the text shown to the user; the underlying error is only logged.
func (e *UploadError) Message() string {
	if e.Field == FieldResume {
		return "Error uploading file. Please try again."
	}
	return "Error uploading files. Please try again."
}

type State struct {
	Step       Step                      `json:"step"`
	Draft      Draft                     `json:"draft"`
	Submitting bool                      `json:"submitting,omitempty"`
	Submitted  bool                      `json:"submitted,omitempty"`
	Receipt    *types.ApplicationReceipt `json:"receipt,omitempty"`
}

// NewState is the state of a freshly mounted form.
func NewState() State {
	return State{Step: StepPersonalInfo}
}

// Form drives a draft through the personal info, resume and behavioral
// steps and submits it. A Form is not safe for concurrent use.
type Form struct {
	state     State
	uploader  Uploader
	submitter Submitter
	legacy    bool
	logger    logrus.FieldLogger
}

type Option func(*Form)

// WithState restores a previously saved state.
func WithState(state State) Option {
	return func(f *Form) {
		if !state.Step.Valid() {
			state.Step = StepPersonalInfo
		}
		// an interrupted submit never survives a reload
		state.Submitting = false
		f.state = state
	}
}

// WithLegacyFields controls whether submissions carry the legacy duplicate
// top-level fields. On by default.
func WithLegacyFields(on bool) Option {
	return func(f *Form) {
		f.legacy = on
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

func New(uploader Uploader, submitter Submitter, opts ...Option) *Form {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	f := &Form{
		state:     NewState(),
		uploader:  uploader,
		submitter: submitter,
		legacy:    true,
		logger:    discard,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Form) State() State {
	return f.state
}

func (f *Form) Step() Step {
	return f.state.Step
}

func (f *Form) Draft() Draft {
	return f.state.Draft
}

// Update merges u into the draft. No validation is performed; callers are
// the step operations below, which validate first.
func (f *Form) Update(u Update) {
	f.state.Draft = f.state.Draft.Apply(u)
}

func (f *Form) NextStep() error {
	switch f.state.Step {
	case StepPersonalInfo, StepResume:
		return f.moveTo(f.state.Step + 1)
	default:
		return fmt.Errorf("%w: no next step after %s", ErrInvalidTransition, f.state.Step)
	}
}

func (f *Form) PrevStep() error {
	switch f.state.Step {
	case StepResume, StepBehavioral:
		return f.moveTo(f.state.Step - 1)
	default:
		return fmt.Errorf("%w: no previous step before %s", ErrInvalidTransition, f.state.Step)
	}
}

// Reset discards the draft and any receipt and returns to the first step.
func (f *Form) Reset() {
	f.state = NewState()
}

func (f *Form) moveTo(step Step) error {
	f.logger.WithFields(logrus.Fields{
		"from": f.state.Step.String(),
		"to":   step.String(),
	}).Debug("form step changed")

	f.state.Step = step
	return nil
}

func (f *Form) requireStep(step Step) error {
	if f.state.Step != step {
		return fmt.Errorf("%w: form is on %s, not %s", ErrInvalidTransition, f.state.Step, step)
	}
	return nil
}

// SubmitPersonalInfo validates info, stores it and advances to the resume
// step.
func (f *Form) SubmitPersonalInfo(info types.PersonalInfo) error {
	if err := f.requireStep(StepPersonalInfo); err != nil {
		return err
	}

	info = types.PersonalInfo{
		Name:  strings.TrimSpace(info.Name),
		Email: strings.TrimSpace(info.Email),
		Phone: strings.TrimSpace(info.Phone),
	}

	if errs := ValidatePersonalInfo(info); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	f.Update(Update{PersonalInfo: &info})
	return f.NextStep()
}

// SubmitResume validates and uploads the resume, then advances to the
// behavioral step. A resume uploaded earlier is kept when no new file is
// given.
func (f *Form) SubmitResume(ctx context.Context, file *File) error {
	if err := f.requireStep(StepResume); err != nil {
		return err
	}

	if file == nil && f.state.Draft.Resume.IsUploaded() {
		return f.NextStep()
	}

	if err := ValidateResume(file); err != nil {
		return err
	}

	err := f.upload(ctx, FieldResume, file, func(slot FileSlot) Update {
		return Update{Resume: &slot}
	})
	if err != nil {
		return err
	}

	return f.NextStep()
}

// SubmitBehavioral validates the response, uploads the audio then the video
// file (when given), records the text and submits the application. Slots
// uploaded on an earlier attempt are reused when no new file is given. Any
// failure fails the whole attempt and leaves the form on the behavioral
// step.
func (f *Form) SubmitBehavioral(ctx context.Context, text string, audio, video *File) error {
	if err := f.requireStep(StepBehavioral); err != nil {
		return err
	}

	current := f.state.Draft.Behavioral
	hasAudio := audio != nil || current.Audio.IsUploaded()
	hasVideo := video != nil || current.Video.IsUploaded()

	if strings.TrimSpace(text) == "" && !hasAudio && !hasVideo {
		return invalid(FieldBehavioral, "Please provide at least one form of response")
	}

	if audio != nil {
		if err := ValidateAudio(audio); err != nil {
			return err
		}
	}

	if video != nil {
		if err := ValidateVideo(video); err != nil {
			return err
		}
	}

	f.Update(Update{Behavioral: &BehavioralUpdate{TextAnswer: &text}})

	if audio != nil {
		err := f.upload(ctx, FieldAudio, audio, func(slot FileSlot) Update {
			return Update{Behavioral: &BehavioralUpdate{Audio: &slot}}
		})
		if err != nil {
			return err
		}
	}

	if video != nil {
		err := f.upload(ctx, FieldVideo, video, func(slot FileSlot) Update {
			return Update{Behavioral: &BehavioralUpdate{Video: &slot}}
		})
		if err != nil {
			return err
		}
	}

	return f.Submit(ctx)
}

// Submit sends the draft to the submitter. On success the draft is replaced
// by a receipt and the form moves to the terminal success step.
func (f *Form) Submit(ctx context.Context) error {
	if f.state.Submitting {
		return ErrSubmitInProgress
	}
	if err := f.requireStep(StepBehavioral); err != nil {
		return err
	}

	f.state.Submitting = true
	defer func() {
		f.state.Submitting = false
	}()

	draft := f.state.Draft
	id, err := f.submitter.SubmitApplication(ctx, BuildSubmission(draft, f.legacy))
	if err != nil {
		f.logger.WithError(err).Warn("application submission failed")
		return fmt.Errorf("failed to submit application: %w", err)
	}

	f.logger.WithField("candidate_id", id).Info("application submitted")

	f.state.Receipt = Receipt(id, draft)
	f.state.Submitted = true
	f.state.Draft = Draft{}
	f.state.Step = StepSuccess

	return nil
}

func (f *Form) upload(ctx context.Context, field string, file *File, set func(FileSlot) Update) error {
	f.Update(set(Uploading(file.Name)))

	ref, err := f.uploader.SaveFile(ctx, file.Name, file.MediaType(), file.Data)
	if err != nil {
		f.Update(set(Failed(file.Name, err)))
		f.logger.WithError(err).WithField("field", field).Warn("file upload failed")
		return &UploadError{Field: field, Err: err}
	}

	f.Update(set(Uploaded(file.Name, ref)))
	f.logger.WithFields(logrus.Fields{
		"field":     field,
		"reference": ref,
	}).Debug("file uploaded")

	return nil
}
