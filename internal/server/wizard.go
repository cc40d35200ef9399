package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"aimploy/internal/apply"
	"aimploy/internal/storage"
	"aimploy/pkg/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// Multipart bodies are capped a little above the largest accepted files so
// oversized uploads still reach validation and get a field message.
const (
	multipartMemory        = 8 << 20
	maxResumeBodyBytes     = 2*apply.MaxResumeBytes + 1<<20
	maxBehavioralBodyBytes = 2*(apply.MaxAudioBytes+apply.MaxVideoBytes) + 1<<20
)

const submitFailedMessage = "Failed to submit application. Please try again."

type StepLink struct {
	Number int
	Label  string
}

type ApplyPageData struct {
	Title       string
	Notice      string
	Error       string
	Step        int
	Steps       []StepLink
	Draft       apply.Draft
	TextAnswer  string
	Receipt     *types.ApplicationReceipt
	FieldErrors apply.FieldErrors
}

// localUploader stores wizard files directly in the service's file store.
type localUploader struct {
	s *Service
}

func (u localUploader) SaveFile(ctx context.Context, name, contentType string, data []byte) (string, error) {
	ref, err := u.s.files.Save(ctx, storage.UniqueFileName(u.s.now(), name), contentType, data)
	if err != nil {
		u.s.metrics.upload(resultFailed, len(data))
		return "", err
	}
	u.s.metrics.upload(resultOK, len(data))
	return ref, nil
}

// localSubmitter persists wizard submissions through the same checks as
// the JSON endpoint.
type localSubmitter struct {
	s      *Service
	logger logrus.FieldLogger
}

func (l localSubmitter) SubmitApplication(ctx context.Context, req *types.SubmissionRequest) (string, error) {
	return l.s.createApplication(ctx, l.logger, req)
}

func (s *Service) newForm(r *http.Request) *apply.Form {
	logger := s.requestLogger(r)
	return apply.New(
		localUploader{s: s},
		localSubmitter{s: s, logger: logger},
		apply.WithState(s.loadState(r)),
		apply.WithLegacyFields(false),
		apply.WithLogger(logger),
	)
}

func (s *Service) applyPageData(state apply.State) ApplyPageData {
	steps := make([]StepLink, 0, 3)
	for _, step := range []apply.Step{apply.StepPersonalInfo, apply.StepResume, apply.StepBehavioral} {
		steps = append(steps, StepLink{Number: int(step), Label: step.String()})
	}

	return ApplyPageData{
		Title:      "Aimploy Job Application",
		Step:       int(state.Step),
		Steps:      steps,
		Draft:      state.Draft,
		TextAnswer: state.Draft.Behavioral.TextAnswer,
		Receipt:    state.Receipt,
	}
}

func (s *Service) handleGetApply(w http.ResponseWriter, r *http.Request) {
	data := s.applyPageData(s.loadState(r))
	data.Notice = r.URL.Query().Get("notice")
	data.Error = r.URL.Query().Get("error")

	s.renderTemplate(w, r, http.StatusOK, "page.apply", data)
}

func (s *Service) handlePostPersonalInfo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "Invalid form submission")
		return
	}

	var info types.PersonalInfo
	if err := decoder.Decode(&info, r.PostForm); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to decode personal info form")
		s.redirectWithError(w, r, "Invalid form submission")
		return
	}

	f := s.newForm(r)
	if err := f.SubmitPersonalInfo(info); err != nil {
		s.stepFailed(w, r, f, err, func(data *ApplyPageData) {
			data.Draft.PersonalInfo = info
		})
		return
	}

	s.saveAndRedirect(w, r, f)
}

func (s *Service) handlePostResume(w http.ResponseWriter, r *http.Request) {
	f := s.newForm(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxResumeBodyBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.multipartFailed(w, r, f, err, apply.FieldResume, "File size must be less than 5MB")
		return
	}

	file, err := formFile(r, "resume")
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to read resume")
		s.redirectWithError(w, r, "Invalid form submission")
		return
	}

	if err := f.SubmitResume(r.Context(), file); err != nil {
		s.stepFailed(w, r, f, err, nil)
		return
	}

	s.saveAndRedirect(w, r, f)
}

func (s *Service) handlePostBehavioral(w http.ResponseWriter, r *http.Request) {
	f := s.newForm(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBehavioralBodyBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.multipartFailed(w, r, f, err, apply.FieldBehavioral, "Files are too large")
		return
	}

	text := r.FormValue("textAnswer")

	audio, err := formFile(r, "audio")
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to read audio file")
		s.redirectWithError(w, r, "Invalid form submission")
		return
	}

	video, err := formFile(r, "video")
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to read video file")
		s.redirectWithError(w, r, "Invalid form submission")
		return
	}

	if err := f.SubmitBehavioral(r.Context(), text, audio, video); err != nil {
		s.stepFailed(w, r, f, err, func(data *ApplyPageData) {
			data.TextAnswer = text
		})
		return
	}

	s.saveAndRedirect(w, r, f)
}

func (s *Service) handlePostBack(w http.ResponseWriter, r *http.Request) {
	f := s.newForm(r)
	if err := f.PrevStep(); err != nil {
		s.redirectToApply(w, r)
		return
	}

	s.saveAndRedirect(w, r, f)
}

func (s *Service) handlePostRestart(w http.ResponseWriter, r *http.Request) {
	s.clearState(w)
	s.redirectWithNotice(w, r, "Started a new application")
}

func (s *Service) saveAndRedirect(w http.ResponseWriter, r *http.Request, f *apply.Form) {
	if err := s.saveState(w, f.State()); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to save draft")
		s.internalServerError(w)
		return
	}

	s.redirectToApply(w, r)
}

// stepFailed re-renders the current step with the error shown inline. The
// form state is saved as well so slots uploaded before the failure are
// reused on retry.
func (s *Service) stepFailed(w http.ResponseWriter, r *http.Request, f *apply.Form, err error, patch func(*ApplyPageData)) {
	if errors.Is(err, apply.ErrInvalidTransition) {
		// stale page posting to a step the draft already left
		s.redirectToApply(w, r)
		return
	}

	data := s.applyPageData(f.State())

	var validationErr *apply.ValidationError
	var uploadErr *apply.UploadError
	switch {
	case errors.As(err, &validationErr):
		data.FieldErrors = validationErr.Fields
	case errors.As(err, &uploadErr):
		data.FieldErrors = apply.FieldErrors{uploadErr.Field: uploadErr.Message()}
	default:
		s.requestLogger(r).WithError(err).Error("failed to complete step")
		data.Error = submitFailedMessage
	}

	if patch != nil {
		patch(&data)
	}

	if err := s.saveState(w, f.State()); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to save draft")
	}

	s.renderTemplate(w, r, http.StatusUnprocessableEntity, "page.apply", data)
}

func (s *Service) multipartFailed(w http.ResponseWriter, r *http.Request, f *apply.Form, err error, field, tooLarge string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.stepFailed(w, r, f, &apply.ValidationError{Fields: apply.FieldErrors{field: tooLarge}}, nil)
		return
	}

	s.requestLogger(r).WithError(err).Info("failed to parse multipart form")
	s.redirectWithError(w, r, "Invalid form submission")
}

// formFile reads an optional file field. The declared content type is
// trusted unless the browser sent none or a generic one, in which case the
// bytes are sniffed.
func formFile(r *http.Request, field string) (*apply.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}

	if header.Filename == "" && len(data) == 0 {
		return nil, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	return &apply.File{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
