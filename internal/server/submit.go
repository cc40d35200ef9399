package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"aimploy/internal/apply"
	"aimploy/internal/storage"
	"aimploy/internal/utils"
	"aimploy/pkg/types"

	"github.com/sirupsen/logrus"
)

const maxSubmissionBodyBytes = 1 << 20

// submissionError carries the status and body the submission endpoint
// responds with.
type submissionError struct {
	status  int
	message string
	details string
}

func (e *submissionError) Error() string {
	if e.details == "" {
		return e.message
	}
	return e.message + ": " + e.details
}

func badSubmission(details string) *submissionError {
	return &submissionError{status: http.StatusBadRequest, message: "Invalid form data", details: details}
}

func (s *Service) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req types.SubmissionRequest
	if err := dec.Decode(&req); err != nil {
		s.metrics.submission(resultRejected)
		s.writeJSON(w, r, http.StatusBadRequest, types.SubmissionResponse{
			Error:   "Invalid form data",
			Details: err.Error(),
		})
		return
	}

	id, err := s.createApplication(r.Context(), s.requestLogger(r), &req)
	if err != nil {
		var se *submissionError
		if !errors.As(err, &se) {
			se = &submissionError{status: http.StatusInternalServerError, message: "Failed to save application", details: err.Error()}
		}
		s.writeJSON(w, r, se.status, types.SubmissionResponse{Error: se.message, Details: se.details})
		return
	}

	s.writeJSON(w, r, http.StatusOK, types.SubmissionResponse{
		Success: true,
		ID:      id,
		Message: "Application submitted successfully",
	})
}

// createApplication validates a submission and persists it as a candidate.
// Every returned error is a *submissionError. It backs both the JSON
// endpoint and the server rendered wizard.
func (s *Service) createApplication(ctx context.Context, logger logrus.FieldLogger, req *types.SubmissionRequest) (string, error) {
	candidate, err := s.candidateFromSubmission(ctx, req)
	if err != nil {
		var se *submissionError
		if errors.As(err, &se) && se.status == http.StatusBadRequest {
			s.metrics.submission(resultRejected)
			logger.WithError(err).Info("rejected application")
			return "", err
		}
		s.metrics.submission(resultFailed)
		logger.WithError(err).Error("failed to check application")
		return "", &submissionError{status: http.StatusInternalServerError, message: "Failed to save application", details: err.Error()}
	}

	if err := s.candidates.CreateCandidate(ctx, candidate); err != nil {
		s.metrics.submission(resultFailed)
		logger.WithError(err).Error("failed to save application")
		return "", &submissionError{status: http.StatusInternalServerError, message: "Failed to save application", details: err.Error()}
	}

	s.metrics.submission(resultOK)
	logger.WithField("candidate_id", candidate.ID).Info("application saved")

	return candidate.ID, nil
}

func (s *Service) candidateFromSubmission(ctx context.Context, req *types.SubmissionRequest) (*types.Candidate, error) {
	if err := migrateLegacy(req, s.config.AcceptLegacyPayloads); err != nil {
		return nil, err
	}

	if req.PersonalInfo == nil {
		return nil, badSubmission("personalInfo is required")
	}

	info := types.PersonalInfo{
		Name:  strings.TrimSpace(req.PersonalInfo.Name),
		Email: strings.TrimSpace(req.PersonalInfo.Email),
		Phone: strings.TrimSpace(req.PersonalInfo.Phone),
	}
	if errs := apply.ValidatePersonalInfo(info); len(errs) > 0 {
		return nil, badSubmission((&apply.ValidationError{Fields: errs}).Error())
	}

	candidate := &types.Candidate{
		Name:  info.Name,
		Email: info.Email,
		Phone: info.Phone,
	}

	if req.Resume != nil {
		candidate.ResumeURL = utils.NilIfBlank(req.Resume.FileURL)
	}

	if b := req.Behavioral; b != nil {
		candidate.BehavioralAnswer = utils.NilIfBlank(strings.TrimSpace(b.TextAnswer))
		candidate.AudioResponseURL = utils.NilIfBlank(b.AudioFileURL)
		candidate.VideoResponseURL = utils.NilIfBlank(b.VideoFileURL)
	}

	for _, ref := range []*string{candidate.ResumeURL, candidate.AudioResponseURL, candidate.VideoResponseURL} {
		if err := s.checkReference(ctx, ref); err != nil {
			return nil, err
		}
	}

	return candidate, nil
}

// checkReference makes sure a file reference points at a stored file.
func (s *Service) checkReference(ctx context.Context, ref *string) error {
	if ref == nil {
		return nil
	}

	ok, err := s.files.Exists(ctx, *ref)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			return badSubmission(fmt.Sprintf("invalid file reference %q", *ref))
		}
		return fmt.Errorf("failed to check file %s: %w", *ref, err)
	}
	if !ok {
		return badSubmission(fmt.Sprintf("file %q does not exist", *ref))
	}

	return nil
}

// migrateLegacy folds the legacy duplicate fields into the canonical
// behavioral block and clears them. Duplicates must agree with each other
// and with the canonical values; a payload with only legacy fields is
// accepted when accept is set.
func migrateLegacy(req *types.SubmissionRequest, accept bool) error {
	var nested *types.BehavioralRef
	if req.SubmissionData != nil {
		nested = req.SubmissionData.Behavioral
	}

	if nested == nil && req.BehavioralAnswer == nil && req.AudioResponseURL == nil && req.VideoResponseURL == nil {
		req.SubmissionData = nil
		return nil
	}

	if req.Behavioral == nil && !accept {
		return badSubmission("legacy payloads are not accepted, send behavioral instead")
	}

	canonical := req.Behavioral
	if canonical == nil {
		canonical = &types.BehavioralRef{}
	}

	var nestedText, nestedAudio, nestedVideo string
	if nested != nil {
		nestedText, nestedAudio, nestedVideo = nested.TextAnswer, nested.AudioFileURL, nested.VideoFileURL
	}

	text, err := agree("textAnswer", canonical.TextAnswer, nestedText, utils.PtrString(req.BehavioralAnswer))
	if err != nil {
		return err
	}
	audio, err := agree("audioFileUrl", canonical.AudioFileURL, nestedAudio, utils.PtrString(req.AudioResponseURL))
	if err != nil {
		return err
	}
	video, err := agree("videoFileUrl", canonical.VideoFileURL, nestedVideo, utils.PtrString(req.VideoResponseURL))
	if err != nil {
		return err
	}

	req.Behavioral = &types.BehavioralRef{TextAnswer: text, AudioFileURL: audio, VideoFileURL: video}
	req.SubmissionData = nil
	req.BehavioralAnswer = nil
	req.AudioResponseURL = nil
	req.VideoResponseURL = nil

	return nil
}

// agree returns the single non-empty value among values, or an error when
// two of them differ.
func agree(field string, values ...string) (string, error) {
	var picked string
	for _, v := range values {
		if v == "" {
			continue
		}
		if picked != "" && picked != v {
			return "", badSubmission(fmt.Sprintf("conflicting values for %s", field))
		}
		picked = v
	}
	return picked, nil
}
