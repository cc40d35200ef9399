package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"aimploy/internal/apply"
	"aimploy/internal/storage"
	"aimploy/pkg/types"
)

// Largest accepted file is a video; the body carries it base64 encoded
// plus some JSON framing.
const (
	maxUploadFileBytes = apply.MaxVideoBytes
	maxUploadBodyBytes = (maxUploadFileBytes/3+1)*4 + 64<<10
)

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)

	var req types.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.rejectUpload(w, r, "File is too large")
			return
		}
		s.rejectUpload(w, r, "Invalid upload request")
		return
	}

	if req.Filename == "" || req.Data == "" {
		s.rejectUpload(w, r, "Filename and data are required")
		return
	}

	if err := storage.ValidateName(req.Filename); err != nil {
		s.rejectUpload(w, r, "Invalid filename")
		return
	}

	mediaType, data, err := storage.DecodeDataURL(req.Data)
	if err != nil {
		s.rejectUpload(w, r, "Invalid file data")
		return
	}

	if !acceptedUploadType(mediaType) {
		s.rejectUpload(w, r, "Unsupported file type")
		return
	}

	if len(data) > maxUploadFileBytes {
		s.rejectUpload(w, r, "File is too large")
		return
	}

	ref, err := s.files.Save(r.Context(), req.Filename, mediaType, data)
	if err != nil {
		logger.WithError(err).WithField("filename", req.Filename).Error("failed to store upload")
		s.metrics.upload(resultFailed, len(data))
		s.writeJSON(w, r, http.StatusInternalServerError, types.UploadResponse{Error: "Failed to process file upload"})
		return
	}

	s.metrics.upload(resultOK, len(data))
	logger.WithField("reference", ref).Info("file uploaded")

	s.writeJSON(w, r, http.StatusOK, types.UploadResponse{
		Success: true,
		FileURL: ref,
		Message: "File uploaded successfully",
	})
}

func (s *Service) rejectUpload(w http.ResponseWriter, r *http.Request, msg string) {
	s.metrics.upload(resultRejected, 0)
	s.writeJSON(w, r, http.StatusBadRequest, types.UploadResponse{Error: msg})
}

// acceptedUploadType admits the resume formats and any audio or video type.
func acceptedUploadType(mediaType string) bool {
	return slices.Contains(apply.ResumeContentTypes, mediaType) ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/")
}

// handleGetUpload serves a stored file from its public reference.
func (s *Service) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	obj, err := s.files.Open(r.Context(), storage.Reference(r.PathValue("name")))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			http.NotFound(w, r)
			return
		}
		s.requestLogger(r).WithError(err).Error("failed to open stored file")
		s.internalServerError(w)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}

	if _, err := io.Copy(w, obj.Body); err != nil {
		s.requestLogger(r).WithError(err).Warn("failed to stream stored file")
	}
}
