package types

type PersonalInfo struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Phone string `json:"phone" form:"phone"`
}

type ResumeRef struct {
	FileName string `json:"fileName,omitempty"`
	FileURL  string `json:"fileUrl,omitempty"`
}

type BehavioralRef struct {
	TextAnswer   string `json:"textAnswer"`
	AudioFileURL string `json:"audioFileUrl,omitempty"`
	VideoFileURL string `json:"videoFileUrl,omitempty"`
}

// SubmissionRequest is the body of POST /api/submit-application.
//
// PersonalInfo, Resume and Behavioral are the canonical schema. The
// remaining fields are duplicates older clients send alongside (or instead
// of) the canonical ones and are only read by the legacy migration.
type SubmissionRequest struct {
	PersonalInfo *PersonalInfo  `json:"personalInfo"`
	Resume       *ResumeRef     `json:"resume,omitempty"`
	Behavioral   *BehavioralRef `json:"behavioral,omitempty"`

	SubmissionData   *LegacySubmissionData `json:"submissionData,omitempty"`
	BehavioralAnswer *string               `json:"behavioralAnswer,omitempty"`
	AudioResponseURL *string               `json:"audioResponseUrl,omitempty"`
	VideoResponseURL *string               `json:"videoResponseUrl,omitempty"`
}

type LegacySubmissionData struct {
	Behavioral *BehavioralRef `json:"behavioral,omitempty"`
}

type SubmissionResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// UploadRequest is the body of POST /api/upload. Data is a base64 data URL.
type UploadRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	FileURL string `json:"fileUrl,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ApplicationReceipt is the copy of a submitted application kept by the
// form after the server accepted it.
type ApplicationReceipt struct {
	ID               string       `json:"id"`
	PersonalInfo     PersonalInfo `json:"personalInfo"`
	ResumeFileName   string       `json:"resumeFileName,omitempty"`
	ResumeFileURL    string       `json:"resumeFileUrl,omitempty"`
	BehavioralAnswer string       `json:"behavioralAnswer,omitempty"`
	AudioFileURL     string       `json:"audioFileUrl,omitempty"`
	VideoFileURL     string       `json:"videoFileUrl,omitempty"`
}
