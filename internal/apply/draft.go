package apply

import (
	"aimploy/pkg/types"
)

// UploadState tracks a single file slot of the draft.
type UploadState uint8

const (
	UploadUnset UploadState = iota
	UploadUploading
	UploadUploaded
	UploadFailed
)

func (s UploadState) String() string {
	switch s {
	case UploadUnset:
		return "unset"
	case UploadUploading:
		return "uploading"
	case UploadUploaded:
		return "uploaded"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileSlot is the only record of a file in the draft. The bytes never live
// here; Reference is set only in the uploaded state and Error only in the
// failed state.
type FileSlot struct {
	State     UploadState `json:"state"`
	FileName  string      `json:"fileName,omitempty"`
	Reference string      `json:"reference,omitempty"`
	Error     string      `json:"error,omitempty"`
}

func Uploading(fileName string) FileSlot {
	return FileSlot{State: UploadUploading, FileName: fileName}
}

func Uploaded(fileName, reference string) FileSlot {
	return FileSlot{State: UploadUploaded, FileName: fileName, Reference: reference}
}

func Failed(fileName string, err error) FileSlot {
	slot := FileSlot{State: UploadFailed, FileName: fileName}
	if err != nil {
		slot.Error = err.Error()
	}
	return slot
}

func (s FileSlot) IsUploaded() bool {
	return s.State == UploadUploaded && s.Reference != ""
}

// Ref returns the reference path of an uploaded slot and "" otherwise.
func (s FileSlot) Ref() string {
	if !s.IsUploaded() {
		return ""
	}
	return s.Reference
}

type Behavioral struct {
	TextAnswer string   `json:"textAnswer"`
	Audio      FileSlot `json:"audio"`
	Video      FileSlot `json:"video"`
}

// Draft is the in-progress application held by the form.
type Draft struct {
	PersonalInfo types.PersonalInfo `json:"personalInfo"`
	Resume       FileSlot           `json:"resume"`
	Behavioral   Behavioral         `json:"behavioral"`
}

// Update is a partial change to a Draft. Nil slices leave the current value
// untouched.
type Update struct {
	PersonalInfo *types.PersonalInfo
	Resume       *FileSlot
	Behavioral   *BehavioralUpdate
}

type BehavioralUpdate struct {
	TextAnswer *string
	Audio      *FileSlot
	Video      *FileSlot
}

// Apply merges u into a copy of d, one merge function per slice.
func (d Draft) Apply(u Update) Draft {
	if u.PersonalInfo != nil {
		d.PersonalInfo = mergePersonalInfo(d.PersonalInfo, *u.PersonalInfo)
	}
	if u.Resume != nil {
		d.Resume = *u.Resume
	}
	if u.Behavioral != nil {
		d.Behavioral = mergeBehavioral(d.Behavioral, *u.Behavioral)
	}
	return d
}

// empty fields of next keep the current value
func mergePersonalInfo(current, next types.PersonalInfo) types.PersonalInfo {
	if next.Name != "" {
		current.Name = next.Name
	}
	if next.Email != "" {
		current.Email = next.Email
	}
	if next.Phone != "" {
		current.Phone = next.Phone
	}
	return current
}

func mergeBehavioral(current Behavioral, next BehavioralUpdate) Behavioral {
	if next.TextAnswer != nil {
		current.TextAnswer = *next.TextAnswer
	}
	if next.Audio != nil {
		current.Audio = *next.Audio
	}
	if next.Video != nil {
		current.Video = *next.Video
	}
	return current
}
