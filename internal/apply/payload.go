package apply

import (
	"aimploy/pkg/types"
)

// BuildSubmission turns a draft into the request sent to the submission
// endpoint. With legacy set, the top-level behavioralAnswer,
// audioResponseUrl and videoResponseUrl duplicates are included for servers
// that predate the canonical schema.
func BuildSubmission(d Draft, legacy bool) *types.SubmissionRequest {
	info := d.PersonalInfo

	req := &types.SubmissionRequest{
		PersonalInfo: &info,
		Behavioral: &types.BehavioralRef{
			TextAnswer:   d.Behavioral.TextAnswer,
			AudioFileURL: d.Behavioral.Audio.Ref(),
			VideoFileURL: d.Behavioral.Video.Ref(),
		},
	}

	if d.Resume.IsUploaded() {
		req.Resume = &types.ResumeRef{
			FileName: d.Resume.FileName,
			FileURL:  d.Resume.Reference,
		}
	}

	if legacy {
		text := d.Behavioral.TextAnswer
		req.BehavioralAnswer = &text
		req.AudioResponseURL = refPtr(d.Behavioral.Audio)
		req.VideoResponseURL = refPtr(d.Behavioral.Video)
	}

	return req
}

// Receipt is the denormalized copy of a draft kept after the server
// accepted it under id.
func Receipt(id string, d Draft) *types.ApplicationReceipt {
	return &types.ApplicationReceipt{
		ID:               id,
		PersonalInfo:     d.PersonalInfo,
		ResumeFileName:   d.Resume.FileName,
		ResumeFileURL:    d.Resume.Ref(),
		BehavioralAnswer: d.Behavioral.TextAnswer,
		AudioFileURL:     d.Behavioral.Audio.Ref(),
		VideoFileURL:     d.Behavioral.Video.Ref(),
	}
}

func refPtr(s FileSlot) *string {
	if !s.IsUploaded() {
		return nil
	}
	ref := s.Reference
	return &ref
}
