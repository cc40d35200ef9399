package types

import (
	"errors"
	"time"
)

var ErrCandidateNotFound = errors.New("candidate not found")

// Candidate is a submitted application. Rows are written once and never
// updated.
type Candidate struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	Phone            string    `db:"phone" json:"phone"`
	ResumeURL        *string   `db:"resume_url" json:"resumeUrl"`
	BehavioralAnswer *string   `db:"behavioral_answer" json:"behavioralAnswer"`
	AudioResponseURL *string   `db:"audio_response_url" json:"audioResponseUrl"`
	VideoResponseURL *string   `db:"video_response_url" json:"videoResponseUrl"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}
