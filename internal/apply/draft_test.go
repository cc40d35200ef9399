package apply

import (
	"errors"
	"testing"

	"aimploy/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestDraftApplyTouchesOnlyGivenSlices(t *testing.T) {
	d := Draft{
		PersonalInfo: jane,
		Resume:       Uploaded("cv.pdf", "/uploads/1_cv.pdf"),
		Behavioral:   Behavioral{TextAnswer: "draft", Audio: Uploaded("a.webm", "/uploads/2_a.webm")},
	}

	text := "final"
	got := d.Apply(Update{Behavioral: &BehavioralUpdate{TextAnswer: &text}})

	assert.Equal(t, jane, got.PersonalInfo)
	assert.Equal(t, d.Resume, got.Resume)
	assert.Equal(t, "final", got.Behavioral.TextAnswer)
	assert.Equal(t, d.Behavioral.Audio, got.Behavioral.Audio)

	// the receiver is not modified
	assert.Equal(t, "draft", d.Behavioral.TextAnswer)
}

func TestDraftApplyMergesPersonalInfoFields(t *testing.T) {
	d := Draft{PersonalInfo: jane}

	got := d.Apply(Update{PersonalInfo: &types.PersonalInfo{Phone: "0987654321"}})

	assert.Equal(t, types.PersonalInfo{Name: "Jane Doe", Email: "jane@x.com", Phone: "0987654321"}, got.PersonalInfo)
}

func TestFileSlotStates(t *testing.T) {
	assert.Equal(t, "unset", FileSlot{}.State.String())
	assert.False(t, FileSlot{}.IsUploaded())

	up := Uploading("a.pdf")
	assert.Equal(t, UploadUploading, up.State)
	assert.Empty(t, up.Ref())

	failed := Failed("a.pdf", errors.New("boom"))
	assert.Equal(t, "boom", failed.Error)
	assert.Empty(t, failed.Ref())

	done := Uploaded("a.pdf", "/uploads/a.pdf")
	assert.True(t, done.IsUploaded())
	assert.Equal(t, "/uploads/a.pdf", done.Ref())
}

func TestBuildSubmission(t *testing.T) {
	d := Draft{
		PersonalInfo: jane,
		Resume:       Uploaded("cv.pdf", "/uploads/1_cv.pdf"),
		Behavioral: Behavioral{
			TextAnswer: "",
			Audio:      Uploaded("a.webm", "/uploads/2_a.webm"),
			Video:      Failed("v.mp4", nil),
		},
	}

	req := BuildSubmission(d, true)
	assert.Equal(t, &types.ResumeRef{FileName: "cv.pdf", FileURL: "/uploads/1_cv.pdf"}, req.Resume)
	assert.Equal(t, "/uploads/2_a.webm", req.Behavioral.AudioFileURL)
	assert.Empty(t, req.Behavioral.VideoFileURL)
	assert.Equal(t, "", *req.BehavioralAnswer)
	assert.Equal(t, "/uploads/2_a.webm", *req.AudioResponseURL)
	assert.Nil(t, req.VideoResponseURL)

	req = BuildSubmission(Draft{PersonalInfo: jane}, false)
	assert.Nil(t, req.Resume)
	assert.Nil(t, req.BehavioralAnswer)
	assert.Nil(t, req.AudioResponseURL)
}
