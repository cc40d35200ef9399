package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"aimploy/internal/apply"
	"aimploy/internal/utils"
	"aimploy/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wizard struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newWizard(t *testing.T, env *testEnv) *wizard {
	srv, c := env.browser(t)
	return &wizard{t: t, base: srv.URL, client: c}
}

func (wz *wizard) get(path string) (int, string) {
	resp, err := wz.client.Get(wz.base + path)
	require.NoError(wz.t, err)
	return resp.StatusCode, readBody(wz.t, resp)
}

func (wz *wizard) postForm(path string, values url.Values) (int, string) {
	resp, err := wz.client.PostForm(wz.base+path, values)
	require.NoError(wz.t, err)
	return resp.StatusCode, readBody(wz.t, resp)
}

func (wz *wizard) postMultipart(path string, fields map[string]string, files ...testFile) (int, string) {
	body, contentType := multipartBody(wz.t, fields, files...)
	resp, err := wz.client.Post(wz.base+path, contentType, body)
	require.NoError(wz.t, err)
	return resp.StatusCode, readBody(wz.t, resp)
}

func personalInfoForm(name string) url.Values {
	return url.Values{
		"name":  {name},
		"email": {"jane@example.com"},
		"phone": {"1234567890"},
	}
}

func TestWizardFullFlow(t *testing.T) {
	env := newTestEnv(t)
	wz := newWizard(t, env)

	status, page := wz.get("/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Personal Information")

	status, page = wz.postForm("/apply/personal-info", personalInfoForm("J"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, "Name must be at least 2 characters.")
	assert.Contains(t, page, `value="jane@example.com"`)

	status, page = wz.postForm("/apply/personal-info", personalInfoForm("Jane Doe"))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Resume Upload")

	status, page = wz.postMultipart("/apply/resume", nil, testFile{field: "resume", name: "photo.png", contentType: "image/png", data: []byte("png")})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, "Please upload a PDF, DOCX, or TXT file")

	// no declared type: the bytes are sniffed as a pdf
	status, page = wz.postMultipart("/apply/resume", nil, testFile{field: "resume", name: "resume.pdf", data: pdfBytes(1024)})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Behavioral Questions")

	status, page = wz.postMultipart("/apply/behavioral", map[string]string{"textAnswer": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, "Please provide at least one form of response")

	status, page = wz.postMultipart("/apply/behavioral", map[string]string{"textAnswer": "I want to join"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Application Submitted!")
	assert.Contains(t, page, "I want to join")
	assert.Contains(t, page, "resume.pdf")

	records := env.candidates.all()
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].Name)
	assert.Equal(t, "I want to join", utils.PtrString(records[0].BehavioralAnswer))
	require.NotNil(t, records[0].ResumeURL)

	ok, err := env.files.Exists(context.Background(), *records[0].ResumeURL)
	require.NoError(t, err)
	assert.True(t, ok)

	// the success step is terminal until the user starts over
	status, page = wz.get("/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Application Submitted!")

	status, page = wz.postForm("/apply/restart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Personal Information")
	assert.Contains(t, page, "Started a new application")
	assert.NotContains(t, page, "Jane Doe")
}

func TestWizardBackKeepsDraft(t *testing.T) {
	env := newTestEnv(t)
	wz := newWizard(t, env)

	_, page := wz.postForm("/apply/personal-info", personalInfoForm("Jane Doe"))
	require.Contains(t, page, "Resume Upload")

	status, page := wz.postForm("/apply/back", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Personal Information")
	assert.Contains(t, page, `value="Jane Doe"`)

	// back from the first step is a no-op
	_, page = wz.postForm("/apply/back", nil)
	assert.Contains(t, page, "Personal Information")
}

func TestWizardBackThenForwardKeepsResume(t *testing.T) {
	env := newTestEnv(t)
	wz := newWizard(t, env)

	wz.postForm("/apply/personal-info", personalInfoForm("Jane Doe"))
	_, page := wz.postMultipart("/apply/resume", nil, testFile{field: "resume", name: "resume.pdf", contentType: "application/pdf", data: pdfBytes(256)})
	require.Contains(t, page, "Behavioral Questions")

	_, page = wz.postForm("/apply/back", nil)
	require.Contains(t, page, "Resume Upload")
	assert.Contains(t, page, "resume.pdf")

	status, page := wz.postMultipart("/apply/resume", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Behavioral Questions")
	assert.NotContains(t, page, "Please select a file")

	status, page = wz.postMultipart("/apply/behavioral", map[string]string{"textAnswer": "I want to join"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Application Submitted!")

	records := env.candidates.all()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ResumeURL)
	assert.True(t, strings.HasSuffix(*records[0].ResumeURL, "_resume.pdf"))
}

func TestWizardBehavioralUploadFailureMessage(t *testing.T) {
	env := newTestEnv(t)
	wz := newWizard(t, env)

	wz.postForm("/apply/personal-info", personalInfoForm("Jane Doe"))
	_, page := wz.postMultipart("/apply/resume", nil, testFile{field: "resume", name: "cv.txt", contentType: "text/plain", data: []byte("cv")})
	require.Contains(t, page, "Behavioral Questions")

	env.service.files = failingStore{Store: env.files}

	status, page := wz.postMultipart("/apply/behavioral", nil, testFile{field: "audio", name: "a.webm", contentType: "audio/webm", data: []byte("audio")})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, "Error uploading files. Please try again.")
	assert.Empty(t, env.candidates.all())
}

func TestWizardIgnoresOutOfOrderPosts(t *testing.T) {
	env := newTestEnv(t)
	wz := newWizard(t, env)

	status, page := wz.postMultipart("/apply/behavioral", map[string]string{"textAnswer": "hello"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Personal Information")
	assert.Empty(t, env.candidates.all())
}

func TestWizardSubmitFailureStaysOnQuestions(t *testing.T) {
	env := newTestEnv(t)
	wz := newWizard(t, env)

	wz.postForm("/apply/personal-info", personalInfoForm("Jane Doe"))
	_, page := wz.postMultipart("/apply/resume", nil, testFile{field: "resume", name: "cv.txt", contentType: "text/plain", data: []byte("cv")})
	require.Contains(t, page, "Behavioral Questions")

	env.candidates.err = assert.AnError

	status, page := wz.postMultipart("/apply/behavioral",
		map[string]string{"textAnswer": "hello"},
		testFile{field: "audio", name: "a.webm", contentType: "audio/webm", data: []byte("audio")},
	)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, submitFailedMessage)
	assert.Contains(t, page, "hello")
	assert.Contains(t, page, "Uploaded: a.webm")

	// retry without re-sending the audio file; the earlier upload is reused
	env.candidates.err = nil
	status, page = wz.postMultipart("/apply/behavioral", map[string]string{"textAnswer": "hello"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Application Submitted!")

	records := env.candidates.all()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].AudioResponseURL)
	assert.True(t, strings.HasSuffix(*records[0].AudioResponseURL, "_a.webm"))
}

func TestWizardUploadFailureMarksSlot(t *testing.T) {
	env := newTestEnv(t)
	env.service.files = failingStore{Store: env.files}
	wz := newWizard(t, env)

	wz.postForm("/apply/personal-info", personalInfoForm("Jane Doe"))

	status, page := wz.postMultipart("/apply/resume", nil, testFile{field: "resume", name: "cv.pdf", contentType: "application/pdf", data: pdfBytes(64)})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, "Error uploading file. Please try again.")
	assert.Contains(t, page, "Resume Upload")
}

func TestTamperedCookieStartsFresh(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: env.service.config.DraftCookieName, Value: "garbage"})

	state := env.service.loadState(req)
	assert.Equal(t, apply.NewState(), state)
}

func TestCookieStateClipsText(t *testing.T) {
	long := strings.Repeat("é", maxCookieTextBytes)

	state := apply.NewState()
	state.Draft.Behavioral.TextAnswer = long
	state.Receipt = &types.ApplicationReceipt{BehavioralAnswer: long}

	clipped := cookieState(state)
	assert.LessOrEqual(t, len(clipped.Draft.Behavioral.TextAnswer), maxCookieTextBytes+3)
	assert.True(t, strings.HasSuffix(clipped.Receipt.BehavioralAnswer, "..."))

	// the caller's receipt is left alone
	assert.Equal(t, long, state.Receipt.BehavioralAnswer)
}
