package server

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"aimploy/internal/utils"
	"aimploy/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/applications", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No applications have been submitted yet.")
}

func TestApplicationsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.candidates.CreateCandidate(ctx, &types.Candidate{
		Name: "Older Applicant", Email: "old@example.com", Phone: "1111111111",
	}))
	require.NoError(t, env.candidates.CreateCandidate(ctx, &types.Candidate{
		Name: "Newer Applicant", Email: "new@example.com", Phone: "2222222222",
		ResumeURL: utils.StringPtr("/uploads/2_cv.pdf"),
	}))

	rec := env.do(t, http.MethodGet, "/applications", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, "No applications have been submitted yet.")
	assert.Less(t, strings.Index(body, "Newer Applicant"), strings.Index(body, "Older Applicant"))
	assert.Contains(t, body, `href="/uploads/2_cv.pdf"`)
	assert.Contains(t, body, "View Resume")
	assert.Contains(t, body, "No resume")
}

func TestApplicationsStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.candidates.err = assert.AnError

	rec := env.do(t, http.MethodGet, "/applications", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
