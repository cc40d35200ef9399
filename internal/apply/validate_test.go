package apply

import (
	"testing"

	"aimploy/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePersonalInfo(t *testing.T) {
	tests := []struct {
		name   string
		info   types.PersonalInfo
		fields []string
	}{
		{name: "valid", info: jane},
		{name: "short name", info: types.PersonalInfo{Name: "J", Email: "jane@x.com", Phone: "1234567890"}, fields: []string{FieldName}},
		{name: "bad email", info: types.PersonalInfo{Name: "Jane", Email: "jane.x.com", Phone: "1234567890"}, fields: []string{FieldEmail}},
		{name: "display name email", info: types.PersonalInfo{Name: "Jane", Email: "Jane <jane@x.com>", Phone: "1234567890"}, fields: []string{FieldEmail}},
		{name: "undotted domain", info: types.PersonalInfo{Name: "Jane", Email: "a@b", Phone: "1234567890"}, fields: []string{FieldEmail}},
		{name: "localhost domain", info: types.PersonalInfo{Name: "Jane", Email: "jane@localhost", Phone: "1234567890"}, fields: []string{FieldEmail}},
		{name: "trailing dot domain", info: types.PersonalInfo{Name: "Jane", Email: "jane@x.", Phone: "1234567890"}, fields: []string{FieldEmail}},
		{name: "subdomain", info: types.PersonalInfo{Name: "Jane", Email: "jane@mail.x.co", Phone: "1234567890"}},
		{name: "short phone", info: types.PersonalInfo{Name: "Jane", Email: "jane@x.com", Phone: "12345"}, fields: []string{FieldPhone}},
		{name: "everything missing", info: types.PersonalInfo{}, fields: []string{FieldName, FieldEmail, FieldPhone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePersonalInfo(tt.info)

			got := make([]string, 0, len(errs))
			for k := range errs {
				got = append(got, k)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestValidateResumeContentTypes(t *testing.T) {
	for _, ct := range ResumeContentTypes {
		assert.NoError(t, ValidateResume(&File{Name: "r", ContentType: ct, Data: []byte("x")}), ct)
	}

	// parameters are ignored
	assert.NoError(t, ValidateResume(&File{Name: "r.txt", ContentType: "text/plain; charset=utf-8", Data: []byte("x")}))

	err := ValidateResume(&File{Name: "r.rtf", ContentType: "application/rtf", Data: []byte("x")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please upload a PDF, DOCX, or TXT file", verr.Fields[FieldResume])
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: FieldErrors{"phone": "bad phone", "email": "bad email"}}
	assert.Equal(t, "validation failed: email: bad email; phone: bad phone", err.Error())
}
