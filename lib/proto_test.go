package lib

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSignRequestJSON(t *testing.T) {
	t.Parallel()
	role := RoleApprover
	order := 1
	r := &CreateSignRequest{
		SourceFiles:  []FileRef{File("12345")},
		Signers:      []SignRequestSigner{{Email: "a@example.com"}, {Email: "b@example.com", Role: &role, Order: &order}},
		ParentFolder: Folder("678"),
		Options:      NewSignRequestOptions().SetName("Lease").SetAreDatesEnabled(false),
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"source_files": [{"type": "file", "id": "12345"}],
		"signers": [
			{"email": "a@example.com"},
			{"email": "b@example.com", "role": "approver", "order": 1}
		],
		"parent_folder": {"type": "folder", "id": "678"},
		"name": "Lease",
		"are_dates_enabled": false
	}`, string(b))
}

func TestCreateSignRequestWithoutOptions(t *testing.T) {
	t.Parallel()
	r := &CreateSignRequest{
		SourceFiles: []FileRef{File("1")},
		Signers:     []SignRequestSigner{{Email: "a@example.com"}},
	}
	assert.Equal(t, Object{
		"source_files": Array{File("1")},
		"signers":      Array{Object{"email": "a@example.com"}},
	}, r.JSONObject())
}

func TestCreateSignRequestRoundTrip(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	body := []byte(`{
		"source_files": [{"type": "file", "id": "1"}],
		"signers": [{"email": "a@example.com", "is_in_person": false}],
		"are_reminders_enabled": false,
		"prefill_tags": [{"document_tag_id": "d", "date_value": "2026-01-02"}]
	}`)
	r := &CreateSignRequest{}
	require.NoError(t, json.Unmarshal(body, r))
	a.NoError(r.Validate())
	a.Nil(r.ParentFolder)
	if a.Len(r.Signers, 1) && a.NotNil(r.Signers[0].IsInPerson) {
		a.False(*r.Signers[0].IsInPerson)
	}
	require.NotNil(t, r.Options)
	if a.NotNil(r.Options.AreRemindersEnabled()) {
		a.False(*r.Options.AreRemindersEnabled())
	}
	a.Nil(r.Options.Name())
	if a.Len(r.Options.PrefillTags(), 1) {
		a.Equal(time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), *r.Options.PrefillTags()[0].DateValue)
	}

	out, err := json.Marshal(r)
	require.NoError(t, err)
	a.JSONEq(string(body), string(out))
}

func TestCreateSignRequestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		req  *CreateSignRequest
		want error
	}{
		{"no files", &CreateSignRequest{Signers: []SignRequestSigner{{Email: "a@example.com"}}}, errNoSourceFiles},
		{"no signers", &CreateSignRequest{SourceFiles: []FileRef{File("1")}}, errNoSigners},
		{"signer without email", &CreateSignRequest{SourceFiles: []FileRef{File("1")}, Signers: []SignRequestSigner{{}}}, errNoEmail},
		{"ok", &CreateSignRequest{SourceFiles: []FileRef{File("1")}, Signers: []SignRequestSigner{{Email: "a@example.com"}}}, nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Validate())
		})
	}
}

func TestSignRequestStatusFinished(t *testing.T) {
	t.Parallel()
	assert.False(t, StatusSent.Finished())
	assert.False(t, StatusConverting.Finished())
	assert.True(t, StatusSigned.Finished())
	assert.True(t, StatusCancelled.Finished())
	assert.True(t, StatusErrorSending.Finished())
}

func TestParseSignatureColor(t *testing.T) {
	t.Parallel()
	c, err := ParseSignatureColor(" Blue ")
	require.NoError(t, err)
	assert.Equal(t, SignatureColorBlue, c)
	_, err = ParseSignatureColor("green")
	assert.Error(t, err)
}

func TestPrefillTagJSON(t *testing.T) {
	t.Parallel()
	id := "only-id"
	assert.Equal(t, Object{"document_tag_id": "only-id"}, PrefillTag{DocumentTagID: &id}.JSONObject())

	tag := PrefillTag{}
	require.NoError(t, json.Unmarshal([]byte(`{"document_tag_id": "x", "checkbox_value": true}`), &tag))
	assert.Equal(t, NewCheckboxPrefillTag("x", true), tag)

	assert.Error(t, json.Unmarshal([]byte(`{"date_value": "05/03/2026"}`), &tag))
}
