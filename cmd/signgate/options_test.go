package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signgate/signgate/lib"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	requestFlags(fs)
	optionFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestBuildOptionsOnlyChanged(t *testing.T) {
	t.Parallel()
	o, err := buildOptions(parseFlags(t))
	require.NoError(t, err)
	obj := lib.Object{}
	o.AppendParamsAsJSON(obj)
	assert.Empty(t, obj)
}

func TestBuildOptions(t *testing.T) {
	t.Parallel()
	fs := parseFlags(t,
		"--name", "Lease",
		"--text-signatures=false",
		"--reminders=false",
		"--days-valid", "0",
		"--color", "Red",
		"--subject", "",
		"--prefill", "t1=hello",
		"--prefill", "t2=true",
		"--prefill", "t3=2026-05-01",
		"--prefill", "t4=a=b",
	)
	o, err := buildOptions(fs)
	require.NoError(t, err)
	obj := lib.Object{}
	o.AppendParamsAsJSON(obj)
	assert.Equal(t, lib.Object{
		"name":                        "Lease",
		"are_text_signatures_enabled": false,
		"are_reminders_enabled":       false,
		"days_valid":                  0,
		"signature_color":             "red",
		"email_subject":               "",
		"prefill_tags": lib.Array{
			lib.Object{"document_tag_id": "t1", "text_value": "hello"},
			lib.Object{"document_tag_id": "t2", "checkbox_value": true},
			lib.Object{"document_tag_id": "t3", "date_value": "2026-05-01"},
			lib.Object{"document_tag_id": "t4", "text_value": "a=b"},
		},
	}, obj)
}

func TestBuildOptionsErrors(t *testing.T) {
	t.Parallel()
	_, err := buildOptions(parseFlags(t, "--color", "green"))
	assert.Error(t, err)
	_, err = buildOptions(parseFlags(t, "--prefill", "novalue"))
	assert.Error(t, err)
	_, err = buildOptions(parseFlags(t, "--prefill", "=x"))
	assert.Error(t, err)
}

func TestParsePrefill(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want lib.PrefillTag
	}{
		{"a=false", lib.NewCheckboxPrefillTag("a", false)},
		{"a=1", lib.NewTextPrefillTag("a", "1")},
		{"a=", lib.NewTextPrefillTag("a", "")},
		{"a=2026-12-31", lib.NewDatePrefillTag("a", time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))},
		{"a=31/12/2026", lib.NewTextPrefillTag("a", "31/12/2026")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePrefill(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()
	fs := parseFlags(t,
		"--file", "100", "--file", "101",
		"--signer", "a@example.com",
		"--approver", "boss@example.com",
		"--final-copy-reader", "cc@example.com",
	)
	req, err := buildRequest(fs, "55")
	require.NoError(t, err)
	assert.Equal(t, []lib.FileRef{lib.File("100"), lib.File("101")}, req.SourceFiles)
	assert.Equal(t, lib.Folder("55"), req.ParentFolder)
	if assert.Len(t, req.Signers, 3) {
		assert.Equal(t, "a@example.com", req.Signers[0].Email)
		assert.Equal(t, lib.RoleSigner, *req.Signers[0].Role)
		assert.Equal(t, lib.RoleApprover, *req.Signers[1].Role)
		assert.Equal(t, lib.RoleFinalCopyReader, *req.Signers[2].Role)
	}
}

func TestBuildRequestFolderFlag(t *testing.T) {
	t.Parallel()
	req, err := buildRequest(parseFlags(t, "--file", "1", "--signer", "a@example.com", "--folder", "9"), "55")
	require.NoError(t, err)
	assert.Equal(t, lib.Folder("9"), req.ParentFolder)

	req, err = buildRequest(parseFlags(t, "--file", "1", "--signer", "a@example.com"), "")
	require.NoError(t, err)
	assert.Nil(t, req.ParentFolder)
}

func TestBuildRequestMissingFields(t *testing.T) {
	t.Parallel()
	_, err := buildRequest(parseFlags(t, "--signer", "a@example.com"), "")
	assert.Error(t, err)
	_, err = buildRequest(parseFlags(t, "--file", "1"), "")
	assert.Error(t, err)
}

func TestPrintRequest(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printRequest(&buf, &lib.SignRequest{
		ID:     "sr-1",
		Status: lib.StatusSent,
		Name:   "Lease",
		Signers: []lib.SignRequestSigner{
			{Email: "a@example.com"},
			{Email: "b@example.com", SignerDecision: &lib.SignerDecision{Type: "signed"}},
		},
	})
	assert.Equal(t, "sr-1\tsent\tLease\n\ta@example.com\tpending\n\tb@example.com\tsigned\n", buf.String())
}
