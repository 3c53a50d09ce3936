package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/signgate/signgate/lib"
)

const (
	flagFile                = "file"
	flagSigner              = "signer"
	flagApprover            = "approver"
	flagFinalCopyReader     = "final-copy-reader"
	flagFolder              = "folder"
	flagPrepare             = "prepare"
	flagTextSignatures      = "text-signatures"
	flagDates               = "dates"
	flagColor               = "color"
	flagSubject             = "subject"
	flagMessage             = "message"
	flagReminders           = "reminders"
	flagName                = "name"
	flagPrefill             = "prefill"
	flagDaysValid           = "days-valid"
	flagExternalID          = "external-id"
	flagRedirectURL         = "redirect-url"
	flagDeclinedRedirectURL = "declined-redirect-url"
)

// requestFlags registers the flags naming the files and recipients.
func requestFlags(fs *pflag.FlagSet) {
	fs.StringArray(flagFile, nil, "Id of a file to be signed (repeatable)")
	fs.StringArray(flagSigner, nil, "Email of a signer (repeatable)")
	fs.StringArray(flagApprover, nil, "Email of an approver (repeatable)")
	fs.StringArray(flagFinalCopyReader, nil, "Email of a recipient who only receives the signed copy (repeatable)")
	fs.String(flagFolder, "", "Folder the signed documents are saved to. Overrides parent_folder_id from the config file")
}

// buildRequest assembles a create request from the command line.
// defaultFolder is used when --folder is not given.
func buildRequest(fs *pflag.FlagSet, defaultFolder string) (*lib.CreateSignRequest, error) {
	files, _ := fs.GetStringArray(flagFile)
	req := &lib.CreateSignRequest{}
	for _, id := range files {
		req.SourceFiles = append(req.SourceFiles, lib.File(id))
	}
	for _, r := range []struct{ flag, role string }{
		{flagSigner, lib.RoleSigner},
		{flagApprover, lib.RoleApprover},
		{flagFinalCopyReader, lib.RoleFinalCopyReader},
	} {
		emails, _ := fs.GetStringArray(r.flag)
		for _, email := range emails {
			role := r.role
			req.Signers = append(req.Signers, lib.SignRequestSigner{Email: email, Role: &role})
		}
	}
	folder := defaultFolder
	if fs.Changed(flagFolder) {
		folder, _ = fs.GetString(flagFolder)
	}
	if folder != "" {
		req.ParentFolder = lib.Folder(folder)
	}
	opts, err := buildOptions(fs)
	if err != nil {
		return nil, err
	}
	req.Options = opts
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// optionFlags registers one flag per sign request option.
func optionFlags(fs *pflag.FlagSet) {
	fs.Bool(flagPrepare, false, "Open the document in the preparation flow before sending")
	fs.Bool(flagTextSignatures, true, "Allow typed signatures")
	fs.Bool(flagDates, true, "Allow signers to add dates")
	fs.String(flagColor, "", "Force the signature color - blue, black or red")
	fs.String(flagSubject, "", "Subject of the sign request email")
	fs.String(flagMessage, "", "Message included in the sign request email")
	fs.Bool(flagReminders, false, "Send reminder emails to signers")
	fs.String(flagName, "", "Name of the sign request")
	fs.StringArray(flagPrefill, nil, "Prefill a document tag, as tag_id=value (repeatable). true/false fill checkboxes, YYYY-MM-DD fills dates")
	fs.Int(flagDaysValid, 0, "Days until the request expires")
	fs.String(flagExternalID, "", "Reference id from an external system")
	fs.String(flagRedirectURL, "", "Where signers are sent after signing")
	fs.String(flagDeclinedRedirectURL, "", "Where signers are sent after declining")
}

// buildOptions copies the option flags that were given on the command line.
// Flags left at their defaults stay unset so the service decides.
func buildOptions(fs *pflag.FlagSet) (*lib.SignRequestOptions, error) {
	o := lib.NewSignRequestOptions()
	var err error
	getBool := func(name string, set func(bool) *lib.SignRequestOptions) {
		if err != nil || !fs.Changed(name) {
			return
		}
		var v bool
		if v, err = fs.GetBool(name); err == nil {
			set(v)
		}
	}
	getString := func(name string, set func(string) *lib.SignRequestOptions) {
		if err != nil || !fs.Changed(name) {
			return
		}
		var v string
		if v, err = fs.GetString(name); err == nil {
			set(v)
		}
	}

	getBool(flagPrepare, o.SetIsDocumentPreparationNeeded)
	getBool(flagTextSignatures, o.SetAreTextSignaturesEnabled)
	getBool(flagDates, o.SetAreDatesEnabled)
	getBool(flagReminders, o.SetAreRemindersEnabled)
	getString(flagSubject, o.SetEmailSubject)
	getString(flagMessage, o.SetEmailMessage)
	getString(flagName, o.SetName)
	getString(flagExternalID, o.SetExternalID)
	getString(flagRedirectURL, o.SetRedirectURL)
	getString(flagDeclinedRedirectURL, o.SetDeclinedRedirectURL)
	if err != nil {
		return nil, err
	}

	if fs.Changed(flagColor) {
		s, _ := fs.GetString(flagColor)
		c, err := lib.ParseSignatureColor(s)
		if err != nil {
			return nil, err
		}
		o.SetSignatureColor(c)
	}
	if fs.Changed(flagDaysValid) {
		d, err := fs.GetInt(flagDaysValid)
		if err != nil {
			return nil, err
		}
		o.SetDaysValid(d)
	}
	if fs.Changed(flagPrefill) {
		values, _ := fs.GetStringArray(flagPrefill)
		tags := make([]lib.PrefillTag, 0, len(values))
		for _, v := range values {
			tag, err := parsePrefill(v)
			if err != nil {
				return nil, err
			}
			tags = append(tags, tag)
		}
		o.SetPrefillTags(tags)
	}
	return o, nil
}

// parsePrefill parses a tag_id=value pair.
func parsePrefill(s string) (lib.PrefillTag, error) {
	id, value, ok := strings.Cut(s, "=")
	if !ok || id == "" {
		return lib.PrefillTag{}, errors.Errorf("invalid prefill %q, want tag_id=value", s)
	}
	if b, err := strconv.ParseBool(value); err == nil && (value == "true" || value == "false") {
		return lib.NewCheckboxPrefillTag(id, b), nil
	}
	if d, err := time.Parse(lib.DateFormat, value); err == nil {
		return lib.NewDatePrefillTag(id, d), nil
	}
	return lib.NewTextPrefillTag(id, value), nil
}
