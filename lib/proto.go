package lib

import (
	"encoding/json"
	"errors"
	"time"
)

// FileRef references a file by id.
type FileRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// File returns a reference to the file with the given id.
func File(id string) FileRef {
	return FileRef{Type: "file", ID: id}
}

// FolderRef references a folder by id.
type FolderRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Folder returns a reference to the folder with the given id.
func Folder(id string) *FolderRef {
	return &FolderRef{Type: "folder", ID: id}
}

// Signer roles.
const (
	RoleSigner          = "signer"
	RoleApprover        = "approver"
	RoleFinalCopyReader = "final_copy_reader"
)

// SignerDecision is the final decision a signer made.
type SignerDecision struct {
	Type        string    `json:"type"` // "signed" or "declined"
	FinalizedAt time.Time `json:"finalized_at"`
}

// SignRequestSigner is a recipient of a sign request.
// Only Email is required when creating a request. HasViewedDocument,
// SignerDecision and EmbedURL are filled in by the service.
type SignRequestSigner struct {
	Email                  string  `json:"email"`
	Role                   *string `json:"role,omitempty"`
	IsInPerson             *bool   `json:"is_in_person,omitempty"`
	Order                  *int    `json:"order,omitempty"`
	EmbedURLExternalUserID *string `json:"embed_url_external_user_id,omitempty"`
	RedirectURL            *string `json:"redirect_url,omitempty"`
	DeclinedRedirectURL    *string `json:"declined_redirect_url,omitempty"`
	LoginRequired          *bool   `json:"login_required,omitempty"`
	Password               *string `json:"password,omitempty"`

	HasViewedDocument bool            `json:"has_viewed_document,omitempty"`
	SignerDecision    *SignerDecision `json:"signer_decision,omitempty"`
	EmbedURL          string          `json:"embed_url,omitempty"`
}

// JSONObject returns the creation parameters of the signer.
func (s SignRequestSigner) JSONObject() Object {
	obj := Object{"email": s.Email}
	AddIfNotNull(obj, "role", s.Role)
	AddIfNotNull(obj, "is_in_person", s.IsInPerson)
	AddIfNotNull(obj, "order", s.Order)
	AddIfNotNull(obj, "embed_url_external_user_id", s.EmbedURLExternalUserID)
	AddIfNotNull(obj, "redirect_url", s.RedirectURL)
	AddIfNotNull(obj, "declined_redirect_url", s.DeclinedRedirectURL)
	AddIfNotNull(obj, "login_required", s.LoginRequired)
	AddIfNotNull(obj, "password", s.Password)
	return obj
}

// CreateSignRequest is the body of a create sign request call.
type CreateSignRequest struct {
	SourceFiles  []FileRef
	Signers      []SignRequestSigner
	ParentFolder *FolderRef
	Options      *SignRequestOptions
}

var (
	errNoSourceFiles = errors.New("at least one source file is required")
	errNoSigners     = errors.New("at least one signer is required")
	errNoEmail       = errors.New("every signer needs an email")
)

// Validate checks the required parameters. Options are not inspected.
func (r *CreateSignRequest) Validate() error {
	if len(r.SourceFiles) == 0 {
		return errNoSourceFiles
	}
	if len(r.Signers) == 0 {
		return errNoSigners
	}
	for _, s := range r.Signers {
		if s.Email == "" {
			return errNoEmail
		}
	}
	return nil
}

// JSONObject returns the request body.
func (r *CreateSignRequest) JSONObject() Object {
	obj := Object{}
	files := Array{}
	for _, f := range r.SourceFiles {
		files.Add(f)
	}
	obj.Add("source_files", files)
	signers := Array{}
	for _, s := range r.Signers {
		signers.Add(s.JSONObject())
	}
	obj.Add("signers", signers)
	if r.ParentFolder != nil {
		obj.Add("parent_folder", r.ParentFolder)
	}
	if r.Options != nil {
		r.Options.AppendParamsAsJSON(obj)
	}
	return obj
}

// MarshalJSON implements the json.Marshaler interface.
func (r *CreateSignRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.JSONObject())
}

// UnmarshalJSON implements the json.Unmarshaler interface. The options are
// read from the same object as the required parameters.
func (r *CreateSignRequest) UnmarshalJSON(b []byte) error {
	var base struct {
		SourceFiles  []FileRef           `json:"source_files"`
		Signers      []SignRequestSigner `json:"signers"`
		ParentFolder *FolderRef          `json:"parent_folder"`
	}
	if err := json.Unmarshal(b, &base); err != nil {
		return err
	}
	opts := &SignRequestOptions{}
	if err := json.Unmarshal(b, opts); err != nil {
		return err
	}
	*r = CreateSignRequest{
		SourceFiles:  base.SourceFiles,
		Signers:      base.Signers,
		ParentFolder: base.ParentFolder,
		Options:      opts,
	}
	return nil
}

// SignRequestStatus is the state of a sign request.
type SignRequestStatus string

// Sign request states.
const (
	StatusConverting      SignRequestStatus = "converting"
	StatusCreated         SignRequestStatus = "created"
	StatusSent            SignRequestStatus = "sent"
	StatusViewed          SignRequestStatus = "viewed"
	StatusSigned          SignRequestStatus = "signed"
	StatusCancelled       SignRequestStatus = "cancelled"
	StatusDeclined        SignRequestStatus = "declined"
	StatusErrorConverting SignRequestStatus = "error_converting"
	StatusErrorSending    SignRequestStatus = "error_sending"
	StatusExpired         SignRequestStatus = "expired"
	StatusFinalizing      SignRequestStatus = "finalizing"
	StatusErrorFinalizing SignRequestStatus = "error_finalizing"
)

// SignRequestStatuses lists every sign request state.
var SignRequestStatuses = []SignRequestStatus{
	StatusConverting, StatusCreated, StatusSent, StatusViewed, StatusSigned,
	StatusCancelled, StatusDeclined, StatusErrorConverting, StatusErrorSending,
	StatusExpired, StatusFinalizing, StatusErrorFinalizing,
}

// Finished reports whether the request can no longer change state.
func (s SignRequestStatus) Finished() bool {
	switch s {
	case StatusSigned, StatusCancelled, StatusDeclined, StatusExpired,
		StatusErrorConverting, StatusErrorSending, StatusErrorFinalizing:
		return true
	}
	return false
}

// SignFiles lists the signed documents.
type SignFiles struct {
	Files              []FileRef `json:"files"`
	IsReadyForDownload bool      `json:"is_ready_for_download"`
}

// SignRequest is a sign request as returned by the service.
type SignRequest struct {
	Type                string              `json:"type"`
	ID                  string              `json:"id"`
	Status              SignRequestStatus   `json:"status"`
	Name                string              `json:"name,omitempty"`
	PrepareURL          string              `json:"prepare_url,omitempty"`
	SigningLog          *FileRef            `json:"signing_log,omitempty"`
	SourceFiles         []FileRef           `json:"source_files"`
	ParentFolder        *FolderRef          `json:"parent_folder,omitempty"`
	Signers             []SignRequestSigner `json:"signers"`
	SignFiles           *SignFiles          `json:"sign_files,omitempty"`
	DaysValid           *int                `json:"days_valid,omitempty"`
	AutoExpireAt        *time.Time          `json:"auto_expire_at,omitempty"`
	ExternalID          string              `json:"external_id,omitempty"`
	RedirectURL         string              `json:"redirect_url,omitempty"`
	DeclinedRedirectURL string              `json:"declined_redirect_url,omitempty"`
	AreRemindersEnabled *bool               `json:"are_reminders_enabled,omitempty"`
	EmailSubject        string              `json:"email_subject,omitempty"`
	EmailMessage        string              `json:"email_message,omitempty"`
}

// SignRequestList is one page of sign requests.
type SignRequestList struct {
	Limit      int            `json:"limit"`
	NextMarker string         `json:"next_marker,omitempty"`
	Entries    []*SignRequest `json:"entries"`
}
