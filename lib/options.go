package lib

import (
	"encoding/json"
)

// SignRequestOptions holds the optional parameters for creating a sign
// request. Every field starts out unset. Unset fields are left out of the
// request entirely so the service applies its own defaults; a field set to
// false, zero or the empty string is sent as such.
//
// Setters return the receiver so calls can be chained:
//
//	opts := lib.NewSignRequestOptions().
//		SetName("Contract A").
//		SetDaysValid(14).
//		SetAreRemindersEnabled(false)
//
// A SignRequestOptions is not safe for concurrent use.
type SignRequestOptions struct {
	isDocumentPreparationNeeded *bool
	areTextSignaturesEnabled    *bool
	areDatesEnabled             *bool
	signatureColor              *SignatureColor
	emailSubject                *string
	emailMessage                *string
	areRemindersEnabled         *bool
	name                        *string
	prefillTags                 []PrefillTag
	daysValid                   *int
	externalID                  *string
	redirectURL                 *string
	declinedRedirectURL         *string
}

// NewSignRequestOptions returns an empty set of options.
func NewSignRequestOptions() *SignRequestOptions {
	return &SignRequestOptions{}
}

// IsDocumentPreparationNeeded reports whether the sender is taken into the
// builder flow to prepare the document. Nil when unset.
func (o *SignRequestOptions) IsDocumentPreparationNeeded() *bool {
	return o.isDocumentPreparationNeeded
}

// SetIsDocumentPreparationNeeded sets whether the sender is taken into the
// builder flow to prepare the document before it is sent.
func (o *SignRequestOptions) SetIsDocumentPreparationNeeded(v bool) *SignRequestOptions {
	o.isDocumentPreparationNeeded = &v
	return o
}

// AreTextSignaturesEnabled reports whether signatures generated by typing are
// allowed. Nil when unset; the service treats unset as true.
func (o *SignRequestOptions) AreTextSignaturesEnabled() *bool {
	return o.areTextSignaturesEnabled
}

// SetAreTextSignaturesEnabled sets whether typed signatures are allowed.
func (o *SignRequestOptions) SetAreTextSignaturesEnabled(v bool) *SignRequestOptions {
	o.areTextSignaturesEnabled = &v
	return o
}

// AreDatesEnabled reports whether signers may add dates. Nil when unset; the
// service treats unset as true.
func (o *SignRequestOptions) AreDatesEnabled() *bool {
	return o.areDatesEnabled
}

// SetAreDatesEnabled sets whether signers may add dates.
func (o *SignRequestOptions) SetAreDatesEnabled(v bool) *SignRequestOptions {
	o.areDatesEnabled = &v
	return o
}

// SignatureColor returns the forced signature color. Nil when unset.
func (o *SignRequestOptions) SignatureColor() *SignatureColor {
	return o.signatureColor
}

// SetSignatureColor forces the color of every signature.
func (o *SignRequestOptions) SetSignatureColor(v SignatureColor) *SignRequestOptions {
	o.signatureColor = &v
	return o
}

// EmailSubject returns the subject of the sign request email. Nil when unset.
func (o *SignRequestOptions) EmailSubject() *string {
	return o.emailSubject
}

// SetEmailSubject sets the subject of the sign request email. The service
// sanitizes it.
func (o *SignRequestOptions) SetEmailSubject(v string) *SignRequestOptions {
	o.emailSubject = &v
	return o
}

// EmailMessage returns the message included in the sign request email. Nil
// when unset.
func (o *SignRequestOptions) EmailMessage() *string {
	return o.emailMessage
}

// SetEmailMessage sets the message included in the sign request email.
// The service sanitizes it but keeps a small set of HTML tags:
// a, abbr, acronym, b, blockquote, code, em, i, ul, li, ol and strong.
// Custom styles are stripped and links are turned into real links.
func (o *SignRequestOptions) SetEmailMessage(v string) *SignRequestOptions {
	o.emailMessage = &v
	return o
}

// AreRemindersEnabled reports whether signers get reminder emails on days 3,
// 8, 13 and 18. Nil when unset.
func (o *SignRequestOptions) AreRemindersEnabled() *bool {
	return o.areRemindersEnabled
}

// SetAreRemindersEnabled sets whether signers get reminder emails.
func (o *SignRequestOptions) SetAreRemindersEnabled(v bool) *SignRequestOptions {
	o.areRemindersEnabled = &v
	return o
}

// Name returns the name of the sign request. Nil when unset.
func (o *SignRequestOptions) Name() *string {
	return o.name
}

// SetName sets the name of the sign request.
func (o *SignRequestOptions) SetName(v string) *SignRequestOptions {
	o.name = &v
	return o
}

// PrefillTags returns the prefill tags. A nil slice means unset; a non-nil
// empty slice is sent as an empty list.
func (o *SignRequestOptions) PrefillTags() []PrefillTag {
	return o.prefillTags
}

// SetPrefillTags sets the tags used to prefill sign related tags placed in
// the document, matched by PrefillTag.DocumentTagID. The slice is not copied.
// Passing nil unsets the field.
func (o *SignRequestOptions) SetPrefillTags(v []PrefillTag) *SignRequestOptions {
	o.prefillTags = v
	return o
}

// DaysValid returns the number of days after which an incomplete request
// expires. Nil when unset.
func (o *SignRequestOptions) DaysValid() *int {
	return o.daysValid
}

// SetDaysValid sets the number of days after which an incomplete request
// expires.
func (o *SignRequestOptions) SetDaysValid(v int) *SignRequestOptions {
	o.daysValid = &v
	return o
}

// ExternalID returns the caller defined reference id. Nil when unset.
func (o *SignRequestOptions) ExternalID() *string {
	return o.externalID
}

// SetExternalID sets a reference id from an external system the request is
// related to.
func (o *SignRequestOptions) SetExternalID(v string) *SignRequestOptions {
	o.externalID = &v
	return o
}

// RedirectURL returns the URL signers land on after signing. Nil when unset.
func (o *SignRequestOptions) RedirectURL() *string {
	return o.redirectURL
}

// SetRedirectURL sets the URL signers land on after signing.
func (o *SignRequestOptions) SetRedirectURL(v string) *SignRequestOptions {
	o.redirectURL = &v
	return o
}

// DeclinedRedirectURL returns the URL signers land on after declining. Nil
// when unset.
func (o *SignRequestOptions) DeclinedRedirectURL() *string {
	return o.declinedRedirectURL
}

// SetDeclinedRedirectURL sets the URL signers land on after declining.
func (o *SignRequestOptions) SetDeclinedRedirectURL(v string) *SignRequestOptions {
	o.declinedRedirectURL = &v
	return o
}

// AppendParamsAsJSON adds every set option to obj. Unset options are not
// written at all. A non-nil prefill tag slice is always written, even when
// empty.
func (o *SignRequestOptions) AppendParamsAsJSON(obj Object) {
	AddIfNotNull(obj, "is_document_preparation_needed", o.isDocumentPreparationNeeded)
	AddIfNotNull(obj, "are_text_signatures_enabled", o.areTextSignaturesEnabled)
	AddIfNotNull(obj, "are_dates_enabled", o.areDatesEnabled)
	if o.signatureColor != nil {
		obj.Add("signature_color", o.signatureColor.String())
	}
	AddIfNotNull(obj, "email_subject", o.emailSubject)
	AddIfNotNull(obj, "email_message", o.emailMessage)
	AddIfNotNull(obj, "are_reminders_enabled", o.areRemindersEnabled)
	AddIfNotNull(obj, "name", o.name)
	AddIfNotNull(obj, "days_valid", o.daysValid)
	AddIfNotNull(obj, "external_id", o.externalID)
	AddIfNotNull(obj, "redirect_url", o.redirectURL)
	AddIfNotNull(obj, "declined_redirect_url", o.declinedRedirectURL)

	if o.prefillTags != nil {
		tags := Array{}
		for _, tag := range o.prefillTags {
			tags.Add(tag.JSONObject())
		}
		obj.Add("prefill_tags", tags)
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (o *SignRequestOptions) MarshalJSON() ([]byte, error) {
	obj := Object{}
	o.AppendParamsAsJSON(obj)
	return json.Marshal(obj)
}

// wireOptions mirrors the keys written by AppendParamsAsJSON.
type wireOptions struct {
	IsDocumentPreparationNeeded *bool           `json:"is_document_preparation_needed"`
	AreTextSignaturesEnabled    *bool           `json:"are_text_signatures_enabled"`
	AreDatesEnabled             *bool           `json:"are_dates_enabled"`
	SignatureColor              *SignatureColor `json:"signature_color"`
	EmailSubject                *string         `json:"email_subject"`
	EmailMessage                *string         `json:"email_message"`
	AreRemindersEnabled         *bool           `json:"are_reminders_enabled"`
	Name                        *string         `json:"name"`
	PrefillTags                 *[]PrefillTag   `json:"prefill_tags"`
	DaysValid                   *int            `json:"days_valid"`
	ExternalID                  *string         `json:"external_id"`
	RedirectURL                 *string         `json:"redirect_url"`
	DeclinedRedirectURL         *string         `json:"declined_redirect_url"`
}

// UnmarshalJSON implements the json.Unmarshaler interface. Keys missing from
// the input, or set to null, stay unset.
func (o *SignRequestOptions) UnmarshalJSON(b []byte) error {
	var w wireOptions
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*o = SignRequestOptions{
		isDocumentPreparationNeeded: w.IsDocumentPreparationNeeded,
		areTextSignaturesEnabled:    w.AreTextSignaturesEnabled,
		areDatesEnabled:             w.AreDatesEnabled,
		signatureColor:              w.SignatureColor,
		emailSubject:                w.EmailSubject,
		emailMessage:                w.EmailMessage,
		areRemindersEnabled:         w.AreRemindersEnabled,
		name:                        w.Name,
		daysValid:                   w.DaysValid,
		externalID:                  w.ExternalID,
		redirectURL:                 w.RedirectURL,
		declinedRedirectURL:         w.DeclinedRedirectURL,
	}
	if w.PrefillTags != nil {
		o.prefillTags = *w.PrefillTags
		if o.prefillTags == nil {
			o.prefillTags = []PrefillTag{}
		}
	}
	return nil
}
