package lib

import (
	"encoding/json"
	"time"
)

// PrefillTag prefills a sign-related tag in the document content.
// DocumentTagID references the id of the tag placed in the document; exactly
// one of the value fields is normally set.
type PrefillTag struct {
	DocumentTagID *string
	TextValue     *string
	CheckboxValue *bool
	DateValue     *time.Time
}

// NewTextPrefillTag returns a tag prefilled with text.
func NewTextPrefillTag(documentTagID, text string) PrefillTag {
	return PrefillTag{DocumentTagID: &documentTagID, TextValue: &text}
}

// NewCheckboxPrefillTag returns a tag prefilled with a checkbox state.
func NewCheckboxPrefillTag(documentTagID string, checked bool) PrefillTag {
	return PrefillTag{DocumentTagID: &documentTagID, CheckboxValue: &checked}
}

// NewDatePrefillTag returns a tag prefilled with a date. Only the date part
// is sent.
func NewDatePrefillTag(documentTagID string, date time.Time) PrefillTag {
	return PrefillTag{DocumentTagID: &documentTagID, DateValue: &date}
}

// JSONObject returns the wire representation of the tag.
func (t PrefillTag) JSONObject() Object {
	obj := Object{}
	AddIfNotNull(obj, "document_tag_id", t.DocumentTagID)
	AddIfNotNull(obj, "text_value", t.TextValue)
	AddIfNotNull(obj, "checkbox_value", t.CheckboxValue)
	if t.DateValue != nil {
		obj.Add("date_value", t.DateValue.Format(DateFormat))
	}
	return obj
}

// MarshalJSON implements the json.Marshaler interface.
func (t PrefillTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.JSONObject())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *PrefillTag) UnmarshalJSON(b []byte) error {
	var raw struct {
		DocumentTagID *string `json:"document_tag_id"`
		TextValue     *string `json:"text_value"`
		CheckboxValue *bool   `json:"checkbox_value"`
		DateValue     *string `json:"date_value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = PrefillTag{
		DocumentTagID: raw.DocumentTagID,
		TextValue:     raw.TextValue,
		CheckboxValue: raw.CheckboxValue,
	}
	if raw.DateValue != nil {
		d, err := time.Parse(DateFormat, *raw.DateValue)
		if err != nil {
			return err
		}
		t.DateValue = &d
	}
	return nil
}
