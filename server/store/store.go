package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/signgate/signgate/lib"
	"github.com/signgate/signgate/server/config"
)

// ErrNotFound is returned when no record exists for an id.
var ErrNotFound = errors.New("sign request not recorded")

// ErrClosed is returned by a store which has been closed.
var ErrClosed = errors.New("store is closed")

// New returns a new configured database.
func New(c config.Database) (RequestStorer, error) {
	switch c.Type {
	case "mysql", "sqlite":
		return newSQLStore(c)
	case "mem", "":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unable to create store with driver %s", c.Type)
}

// RequestStorer records sign requests created through the gateway for audit
// purposes.
type RequestStorer interface {
	Get(id string) (*RequestRecord, error)
	SetRecord(record *RequestRecord) error
	List(includeFinished bool) ([]*RequestRecord, error)
	SetStatus(id string, status lib.SignRequestStatus) error
	Close() error
}

// A RequestRecord is a representation of a sign request used by a RequestStorer.
type RequestRecord struct {
	ID         string                `json:"id" db:"id"`
	Name       string                `json:"name" db:"name"`
	ExternalID string                `json:"external_id" db:"external_id"`
	CreatedBy  string                `json:"created_by" db:"created_by"`
	Status     lib.SignRequestStatus `json:"status" db:"status"`
	Signers    StringSlice           `json:"signers" db:"signers"`
	CreatedAt  time.Time             `json:"created_at" db:"created_at"`
	ExpiresAt  *time.Time            `json:"expires_at" db:"expires_at"`
	Raw        string                `json:"-" db:"raw"`
}

const timeFormat = "2006-01-02 15:04:05 -0700"

// MarshalJSON implements the json.Marshaler interface for the CreatedAt and
// ExpiresAt fields.
// The resulting string looks like "2017-04-11 10:00:00 +0000"
func (r *RequestRecord) MarshalJSON() ([]byte, error) {
	type Alias RequestRecord
	var expires string
	if r.ExpiresAt != nil {
		expires = r.ExpiresAt.Format(timeFormat)
	}
	return json.Marshal(&struct {
		*Alias
		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at,omitempty"`
	}{
		Alias:     (*Alias)(r),
		CreatedAt: r.CreatedAt.Format(timeFormat),
		ExpiresAt: expires,
	})
}

// MakeRecord builds the record of a sign request created by createdBy at now.
// The expiry is taken from the service when it reports one and otherwise
// derived from days_valid.
func MakeRecord(sr *lib.SignRequest, createdBy string, now time.Time) *RequestRecord {
	rec := &RequestRecord{
		ID:         sr.ID,
		Name:       sr.Name,
		ExternalID: sr.ExternalID,
		CreatedBy:  createdBy,
		Status:     sr.Status,
		Signers:    StringSlice{},
		CreatedAt:  now.UTC(),
	}
	for _, s := range sr.Signers {
		rec.Signers = append(rec.Signers, s.Email)
	}
	switch {
	case sr.AutoExpireAt != nil:
		t := sr.AutoExpireAt.UTC()
		rec.ExpiresAt = &t
	case sr.DaysValid != nil:
		t := rec.CreatedAt.AddDate(0, 0, *sr.DaysValid)
		rec.ExpiresAt = &t
	}
	if raw, err := json.Marshal(sr); err == nil {
		rec.Raw = string(raw)
	}
	return rec
}

func finishedStatuses() []string {
	var s []string
	for _, st := range lib.SignRequestStatuses {
		if st.Finished() {
			s = append(s, string(st))
		}
	}
	return s
}
