package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/signgate/signgate/client"
	"github.com/signgate/signgate/lib"
	"github.com/signgate/signgate/server/config"
	"github.com/signgate/signgate/server/metrics"
	"github.com/signgate/signgate/server/store"
)

const maxBodySize = 1 << 20

type callerKey struct{}

// caller returns the name of the API key which authenticated r.
func caller(r *http.Request) string {
	name, _ := r.Context().Value(callerKey{}).(string)
	return name
}

func bearerToken(r *http.Request) string {
	ah := r.Header.Get("Authorization")
	if len(ah) > 7 && strings.EqualFold(ah[:7], "bearer ") {
		return ah[7:]
	}
	return ""
}

// authed rejects requests which do not carry one of the configured API keys.
func (a *app) authed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t := bearerToken(r); t != "" {
			for name, key := range a.config.APIKeys {
				if subtle.ConstantTimeCompare([]byte(t), []byte(key)) == 1 {
					metrics.M.APIAuth.WithLabelValues("ok").Inc()
					ctx := context.WithValue(r.Context(), callerKey{}, name)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
		}
		metrics.M.APIAuth.WithLabelValues("denied").Inc()
		writeError(w, http.StatusUnauthorized, "unauthorized", "a valid API key is required")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// writeError writes an error in the same shape as the upstream API so
// clients can decode either.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, &client.APIError{
		Type:       "error",
		StatusCode: status,
		Code:       code,
		Message:    message,
		RequestID:  w.Header().Get(requestIDHeader),
	})
}

// upstreamError relays an error from the sign request API.
func upstreamError(w http.ResponseWriter, op string, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		metrics.M.BoxRequests.WithLabelValues(op, strconv.Itoa(apiErr.StatusCode)).Inc()
		writeJSON(w, apiErr.StatusCode, apiErr)
		return
	}
	metrics.M.BoxRequests.WithLabelValues(op, "error").Inc()
	log.Printf("Error on %s: %v", op, err)
	writeError(w, http.StatusBadGateway, "bad_gateway", "unable to reach the sign request service")
}

// upstreamOK counts a successful call. The client does not expose the status
// of a success, so status is the code the API documents for op.
func upstreamOK(op string, status int) {
	metrics.M.BoxRequests.WithLabelValues(op, strconv.Itoa(status)).Inc()
}

// applyDefaults fills options the caller left unset from the configured
// defaults. Options the caller set, even to a zero value, are kept.
func applyDefaults(req *lib.CreateSignRequest, d *config.Defaults) {
	if d == nil {
		return
	}
	if req.Options == nil {
		req.Options = lib.NewSignRequestOptions()
	}
	o := req.Options
	if o.DaysValid() == nil && d.DaysValid != nil {
		o.SetDaysValid(*d.DaysValid)
	}
	if o.AreRemindersEnabled() == nil && d.AreRemindersEnabled != nil {
		o.SetAreRemindersEnabled(*d.AreRemindersEnabled)
	}
	if o.SignatureColor() == nil && d.SignatureColor != "" {
		if c, err := lib.ParseSignatureColor(d.SignatureColor); err == nil {
			o.SetSignatureColor(c)
		}
	}
	if o.EmailSubject() == nil && d.EmailSubject != "" {
		o.SetEmailSubject(d.EmailSubject)
	}
	if req.ParentFolder == nil && d.ParentFolderID != "" {
		req.ParentFolder = lib.Folder(d.ParentFolderID)
	}
}

func (a *app) createSignRequest(w http.ResponseWriter, r *http.Request) {
	req := &lib.CreateSignRequest{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "unable to decode request: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	applyDefaults(req, a.defaults)

	sr, err := a.box.CreateSignRequest(r.Context(), req)
	if err != nil {
		upstreamError(w, "create", err)
		return
	}
	upstreamOK("create", http.StatusCreated)
	rec := store.MakeRecord(sr, caller(r), a.now())
	if err := a.requests.SetRecord(rec); err != nil {
		metrics.M.Errs.WithLabelValues("store").Inc()
		log.Printf("Error recording sign request %s: %v", sr.ID, err)
	}
	writeJSON(w, http.StatusCreated, sr)
}

// recordStatus keeps the audit record in step with the upstream state.
// Requests created elsewhere have no record and are ignored.
func (a *app) recordStatus(sr *lib.SignRequest) {
	err := a.requests.SetStatus(sr.ID, sr.Status)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		metrics.M.Errs.WithLabelValues("store").Inc()
		log.Printf("Error updating sign request %s: %v", sr.ID, err)
	}
}

func (a *app) getSignRequest(w http.ResponseWriter, r *http.Request) {
	sr, err := a.box.GetSignRequest(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		upstreamError(w, "get", err)
		return
	}
	upstreamOK("get", http.StatusOK)
	a.recordStatus(sr)
	writeJSON(w, http.StatusOK, sr)
}

func (a *app) listSignRequests(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := a.box.ListSignRequests(r.Context(), r.URL.Query().Get("marker"), limit)
	if err != nil {
		upstreamError(w, "list", err)
		return
	}
	upstreamOK("list", http.StatusOK)
	writeJSON(w, http.StatusOK, list)
}

func (a *app) cancelSignRequest(w http.ResponseWriter, r *http.Request) {
	sr, err := a.box.CancelSignRequest(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		upstreamError(w, "cancel", err)
		return
	}
	upstreamOK("cancel", http.StatusOK)
	a.recordStatus(sr)
	writeJSON(w, http.StatusOK, sr)
}

func (a *app) resendSignRequest(w http.ResponseWriter, r *http.Request) {
	if err := a.box.ResendSignRequest(r.Context(), mux.Vars(r)["id"]); err != nil {
		upstreamError(w, "resend", err)
		return
	}
	upstreamOK("resend", http.StatusAccepted)
	w.WriteHeader(http.StatusAccepted)
}

func (a *app) getRecordsJSON(w http.ResponseWriter, r *http.Request) {
	includeFinished, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	recs, err := a.requests.List(includeFinished)
	if err != nil {
		metrics.M.Errs.WithLabelValues("store").Inc()
		writeError(w, http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (a *app) getRecordJSON(w http.ResponseWriter, r *http.Request) {
	rec, err := a.requests.Get(mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no record of this sign request")
		return
	}
	if err != nil {
		metrics.M.Errs.WithLabelValues("store").Inc()
		writeError(w, http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
