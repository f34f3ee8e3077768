// internal/app/system/httpjson/httpjson.go

// Package httpjson renders the API's uniform response envelopes and decodes
// request bodies. Every success body is {"status":"success","data":...} and
// every error body is {"status":"error","message":...}; internals are logged
// server-side only.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/communa-dev/communa/internal/app/system/apierr"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // request bodies larger than 1 MiB are rejected

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Meta   any    `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// PageMeta describes offset pagination in list responses.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// OK writes a success envelope with the given status code.
func OK(w http.ResponseWriter, code int, data any) {
	write(w, code, successEnvelope{Status: "success", Data: data})
}

// Page writes a success envelope carrying list data plus pagination meta.
func Page(w http.ResponseWriter, data any, meta PageMeta) {
	write(w, http.StatusOK, successEnvelope{Status: "success", Data: data, Meta: meta})
}

// NoContent writes an empty success envelope (used by void operations).
func NoContent(w http.ResponseWriter) {
	write(w, http.StatusOK, successEnvelope{Status: "success"})
}

// Error classifies err via apierr and writes the error envelope. Internal
// errors are logged with full detail and surfaced with an opaque message.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apierr.KindOf(err)
	if kind == apierr.Internal && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	write(w, apierr.StatusCode(kind), errorEnvelope{
		Status:  "error",
		Message: apierr.PublicMessage(err),
	})
}

// Decode reads a JSON body into dst. Malformed or oversized bodies come back
// as apierr.Invalid so handlers can pass the error straight to Error.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierr.E(apierr.Invalid, "request body is required")
		}
		return apierr.Wrap(apierr.Invalid, "malformed request body", err)
	}
	return nil
}

func write(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
