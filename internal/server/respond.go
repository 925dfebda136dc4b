package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/mosaic/pkg/errors"
)

// maxBodyBytes bounds request bodies; manifests are the largest payload.
const maxBodyBytes = 8 << 20

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error code to an HTTP status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case code == errors.ErrCodeInvalidInput, code == errors.ErrCodeInvalidConfig,
		code == errors.ErrCodeInvalidManifest, code == errors.ErrCodeInvalidRect,
		code == errors.ErrCodeInvalidAxis, code == errors.ErrCodeInvalidItem:
		status = http.StatusBadRequest
	case code == errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
