package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/respond"
	"github.com/mrussa/storefront/internal/service"
)

const maxBodyBytes = 1 << 20

// writeError maps service error kinds onto status codes. noun names the
// resource for 404 messages.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Entry, noun string, err error) {
	rid := RequestID(r)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respond.BadRequest(w, err.Error(), rid)
	case errors.Is(err, service.ErrInvalidReference):
		respond.BadRequest(w, "user does not exist", rid)
	case errors.Is(err, service.ErrNotFound):
		respond.NotFound(w, noun+" not found", rid)
	case errors.Is(err, service.ErrConflict):
		respond.Conflict(w, "email already registered", rid)
	case errors.Is(err, service.ErrDownstreamFault):
		respond.BadGateway(w, "failed to validate user", rid)
	case errors.Is(err, service.ErrDownstreamUnreachable):
		respond.Unavailable(w, "user service unavailable", rid)
	default:
		logger.WithFields(log.Fields{
			"request_id": rid,
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		respond.Internal(w, "internal error", rid)
	}
}

// decodeJSON reads exactly one JSON document from the body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", service.ErrInvalidInput)
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("%w: request body too large", service.ErrInvalidInput)
		}
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			return fmt.Errorf("%w: field %s: wrong type", service.ErrInvalidInput, ute.Field)
		}
		return fmt.Errorf("%w: malformed JSON body", service.ErrInvalidInput)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON body", service.ErrInvalidInput)
	}
	return nil
}
