package respond

import "net/http"

func BadRequest(w http.ResponseWriter, msg, reqID string) {
	Error(w, http.StatusBadRequest, "bad_request", msg, reqID)
}
func NotFound(w http.ResponseWriter, msg, reqID string) {
	Error(w, http.StatusNotFound, "not_found", msg, reqID)
}
func Conflict(w http.ResponseWriter, msg, reqID string) {
	Error(w, http.StatusConflict, "conflict", msg, reqID)
}
func BadGateway(w http.ResponseWriter, msg, reqID string) {
	Error(w, http.StatusBadGateway, "bad_gateway", msg, reqID)
}
func Unavailable(w http.ResponseWriter, msg, reqID string) {
	Error(w, http.StatusServiceUnavailable, "service_unavailable", msg, reqID)
}
func TooManyRequests(w http.ResponseWriter, msg, reqID string) {
	Error(w, http.StatusTooManyRequests, "too_many_requests", msg, reqID)
}
func Internal(w http.ResponseWriter, msg, reqID string) {
	Error(w, http.StatusInternalServerError, "internal", msg, reqID)
}
