package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/metricmind/internal/llm"
)

// httpStatus maps a pipeline run error to a response status. A model gateway
// failure is the upstream's fault, not ours.
func httpStatus(err error) int {
	var gatewayErr *llm.GatewayError
	if errors.As(err, &gatewayErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
