package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/csvconvert/internal/logging"
	"github.com/google/uuid"
)

// conversionIDHeader echoes the conversion ID so users can quote it in support requests.
const conversionIDHeader = "X-Conversion-ID"

// withConversion assigns a fresh conversion ID to the request context and
// the response headers.
func withConversion(w http.ResponseWriter, r *http.Request) context.Context {
	id := uuid.NewString()
	w.Header().Set(conversionIDHeader, id)
	return logging.WithConversionID(r.Context(), id)
}

// clientIP returns the IP portion of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
