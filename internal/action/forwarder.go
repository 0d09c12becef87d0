// AngelaMos | 2026
// forwarder.go

package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
	"github.com/carterperez-dev/templates/booking-backend/internal/middleware"
)

const (
	maxBodyBytes  = 1 << 20
	bookingIDSlot = "{bookingID}"
)

type route struct {
	method string
	path   string
	body   bool
}

// routes maps every legacy action name onto its REST route.
var routes = map[string]route{
	"signup":     {http.MethodPost, "/auth/signup", true},
	"login":      {http.MethodPost, "/auth/login", true},
	"verify_otp": {http.MethodPost, "/auth/verify-otp", true},
	"resend_otp": {http.MethodPost, "/auth/resend-otp", true},
	"logout":     {http.MethodPost, "/auth/logout", false},

	"get_sessions":   {http.MethodGet, "/auth/sessions", false},
	"get_profile":    {http.MethodGet, "/users/me", false},
	"update_profile": {http.MethodPut, "/users/me", true},

	"create_booking":        {http.MethodPost, "/bookings", true},
	"get_bookings":          {http.MethodGet, "/bookings", false},
	"get_statistics":        {http.MethodGet, "/bookings/statistics", false},
	"get_booking":           {http.MethodGet, "/bookings/" + bookingIDSlot, false},
	"get_booking_details":   {http.MethodGet, "/bookings/" + bookingIDSlot, false},
	"update_booking_status": {http.MethodPatch, "/bookings/" + bookingIDSlot + "/status", true},
	"update_booking":        {http.MethodPatch, "/bookings/" + bookingIDSlot + "/status", true},
	"cancel_booking":        {http.MethodPost, "/bookings/" + bookingIDSlot + "/cancel", false},
	"delete_booking":        {http.MethodDelete, "/bookings/" + bookingIDSlot, false},
}

// forwardedHeaders carry identity and client metadata onto the rewritten
// request. Everything else is dropped.
var forwardedHeaders = []string{
	"Authorization",
	middleware.SessionHeader,
	"Cookie",
	"User-Agent",
	"X-Forwarded-For",
	"X-Real-IP",
}

// Forwarder serves the single-endpoint action API by rewriting each
// request onto the REST router, so the same guards and handlers run.
type Forwarder struct {
	target http.Handler
	prefix string
}

func NewForwarder(target http.Handler, prefix string) *Forwarder {
	return &Forwarder{target: target, prefix: strings.TrimRight(prefix, "/")}
}

func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		core.BadRequest(w, "Invalid data")
		return
	}

	name := stringField(fields, "action")
	rt, ok := routes[name]
	if !ok {
		core.BadRequest(w, "Invalid action")
		return
	}

	path := f.prefix + rt.path
	if strings.Contains(path, bookingIDSlot) {
		id := stringField(fields, "booking_id")
		if id == "" {
			core.BadRequest(w, "Invalid booking ID")
			return
		}
		path = strings.Replace(path, bookingIDSlot, url.PathEscape(id), 1)
	}

	delete(fields, "action")
	delete(fields, "booking_id")

	var body io.Reader = http.NoBody
	if rt.body {
		payload, err := json.Marshal(fields)
		if err != nil {
			core.InternalServerError(w, r, fmt.Errorf("encode action body: %w", err))
			return
		}
		body = bytes.NewReader(payload)
	}

	// drop the routing state of the outer match so the target routes afresh
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, nil)

	req, err := http.NewRequestWithContext(ctx, rt.method, path, body)
	if err != nil {
		core.InternalServerError(w, r, fmt.Errorf("build action request: %w", err))
		return
	}

	for _, h := range forwardedHeaders {
		for _, v := range r.Header.Values(h) {
			req.Header.Add(h, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if id := middleware.GetRequestID(r.Context()); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}
	req.RemoteAddr = r.RemoteAddr

	slog.DebugContext(r.Context(), "forwarding action",
		"action", name,
		"method", rt.method,
		"path", path,
	)

	f.target.ServeHTTP(w, req)
}

// readFields merges query, form and JSON body fields, later sources
// winning. Form and query values become JSON strings.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	for k, v := range r.URL.Query() {
		fields[k] = quote(v[0])
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
				return nil, fmt.Errorf("parse form: %w", err)
			}
		} else if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		for k, v := range r.PostForm {
			fields[k] = quote(v[0])
		}
		return fields, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	maps.Copy(fields, doc)

	return fields, nil
}

// stringField reads a string or a bare number.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

func quote(s string) json.RawMessage {
	//nolint:errcheck // marshalling a string cannot fail
	b, _ := json.Marshal(s)
	return b
}
