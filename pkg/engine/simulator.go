package engine

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/getmockd/mockapi/pkg/model"
)

// Response is a fully materialized mock response, ready to be written.
type Response struct {
	Status int
	Header http.Header
	Body   json.RawMessage
	Delay  time.Duration
}

// Materialize builds the response for ep. Global default headers are applied
// first and endpoint headers override them; keys are canonicalized so the
// override is case-insensitive. The body is passed through untouched.
func Materialize(ep *model.Endpoint, settings *model.GlobalSettings) *Response {
	resp := &Response{
		Status: ep.Response.Status,
		Header: make(http.Header),
		Body:   ep.Response.Body,
		Delay:  ep.Response.DelayDuration(),
	}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	if settings != nil {
		setHeaders(resp.Header, settings.DefaultHeaders)
	}
	setHeaders(resp.Header, ep.Response.Headers)
	return resp
}

// setHeaders applies src in key order, so colliding spellings of one name
// always resolve the same way.
func setHeaders(dst http.Header, src map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(src)) {
		dst.Set(k, src[k])
	}
}

// Write copies the response onto w. An empty body writes headers and status only.
func (resp *Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range resp.Header {
		h[k] = append([]string(nil), vs...)
	}
	if len(resp.Body) > 0 && h.Get("Content-Type") == "" {
		h.Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) == 0 {
		return nil
	}
	_, err := w.Write(resp.Body)
	return err
}

// Wait blocks for d or until ctx is done. It reports false if ctx ended first.
func Wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
