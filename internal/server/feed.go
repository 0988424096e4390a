package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tartampluch/go-monthcal/internal/config"
)

// feed is one published version of the calendar.
type feed struct {
	body    []byte
	etag    string
	modTime time.Time // whole seconds, as HTTP dates carry no more
}

func newFeed(body []byte, now time.Time) *feed {
	sum := sha256.Sum256(body)
	return &feed{
		body:    body,
		etag:    fmt.Sprintf(config.FormatETag, hex.EncodeToString(sum[:])),
		modTime: now.UTC().Truncate(time.Second),
	}
}

func (f *feed) setHeaders(h http.Header) {
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, f.etag)
	h.Set(config.HeaderLastModified, f.modTime.Format(http.TimeFormat))
}

// unchanged reports whether the client already holds this version.
// If-None-Match wins over If-Modified-Since when both are sent.
func (f *feed) unchanged(r *http.Request) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == f.etag
	}
	since, err := http.ParseTime(r.Header.Get(config.HeaderIfModifiedSince))
	if err != nil {
		return false
	}
	return !f.modTime.After(since)
}

func (s *CalendarServer) authorized(r *http.Request) bool {
	if s.Token == "" {
		return true
	}
	got := r.URL.Query().Get(config.QueryToken)
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.Token)) == 1
}

// ServeHTTP answers feed requests. The token is checked before readiness so
// an unauthorized caller learns nothing about the feed.
func (s *CalendarServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	if !s.authorized(r) {
		slog.Warn(config.MsgTokenRejected,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRemote, r.RemoteAddr,
		)
		http.Error(w, config.HTTPMsgForbidden, http.StatusForbidden)
		return
	}

	f := s.current.Load()
	if f == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	f.setHeaders(w.Header())
	switch {
	case f.unchanged(r):
		w.WriteHeader(http.StatusNotModified)
	case r.Method == http.MethodHead:
		w.WriteHeader(http.StatusOK)
	default:
		if _, err := w.Write(f.body); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
