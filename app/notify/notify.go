// Package notify carries transient user feedback ("toasts") across the
// redirect that follows an action, using session flashes.
package notify

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
)

type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Error   Kind = "error"
)

type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func OK(msg string) Notice   { return Notice{Kind: Success, Message: msg} }
func Note(msg string) Notice { return Notice{Kind: Info, Message: msg} }
func Fail(msg string) Notice { return Notice{Kind: Error, Message: msg} }

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool { return n.Message == "" }

// SessionName is the cookie that carries queued notices.
const SessionName = "notices"

// Push queues a notice for the next page render.
func Push(store sessions.Store, r *http.Request, w http.ResponseWriter, n Notice) error {
	if n.IsZero() {
		return nil
	}
	sess, err := store.Get(r, SessionName)
	if sess == nil {
		return err
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	sess.AddFlash(string(raw))
	return sess.Save(r, w)
}

// Pop drains queued notices. Unreadable entries are dropped.
func Pop(store sessions.Store, r *http.Request, w http.ResponseWriter) []Notice {
	sess, _ := store.Get(r, SessionName)
	if sess == nil {
		return nil
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	notices := make([]Notice, 0, len(flashes))
	for _, f := range flashes {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		var n Notice
		if err := json.Unmarshal([]byte(raw), &n); err != nil || n.IsZero() {
			continue
		}
		notices = append(notices, n)
	}
	return notices
}
