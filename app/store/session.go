package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionField = "v"

// Session keeps each key in its own signed browser cookie, so state stays on
// the visitor's device and one concern can never overwrite another. It is
// bound to a single request/response pair.
type Session struct {
	store sessions.Store
	r     *http.Request
	w     http.ResponseWriter
	path  string
}

func NewSession(store sessions.Store, r *http.Request, w http.ResponseWriter) *Session {
	return &Session{store: store, r: r, w: w}
}

// WithPath scopes the cookies this session writes to path, so the browser
// only sends them to the pages that read them.
func (s *Session) WithPath(path string) *Session {
	cp := *s
	cp.path = path
	return &cp
}

// NewCookieStore returns the cookie store used for device-local state.
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (s *Session) Load(_ context.Context, key string) ([]byte, bool, error) {
	sess, err := s.store.Get(s.r, key)
	if err != nil {
		// Get only fails when the cookie does not verify or decode.
		return nil, false, fmt.Errorf("%w: cookie %s: %v", ErrCorrupt, key, err)
	}
	raw, ok := sess.Values[sessionField].(string)
	if !ok {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

func (s *Session) Save(_ context.Context, key string, data []byte) error {
	sess, err := s.get(key)
	if err != nil {
		return err
	}
	sess.Values[sessionField] = string(data)
	return sess.Save(s.r, s.w)
}

// Delete expires the cookie holding key.
func (s *Session) Delete(_ context.Context, key string) error {
	sess, err := s.get(key)
	if err != nil {
		return err
	}
	delete(sess.Values, sessionField)
	sess.Options.MaxAge = -1
	return sess.Save(s.r, s.w)
}

// get returns the session for key with its own copy of the options. A cookie
// that fails to decode comes back as a fresh session, which writing replaces.
func (s *Session) get(key string) (*sessions.Session, error) {
	sess, err := s.store.Get(s.r, key)
	if sess == nil {
		return nil, err
	}
	opts := sessions.Options{Path: "/"}
	if sess.Options != nil {
		opts = *sess.Options
	}
	if s.path != "" {
		opts.Path = s.path
	}
	sess.Options = &opts
	return sess, nil
}
