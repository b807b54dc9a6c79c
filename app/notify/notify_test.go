package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPop_AcrossRedirect(t *testing.T) {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	req := httptest.NewRequest(http.MethodPost, "/c/books/items/b1/toggle/saved", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, Push(store, req, rec, OK("Saved!")))
	require.NoError(t, Push(store, req, rec, Note("")), "empty notices are skipped")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/c/books", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	got := Pop(store, next, httptest.NewRecorder())
	assert.Equal(t, []Notice{{Kind: Success, Message: "Saved!"}}, got)
}

func TestPop_Empty(t *testing.T) {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, Pop(store, req, httptest.NewRecorder()))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, Error, Fail("boom").Kind)
	assert.Equal(t, Info, Note("fyi").Kind)
	assert.True(t, Notice{}.IsZero())
}
