package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bundle struct {
	Posts []string `json:"posts"`
	Note  string   `json:"note"`
}

func seedIDs() []string { return []string{"idea-1", "idea-2"} }

func TestKey_LoadMissingGivesDefault(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	got, err := NewKey("saved-books", seedIDs).Load(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, []string{"idea-1", "idea-2"}, got)

	empty, err := NewKey[[]string]("read-books", nil).Load(ctx, mem)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestKey_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	key := NewKey[[]string]("saved-books", nil)

	require.NoError(t, key.Save(ctx, mem, []string{"5", "2"}))

	got, err := key.Load(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "2"}, got)

	raw, ok, _ := mem.Load(ctx, "saved-books")
	require.True(t, ok)
	assert.JSONEq(t, `["5","2"]`, string(raw))
}

func TestKey_CorruptValueFallsBackToDefault(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `["5",`},
		{"wrong shape", `{"posts": 3}`},
		{"not json at all", `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mem := NewMemory()
			mem.Put("k", tt.raw)

			got, err := NewKey("k", seedIDs).Load(ctx, mem)
			assert.ErrorIs(t, err, ErrCorrupt)
			assert.Equal(t, seedIDs(), got)
		})
	}
}

func TestKey_StructuralMismatchOnBundle(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Put("planner", `["an", "old", "array"]`)

	key := NewKey("planner", func() bundle { return bundle{Note: "fresh"} })
	got, err := key.Load(ctx, mem)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, "fresh", got.Note)
}

type failingBackend struct{}

func (failingBackend) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}
func (failingBackend) Save(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestKey_BackendFailure(t *testing.T) {
	ctx := context.Background()
	key := NewKey("k", seedIDs)

	got, err := key.Load(ctx, failingBackend{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, seedIDs(), got)

	assert.Error(t, key.Save(ctx, failingBackend{}, []string{"x"}))
}

func TestMemory_CopiesData(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	data := []byte(`["1"]`)
	require.NoError(t, mem.Save(ctx, "k", data))
	data[2] = '9'

	got, _, _ := mem.Load(ctx, "k")
	assert.Equal(t, `["1"]`, string(got))
}

func TestSession_RoundTripAcrossRequests(t *testing.T) {
	ctx := context.Background()
	cookies := NewCookieStore("0123456789abcdef0123456789abcdef", 3600, false)
	key := NewKey[[]string]("saved-books", nil)

	// First request writes the value.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, key.Save(ctx, NewSession(cookies, req, rec), []string{"b1", "b3"}))

	// Same request sees its own write.
	got, err := key.Load(ctx, NewSession(cookies, req, rec))
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b3"}, got)

	resp := rec.Result()
	require.Len(t, resp.Cookies(), 1)
	assert.Equal(t, "saved-books", resp.Cookies()[0].Name)

	// A later request carrying the cookie reads it back.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(resp.Cookies()[0])
	got, err = key.Load(ctx, NewSession(cookies, next, httptest.NewRecorder()))
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b3"}, got)
}

func TestSession_TamperedCookieIsIgnored(t *testing.T) {
	ctx := context.Background()
	cookies := NewCookieStore("0123456789abcdef0123456789abcdef", 3600, false)
	key := NewKey("saved-books", seedIDs)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "saved-books", Value: "garbage"})
	rec := httptest.NewRecorder()

	got, err := key.Load(ctx, NewSession(cookies, req, rec))
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.True(t, Writable(err))
	assert.Equal(t, seedIDs(), got)

	// Writing replaces the broken cookie.
	require.NoError(t, key.Save(ctx, NewSession(cookies, req, rec), []string{"b2"}))
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestSQLite_RoundTripAndProfiles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	alice, err := OpenSQLite(path, "alice")
	require.NoError(t, err)
	t.Cleanup(func() { _ = alice.Close() })

	key := NewKey[[]string]("enrolled-courses", nil)
	require.NoError(t, key.Save(ctx, alice, []string{"2"}))
	require.NoError(t, key.Save(ctx, alice, []string{"2", "4"}))

	got, err := key.Load(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, got)

	keys, err := alice.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"enrolled-courses"}, keys)

	bob, err := OpenSQLite(path, "bob")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bob.Close() })

	got, err = key.Load(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, alice.Delete(ctx, "enrolled-courses"))
	keys, err = alice.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSession_DeleteExpiresScopedCookie(t *testing.T) {
	ctx := context.Background()
	cookies := NewCookieStore("0123456789abcdef0123456789abcdef", 3600, false)

	req := httptest.NewRequest(http.MethodPost, "/planner", nil)
	rec := httptest.NewRecorder()
	session := NewSession(cookies, req, rec).WithPath("/planner")
	require.NoError(t, session.Save(ctx, "notes", []byte("x")))
	written := rec.Result().Cookies()
	require.Len(t, written, 1)
	assert.Equal(t, "/planner", written[0].Path)

	next := httptest.NewRequest(http.MethodPost, "/planner", nil)
	next.AddCookie(written[0])
	rec = httptest.NewRecorder()
	require.NoError(t, Delete(ctx, NewSession(cookies, next, rec).WithPath("/planner"), "notes"))

	expired := rec.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Equal(t, "notes", expired[0].Name)
	assert.Equal(t, "/planner", expired[0].Path)
	assert.Negative(t, expired[0].MaxAge)

	// The store default path is untouched.
	assert.Equal(t, "/", cookies.Options.Path)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Put("k", "v")
	require.NoError(t, Delete(ctx, mem, "k"))
	_, ok, err := mem.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_BlanksWithoutDeleter(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Put("saved-books", `["b1"]`)
	b := struct{ Backend }{mem}

	require.NoError(t, Delete(ctx, b, "saved-books"))
	got, err := NewKey("saved-books", seedIDs).Load(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, seedIDs(), got)
}
