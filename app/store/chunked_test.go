package store

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prose returns n characters of text that compresses poorly.
func prose(seed uint64, n int) string {
	r := rand.New(rand.NewPCG(seed, seed+1))
	const letters = "abcdefghijklmnopqrstuvwxyz      .,ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var b strings.Builder
	for range n {
		b.WriteByte(letters[r.IntN(len(letters))])
	}
	return b.String()
}

func TestChunked_RoundTripAcrossParts(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	c := NewChunked(mem, 32, 64)
	value := []byte(prose(1, 600))

	require.NoError(t, c.Save(ctx, "planner", value))

	head, ok, _ := mem.Load(ctx, "planner")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(string(head), "br:"))
	_, ok, _ = mem.Load(ctx, "planner.1")
	assert.True(t, ok, "value should span several parts")

	got, ok, err := c.Load(ctx, "planner")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value, got)
}

func TestChunked_ShrinkingRemovesStaleParts(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	c := NewChunked(mem, 32, 64)

	require.NoError(t, c.Save(ctx, "planner", []byte(prose(2, 600))))
	require.NoError(t, c.Save(ctx, "planner", []byte(`{"posts":[]}`)))

	head, _, _ := mem.Load(ctx, "planner")
	assert.Equal(t, "br:1", string(head))
	for _, k := range []string{"planner.1", "planner.2"} {
		_, ok, _ := mem.Load(ctx, k)
		assert.False(t, ok, k)
	}

	got, _, err := c.Load(ctx, "planner")
	require.NoError(t, err)
	assert.Equal(t, `{"posts":[]}`, string(got))
}

func TestChunked_ReadsPlainValues(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Put("planner", `{"posts":[]}`)

	got, ok, err := NewChunked(mem, 32, 4).Load(ctx, "planner")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"posts":[]}`, string(got))
}

func TestChunked_MissingValue(t *testing.T) {
	got, ok, err := NewChunked(NewMemory(), 32, 4).Load(context.Background(), "planner")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestChunked_TooLargeWritesNothing(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	c := NewChunked(mem, 32, 2)
	require.NoError(t, c.Save(ctx, "planner", []byte("small")))

	err := c.Save(ctx, "planner", []byte(prose(3, 600)))
	require.ErrorIs(t, err, ErrTooLarge)

	got, _, err := c.Load(ctx, "planner")
	require.NoError(t, err)
	assert.Equal(t, "small", string(got))
}

func TestChunked_DamagedEntriesAreCorrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		damage func(*Memory)
	}{
		{"missing part", func(m *Memory) { _ = m.Delete(ctx, "planner.1") }},
		{"truncated part", func(m *Memory) {
			head, _, _ := m.Load(ctx, "planner")
			n, _ := strconv.Atoi(strings.TrimPrefix(string(head), "br:"))
			last := partKey("planner", n-1)
			part, _, _ := m.Load(ctx, last)
			m.Put(last, string(part[:len(part)-1]))
		}},
		{"unreadable manifest", func(m *Memory) { m.Put("planner", "br:many") }},
		{"manifest over the limit", func(m *Memory) { m.Put("planner", "br:999") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMemory()
			c := NewChunked(mem, 32, 64)
			require.NoError(t, c.Save(ctx, "planner", []byte(prose(4, 600))))
			tt.damage(mem)

			_, _, err := c.Load(ctx, "planner")
			assert.ErrorIs(t, err, ErrCorrupt)

			got, err := NewKey("planner", seedIDs).Load(ctx, c)
			assert.True(t, Writable(err))
			assert.Equal(t, seedIDs(), got)
		})
	}
}

func TestChunked_DeleteRemovesEveryPart(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	c := NewChunked(mem, 32, 64)
	require.NoError(t, c.Save(ctx, "planner", []byte(prose(5, 600))))

	require.NoError(t, c.Delete(ctx, "planner"))

	mem.mu.RLock()
	defer mem.mu.RUnlock()
	assert.Empty(t, mem.entries)
}

func TestChunked_CookiesHoldAFullPlanner(t *testing.T) {
	ctx := context.Background()
	cookies := NewCookieStore("0123456789abcdef0123456789abcdef", 3600, false)
	type post struct {
		Platform string `json:"platform"`
		Content  string `json:"content"`
	}
	key := NewKey[[]post]("social-media-planner", nil)

	var posts []post
	for i := range 20 {
		posts = append(posts, post{Platform: "linkedin", Content: prose(uint64(10+i), 300)})
	}
	posts = append(posts, post{Platform: "twitter", Content: prose(99, 2200)})

	req := httptest.NewRequest(http.MethodPost, "/planner/posts", nil)
	rec := httptest.NewRecorder()
	backend := NewChunked(NewSession(cookies, req, rec).WithPath("/planner"), CookieChunkSize, CookieMaxChunks)
	require.NoError(t, key.Save(ctx, backend, posts))

	written := rec.Result().Cookies()
	assert.Greater(t, len(written), 2)
	for _, c := range written {
		assert.Less(t, len(c.String()), 4096, c.Name)
		assert.Equal(t, "/planner", c.Path)
	}

	next := httptest.NewRequest(http.MethodGet, "/planner", nil)
	for _, c := range written {
		next.AddCookie(c)
	}
	backend = NewChunked(NewSession(cookies, next, httptest.NewRecorder()), CookieChunkSize, CookieMaxChunks)
	got, err := key.Load(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, posts, got)
}
