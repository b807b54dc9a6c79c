package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/andybalholm/brotli"
)

const (
	// CookieChunkSize keeps one part under the 4096 byte cookie limit once
	// securecookie has signed and base64 encoded it.
	CookieChunkSize = 2000
	// CookieMaxChunks caps how many cookies a single value may spread over.
	CookieMaxChunks = 16
)

// ErrTooLarge is returned by Chunked.Save when a value does not fit in the
// allowed parts even after compression. Nothing is written in that case.
var ErrTooLarge = errors.New("store: value too large")

const manifestPrefix = "br:"

// Chunked stores values that outgrow a single entry of a size-limited
// backend such as a cookie. A value is brotli compressed and cut into parts
// stored under key.0, key.1 and so on; the entry under key itself holds a
// manifest with the part count. Entries without a manifest are returned as
// they are, so plain values written before chunking still load.
type Chunked struct {
	inner Backend
	size  int
	max   int
}

func NewChunked(inner Backend, size, maxParts int) *Chunked {
	return &Chunked{inner: inner, size: size, max: maxParts}
}

// Capacity is the most compressed bytes one value may occupy.
func (c *Chunked) Capacity() int {
	return c.size * c.max
}

func partKey(key string, i int) string {
	return key + "." + strconv.Itoa(i)
}

func (c *Chunked) Load(ctx context.Context, key string) ([]byte, bool, error) {
	head, ok, err := c.inner.Load(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if !bytes.HasPrefix(head, []byte(manifestPrefix)) {
		return head, true, nil
	}
	n, err := c.parts(head)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}

	var packed bytes.Buffer
	for i := range n {
		part, ok, err := c.inner.Load(ctx, partKey(key, i))
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, fmt.Errorf("%w: %s: part %d missing", ErrCorrupt, key, i)
		}
		packed.Write(part)
	}
	data, err := io.ReadAll(brotli.NewReader(&packed))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return data, true, nil
}

func (c *Chunked) Save(ctx context.Context, key string, data []byte) error {
	if len(data) == 0 {
		return c.Delete(ctx, key)
	}

	var packed bytes.Buffer
	w := brotli.NewWriterLevel(&packed, brotli.BestCompression)
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	n := (packed.Len() + c.size - 1) / c.size
	if n > c.max {
		return fmt.Errorf("%w: %s needs %d parts, limit %d", ErrTooLarge, key, n, c.max)
	}

	old := c.stored(ctx, key)
	raw := packed.Bytes()
	for i := range n {
		end := min((i+1)*c.size, len(raw))
		if err := c.inner.Save(ctx, partKey(key, i), raw[i*c.size:end]); err != nil {
			return err
		}
	}
	if err := c.inner.Save(ctx, key, []byte(manifestPrefix+strconv.Itoa(n))); err != nil {
		return err
	}
	return c.prune(ctx, key, n, old)
}

// Delete removes the manifest and every part it names.
func (c *Chunked) Delete(ctx context.Context, key string) error {
	old := c.stored(ctx, key)
	if err := Delete(ctx, c.inner, key); err != nil {
		return err
	}
	return c.prune(ctx, key, 0, old)
}

func (c *Chunked) parts(head []byte) (int, error) {
	n, err := strconv.Atoi(string(head[len(manifestPrefix):]))
	if err != nil {
		return 0, fmt.Errorf("bad manifest %q", head)
	}
	if n < 1 || n > c.max {
		return 0, fmt.Errorf("manifest names %d parts", n)
	}
	return n, nil
}

// stored is the part count of the current manifest, or the limit when the
// manifest is unreadable so every possible part gets cleaned up.
func (c *Chunked) stored(ctx context.Context, key string) int {
	head, ok, err := c.inner.Load(ctx, key)
	if err != nil {
		return c.max
	}
	if !ok || !bytes.HasPrefix(head, []byte(manifestPrefix)) {
		return 0
	}
	n, err := c.parts(head)
	if err != nil {
		return c.max
	}
	return n
}

func (c *Chunked) prune(ctx context.Context, key string, from, to int) error {
	for i := from; i < to; i++ {
		if err := Delete(ctx, c.inner, partKey(key, i)); err != nil {
			return err
		}
	}
	return nil
}
