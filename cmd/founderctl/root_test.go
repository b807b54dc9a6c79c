package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"founder-hub/app/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryOpener(mem *store.Memory) openFunc {
	return func(string, string) (store.Backend, func() error, error) {
		return mem, nil, nil
	}
}

func run(t *testing.T, open openFunc, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, open)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogs(t *testing.T) {
	out, err := run(t, memoryOpener(store.NewMemory()), "catalogs")
	require.NoError(t, err)
	assert.Contains(t, out, "courses")
	assert.Contains(t, out, "stage-launch")
}

func TestList_Filters(t *testing.T) {
	open := memoryOpener(store.NewMemory())

	out, err := run(t, open, "list", "courses", "--facet", "level=advanced")
	require.NoError(t, err)
	assert.Contains(t, out, "of 8 items")

	out, err = run(t, open, "list", "courses", "--search", "no such course")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing matches")

	_, err = run(t, open, "list", "courses", "--facet", "color=red")
	assert.Error(t, err)

	_, err = run(t, open, "list", "nope")
	assert.Error(t, err)
}

func TestToggleAndEnroll(t *testing.T) {
	mem := store.NewMemory()
	open := memoryOpener(mem)

	out, err := run(t, open, "toggle", "books", "saved", "b2")
	require.NoError(t, err)
	assert.Equal(t, "Saved!\n", out)

	out, err = run(t, open, "list", "books", "--tab", "saved")
	require.NoError(t, err)
	assert.Contains(t, out, "Zero to One")
	assert.Contains(t, out, "1 of 6 items")

	out, err = run(t, open, "toggle", "books", "saved", "b2")
	require.NoError(t, err)
	assert.Equal(t, "Removed\n", out)

	out, err = run(t, open, "enroll", "courses", "2")
	require.NoError(t, err)
	assert.Equal(t, "Successfully enrolled!\n", out)
	out, err = run(t, open, "enroll", "courses", "2")
	require.NoError(t, err)
	assert.Equal(t, "You are already enrolled in this course\n", out)

	_, err = run(t, open, "enroll", "books", "b1")
	assert.Error(t, err)
	_, err = run(t, open, "toggle", "books", "saved", "missing")
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	open := memoryOpener(store.NewMemory())
	for _, id := range []string{"i1", "i2", "i3", "i4"} {
		_, err := run(t, open, "toggle", "stage-idea", "completed", id)
		require.NoError(t, err)
	}

	out, err := run(t, open, "progress", "stage-idea")
	require.NoError(t, err)
	assert.Contains(t, out, "4/10 complete (40%)")
	assert.Contains(t, out, "[x] i1")
	assert.Contains(t, out, "[ ] i5")

	_, err = run(t, open, "progress", "books")
	assert.ErrorIs(t, err, errNotChecklist)
}

func TestSQLiteProfilesAreSeparate(t *testing.T) {
	db := filepath.Join(t.TempDir(), "state.db")

	_, err := run(t, openSQLite, "--db", db, "--profile", "alice", "toggle", "books", "saved", "b1")
	require.NoError(t, err)

	out, err := run(t, openSQLite, "--db", db, "--profile", "alice", "list", "books", "--tab", "saved")
	require.NoError(t, err)
	assert.Contains(t, out, "The Lean Startup")

	out, err = run(t, openSQLite, "--db", db, "--profile", "bob", "list", "books", "--tab", "saved")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing matches")
}
