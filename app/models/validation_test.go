package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_EnumTags(t *testing.T) {
	v := NewValidator()

	post := Post{Platform: PlatformTwitter, Content: "hi", Status: StatusDraft}
	require.NoError(t, v.Struct(post))

	post.Status = "archived"
	assert.Error(t, v.Struct(post))

	post.Status, post.Platform = StatusDraft, "myspace"
	assert.Error(t, v.Struct(post))

	def := TrackerDef{Name: TrackerSaved, Key: "k", Mode: "pin", Label: "Save", Added: "Saved!"}
	assert.Error(t, v.Struct(def))
	def.Mode = ModeToggle
	assert.NoError(t, v.Struct(def))

	assert.Error(t, v.Struct(TabRule{Flag: "cheap"}))
	assert.NoError(t, v.Struct(TabRule{}))
}

func TestRegisterValidations_OnExistingValidator(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidations(v))
	assert.Error(t, v.Struct(Idea{Title: "x", Platform: "myspace"}))
	assert.NoError(t, v.Struct(Idea{Title: "x"}))
}
