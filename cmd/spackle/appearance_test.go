package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuul/spackle-ssh/internal/session"
)

func TestApplyAppearance_EmptyFlagsKeepSession(t *testing.T) {
	sess := session.Defaults()
	err := applyAppearance(&sess, "", "", "", "", "", "")
	require.NoError(t, err, "No flags should be a no-op")
	assert.Equal(t, session.Defaults(), sess, "Session should be untouched")
}

func TestApplyAppearance_NormalizesColors(t *testing.T) {
	sess := session.Defaults()
	err := applyAppearance(&sess, "FF0000", "#00ff00", "", "", "", "")
	require.NoError(t, err, "Valid colors should apply")
	assert.Equal(t, "#ff0000", sess.Background, "Background should normalize to lowercase #rrggbb")
	assert.Equal(t, "#00ff00", sess.Foreground, "Foreground should normalize to lowercase #rrggbb")
}

func TestApplyAppearance_RejectsBadColor(t *testing.T) {
	sess := session.Defaults()
	err := applyAppearance(&sess, "#f00", "", "", "", "", "")
	require.Error(t, err, "Short hex should be rejected")
	assert.Contains(t, err.Error(), "background", "Error should name the field")
	assert.Equal(t, session.DefaultBackground, sess.Background, "Rejected value should not apply")
}

func TestApplyAppearance_GeometryMustBeSupported(t *testing.T) {
	sess := session.Defaults()
	require.NoError(t, applyAppearance(&sess, "", "", "132x43", "", "", ""))
	assert.Equal(t, "132x43", sess.Geometry, "Supported geometry should apply")

	err := applyAppearance(&sess, "", "", "200x50", "", "", "")
	require.Error(t, err, "Unsupported geometry should be rejected")
	assert.Contains(t, err.Error(), "80x24", "Error should list the valid sizes")
}

func TestApplyAppearance_NumericRanges(t *testing.T) {
	sess := session.Defaults()
	require.NoError(t, applyAppearance(&sess, "", "", "", "5000", "12", ""))
	assert.Equal(t, "5000", sess.Scrollback)
	assert.Equal(t, "12", sess.FontSize)

	assert.Error(t, applyAppearance(&sess, "", "", "", "999999", "", ""),
		"Scrollback above the cap should be rejected")
	assert.Error(t, applyAppearance(&sess, "", "", "", "lots", "", ""),
		"Non-numeric scrollback should be rejected")
	assert.Error(t, applyAppearance(&sess, "", "", "", "", "4", ""),
		"Font size below the floor should be rejected")
	assert.Error(t, applyAppearance(&sess, "", "", "", "", "40", ""),
		"Font size above the cap should be rejected")
}

func TestApplyAppearance_CanonicalizesNumbers(t *testing.T) {
	sess := session.Defaults()
	require.NoError(t, applyAppearance(&sess, "", "", "", "007", "", ""))
	assert.Equal(t, "7", sess.Scrollback, "Numbers should store canonically")
}

func TestApplyAppearance_KeyPath(t *testing.T) {
	sess := session.Defaults()
	require.NoError(t, applyAppearance(&sess, "", "", "", "", "", "/home/alice/.ssh/id_rsa"))
	assert.Equal(t, "/home/alice/.ssh/id_rsa", sess.KeyPath, "Explicit key path should apply")

	require.NoError(t, applyAppearance(&sess, "", "", "", "", "", "default"))
	assert.Equal(t, session.DefaultKeyPath, sess.KeyPath, "The sentinel resets to the agent default")
}
