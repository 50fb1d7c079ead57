package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModeRejectsUnknown(t *testing.T) {
	_, err := ParseMode("turbo")
	assert.Error(t, err)

	m, err := ParseMode("image")
	require.NoError(t, err)
	assert.Equal(t, ModeImage, m)
}

func TestParseFourCCRoundTrip(t *testing.T) {
	f, err := ParseFourCC("MJPG")
	require.NoError(t, err)
	assert.Equal(t, "MJPG", f.String())

	_, err = ParseFourCC("TOOLONG")
	assert.Error(t, err)
}

func TestIsEmptyOrComment(t *testing.T) {
	assert.True(t, isEmptyOrComment(""))
	assert.True(t, isEmptyOrComment("   "))
	assert.True(t, isEmptyOrComment("# a comment"))
	assert.True(t, isEmptyOrComment("   # indented comment"))
	assert.False(t, isEmptyOrComment("mode = blur"))
}

func TestParseKeyValue(t *testing.T) {
	key, value, ok := parseKeyValue("in-w = 1280")
	require.True(t, ok)
	assert.Equal(t, "in-w", key)
	assert.Equal(t, "1280", value)

	_, _, ok = parseKeyValue("no equals sign here")
	assert.False(t, ok)
}

func TestParseFileMissingIsNonFatal(t *testing.T) {
	values := ParseFile(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	assert.Empty(t, values)
}

func TestParseFileSkipsCommentsAndBadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spotlight.conf")
	content := "# header comment\nmode = image\n\nmalformed line\nin-w = 640\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	values := ParseFile(path)
	assert.Equal(t, "image", values["mode"])
	assert.Equal(t, "640", values["in-w"])
	assert.Len(t, values, 2)
}

func TestDefaultsMatchesConstants(t *testing.T) {
	def := Defaults()
	assert.Equal(t, ModeBlur, def.Mode)
	assert.Equal(t, DefaultInWidth, def.InWidth)
	assert.Equal(t, DefaultFaceTopK, def.Face.TopK)
	assert.Equal(t, "MJPG", def.InFmt.String())
}

func TestManagerLoadLayersFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spotlight.conf")
	require.NoError(t, os.WriteFile(path, []byte("mode = image\nin-w = 640\n"), 0o644))

	mgr := NewManager(path)
	require.NoError(t, mgr.BindFlags(pflag.NewFlagSet("test", pflag.ContinueOnError)))

	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, ModeImage, cfg.Mode)
	assert.Equal(t, 640, cfg.InWidth)
	assert.Equal(t, DefaultInHeight, cfg.InHeight)
}

func TestManagerLoadFlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spotlight.conf")
	require.NoError(t, os.WriteFile(path, []byte("in-w = 640\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("in-w", 0, "")
	require.NoError(t, flags.Set("in-w", "1920"))

	mgr := NewManager(path)
	require.NoError(t, mgr.BindFlags(flags))

	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.InWidth)
}

func TestManagerConfigPathDefaultsWhenEmpty(t *testing.T) {
	mgr := NewManager("")
	assert.Equal(t, DefaultConfigFile, mgr.ConfigPath())
}

func TestManagerGetSetSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spotlight.conf")

	mgr := NewManager(path)
	require.NoError(t, mgr.BindFlags(pflag.NewFlagSet("test", pflag.ContinueOnError)))
	_, err := mgr.Load()
	require.NoError(t, err)

	value, ok := mgr.Get("in-w")
	require.True(t, ok)
	assert.Equal(t, DefaultInWidth, value)

	_, ok = mgr.Get("not-a-real-key")
	assert.False(t, ok)

	require.NoError(t, mgr.Set("in-w", "640"))
	value, ok = mgr.Get("in-w")
	require.True(t, ok)
	assert.Equal(t, 640, value)

	assert.Error(t, mgr.Set("mode", "not-a-mode"))

	require.NoError(t, mgr.Save())
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "in-w = 640")
}

func TestManagerGetViperExposesUnderlyingInstance(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "spotlight.conf"))
	_, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, string(DefaultMode), mgr.GetViper().GetString("mode"))
}
