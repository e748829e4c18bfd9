package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagtoad/scenegen/internal/dataset"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateThenValidate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")

	out, err := execute(t, "-o", dir, "-s", "64x48", "--seed", "3", "--manifest")
	require.NoError(t, err, out)
	assert.Contains(t, out, "=== Dataset Summary ===")
	total := len(dataset.RequiredNames()) + len(dataset.ExtraModes)
	assert.Contains(t, out, fmt.Sprintf("Images written:      %d", total))

	for _, name := range dataset.RequiredNames() {
		assert.FileExists(t, filepath.Join(dir, name+".jpg"))
	}
	assert.FileExists(t, filepath.Join(dir, dataset.ManifestFile))

	out, err = execute(t, "-o", dir, "-s", "64x48", "--validate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "All 6 required files present.")
}

func TestValidateOnlyIncomplete(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "single_image.jpg"), []byte("x"), 0644))

	out, err := execute(t, "-o", dir, "-v")
	assert.ErrorIs(t, err, errIncomplete)
	assert.Contains(t, out, "Missing 5 of 6 required files")

	_, err = os.Stat(filepath.Join(dir, "image_pair_1.jpg"))
	assert.True(t, os.IsNotExist(err), "validate-only must not generate")
}

func TestSkipWhenComplete(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "-o", dir, "-s", "32x32", "--seed", "1")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "single_image.jpg"))
	require.NoError(t, err)

	out, err := execute(t, "-o", dir, "-s", "32x32")
	require.NoError(t, err)
	assert.Contains(t, out, "skipping generation")

	after, err := os.Stat(filepath.Join(dir, "single_image.jpg"))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestForceRegenerates(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "-o", dir, "-s", "32x32", "--seed", "1")
	require.NoError(t, err)

	out, err := execute(t, "-o", dir, "-s", "32x32", "--seed", "2", "-f")
	require.NoError(t, err)
	assert.Contains(t, out, "Generating test images")
	assert.NotContains(t, out, "skipping generation")
}

func TestIncompleteDirectoryIsRegenerated(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	out, err := execute(t, "-o", dir, "-s", "32x32", "--format", "png")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(dir, "batch_image_3.png"))
}

func TestRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "-s", "nope")
	assert.Error(t, err)

	_, err = execute(t, "--format", "webp")
	assert.Error(t, err)

	_, err = execute(t, "unexpected-arg")
	assert.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
