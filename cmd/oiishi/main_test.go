package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oiishi/engine/loader"
	"github.com/Carmen-Shannon/oiishi/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestExportCmd_WritesGLB(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", "--dir", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "oishii_bottle.glb")
	assert.Contains(t, out, path)

	s, err := loader.NewLoader(loader.BackendTypeGLTF).Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Meshes, 17)
	assert.Len(t, s.Materials, 6)
}

func TestExportCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "export", "--dir", dir, "--json")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "oishii_bottle.gltf"))
}

func TestSnapshotCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bottle.png")
	_, err := run(t, "snapshot", "--out", path, "--width", "48", "--height", "32", "--frames", "2")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestSnapshotCmd_RejectsZeroSize(t *testing.T) {
	_, err := run(t, "snapshot", "--out", filepath.Join(t.TempDir(), "x.png"), "--width", "0")
	assert.Error(t, err)
}

func TestLabelCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.png")
	_, err := run(t, "label", "--out", path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestInspectCmd_Builtin(t *testing.T) {
	out, err := run(t, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "oishii_bottle.glb")
	assert.Contains(t, out, "meshes: 17  materials: 6")
}

func TestSpinCmd(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.yaml")

	out, err := run(t, "spin", "--state", state, "--email", "nope")
	assert.ErrorIs(t, err, storefront.ErrEmailInvalid)
	assert.Contains(t, out, "That email doesn't look right yet.")

	out, err = run(t, "spin", "--state", state, "--email", "cook@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Use code OIISHI")

	out, err = run(t, "spin", "--state", state, "--email", "cook@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Already played")
}

func TestSpinCmd_Dismiss(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.yaml")
	_, err := run(t, "spin", "--state", state, "--dismiss")
	require.NoError(t, err)

	out, err := run(t, "spin", "--state", state, "--email", "cook@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "dismissed")
}

func TestShopCmd(t *testing.T) {
	out, err := run(t, "shop", "--pack", "case", "--type", "subscribe", "--frequency", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "* case")
	assert.Contains(t, out, "every 2 months: $76.50")

	out, err = run(t, "shop")
	require.NoError(t, err)
	assert.Contains(t, out, "3-Pack, one-time: $48.00 (subscribe for $40.80)")

	_, err = run(t, "shop", "--pack", "crate")
	assert.ErrorIs(t, err, storefront.ErrUnknownPack)
}

func TestReviewsCmd(t *testing.T) {
	out, err := run(t, "reviews", "--rating", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "4.7 out of 5 (3 reviews)")
	assert.Contains(t, out, "Weeknight hero")
	assert.NotContains(t, out, "Instant flavor bomb")
}

func TestRecipesCmd(t *testing.T) {
	out, err := run(t, "recipes", "--use", "dip")
	require.NoError(t, err)
	assert.Contains(t, out, "karaage-sliders")
	assert.NotContains(t, out, "yakitori-skewers")

	out, err = run(t, "recipes", "--featured", "--product", "Spicy")
	require.NoError(t, err)
	assert.Contains(t, out, "midnight-yaki-udon")
	assert.NotContains(t, out, "karaage-sliders")

	out, err = run(t, "recipes", "yuzu-tofu-bowls")
	require.NoError(t, err)
	assert.Contains(t, out, "Press tofu ahead of time")

	out, err = run(t, "recipes", "--options")
	require.NoError(t, err)
	assert.Contains(t, out, "Original, Spicy, Yuzu, Smoked")

	_, err = run(t, "recipes", "missing")
	assert.ErrorIs(t, err, storefront.ErrRecipeNotFound)
}

func TestConfigFileApplies(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "oiishi.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("export:\n  dir: "+dir+"\n  file_name: custom.glb\n"), 0o644))

	_, err := run(t, "--config", cfgPath, "export")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "custom.glb"))
}
