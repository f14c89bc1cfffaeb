package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tesseract", cfg.OCR.Engine)
	assert.Equal(t, 20, cfg.FontSize.Default)

	table, err := cfg.CorrectionTable()
	require.NoError(t, err)
	assert.Equal(t, "Qui però", table.Process("0ui pero"))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
canvas:
  width: 1024
ocr:
  engine: none
  language: eng
font_size:
  max: 64
corrections:
  teh: the
  adn: and
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Canvas.Width)
	assert.Equal(t, 400, cfg.Canvas.Height)
	assert.Equal(t, "none", cfg.OCR.Engine)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 12, cfg.FontSize.Min)
	assert.Equal(t, 64, cfg.FontSize.Max)

	table, err := cfg.CorrectionTable()
	require.NoError(t, err)
	corrections := table.Corrections()
	require.Len(t, corrections, 2)
	assert.Equal(t, "teh", corrections[0].Wrong)
	assert.Equal(t, "adn", corrections[1].Wrong)
	assert.Equal(t, "The cat and dog", table.Process("teh cat adn dog"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvOCREngine, "myscript")
	t.Setenv(EnvMyScriptKey, "app")
	t.Setenv(EnvMyScriptHMAC, "secret")

	cfg, err := Load(writeConfig(t, "ocr:\n  engine: tesseract\n"))
	require.NoError(t, err)
	assert.Equal(t, "myscript", cfg.OCR.Engine)
	assert.Equal(t, "app", cfg.MyScript.ApplicationKey)
	assert.Equal(t, "secret", cfg.MyScript.HMACKey)
}

func TestInvalidConfig(t *testing.T) {
	_, err := Load(writeConfig(t, "ocr:\n  engine: magic\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "font_size:\n  min: 50\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "canvas: [\n"))
	assert.Error(t, err)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/tmp/scrivi.yaml")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scrivi.yaml", p)
}
