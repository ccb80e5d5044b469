package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl  string `json:"base_url"`
	PageSize int    `json:"page_size"`
	Nested   struct {
		File string `json:"file"`
	} `json:"nested"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0644)
	require.NoError(t, err)
}

func TestSplitExt(t *testing.T) {
	table := []struct {
		input  string
		prefix string
		ext    string
	}{
		{input: "bom.json5", prefix: "bom", ext: "json5"},
		{input: "bom.local.json5", prefix: "bom.local", ext: "json5"},
		{input: "bom", prefix: "bom", ext: ""},
	}
	for _, test := range table {
		prefix, ext := splitExt(test.input)
		require.Equal(t, test.prefix, prefix)
		require.Equal(t, test.ext, ext)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bom.json5"), `{
		// comments are allowed
		base_url: "https://data.chnm.org/bom",
		page_size: 100,
		nested: { file: "cache.db" },
	}`)
	writeFile(t, filepath.Join(dir, "bom.local.json5"), `{ page_size: 25 }`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "bom.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://data.chnm.org/bom", config.BaseUrl)
	require.Equal(t, 25, config.PageSize)
	require.Equal(t, "cache.db", config.Nested.File)
}

func TestReadConfigNotFound(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "bom.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeFile(t, filepath.Join(root, "bom.json5"), `{ page_size: 50 }`)

	config, err := ReadRecursively[testConfig](nested, "bom.json5")
	require.NoError(t, err)
	require.Equal(t, 50, config.PageSize)
}

func TestWithDefaults(t *testing.T) {
	defaults := testConfig{BaseUrl: "https://example.com", PageSize: 100}
	config, err := WithDefaults(testConfig{PageSize: 20}, defaults)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", config.BaseUrl)
	require.Equal(t, 20, config.PageSize)
}
