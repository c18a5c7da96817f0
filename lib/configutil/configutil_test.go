package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name"`
	Timeout int               `json:"timeout"`
	Token   string            `json:"token"`
	Sources map[string]string `json:"sources"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("CONFIGUTIL_TEST_TOKEN", "abc")
	t.Setenv("CONFIGUTIL_TEST_EMPTY", "")

	require.Equal(t, `"abc"`, string(ExpandEnv([]byte(`"${CONFIGUTIL_TEST_TOKEN}"`))))
	require.Equal(t, `""`, string(ExpandEnv([]byte(`"${CONFIGUTIL_TEST_EMPTY}"`))))
	require.Equal(t, `"$CONFIGUTIL_TEST_TOKEN"`, string(ExpandEnv([]byte(`"$CONFIGUTIL_TEST_TOKEN"`))))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	t.Setenv("CONFIGUTIL_TEST_TOKEN", "secret")
	writeFile(t, path, `{
		// defaults
		name: "check24",
		timeout: 30,
		token: "${CONFIGUTIL_TEST_TOKEN}",
		sources: { asaka: "https://back.asakabank.uz" },
	}`)

	config, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Name:    "check24",
		Timeout: 30,
		Token:   "secret",
		Sources: map[string]string{"asaka": "https://back.asakabank.uz"},
	}, config)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ timeout: 5 }`)
	config, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "check24", config.Name)
	require.Equal(t, 5, config.Timeout)

	writeFile(t, path, `{ name: `)
	_, err = ReadConfig[testConfig](path)
	require.Error(t, err)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	writeFile(t, filepath.Join(root, "recursive_test.json5"), `{ name: "found" }`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer os.Chdir(wd)

	config, err := ReadRecursively[testConfig]("recursive_test.json5")
	require.NoError(t, err)
	require.Equal(t, "found", config.Name)

	_, err = ReadRecursively[testConfig]("does_not_exist_anywhere.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}
