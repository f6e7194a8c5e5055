package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Executes(t *testing.T) {
	setupCLITest(t)
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "aipsync version test-version-1.0.0")
}

func TestCategoriesCmd_ListsTable(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "categories")

	require.NoError(t, err)
	for _, want := range []string{"GEN", "ENR", "AD", "SUP", "/document-category/En-route-ENR", "(home page)", "display-name", "bare"} {
		assert.Contains(t, out, want)
	}
}

func TestConfigCmd_Show(t *testing.T) {
	setupCLITest(t)
	settings := newMockSettings()
	settings.settings.Publish.S3Bucket = "charts"
	settingsService = settings

	out, err := execute(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "base_url: https://www.aip.net.nz/")
	assert.Contains(t, out, "name: AIP New Zealand.pdf")
	assert.Contains(t, out, "workers: 1")
	assert.Contains(t, out, "s3: s3://charts/")
	assert.Contains(t, out, "interval: 24h0m0s")
}

func TestConfigCmd_ShowError(t *testing.T) {
	setupCLITest(t)
	settings := newMockSettings()
	settings.getErr = errors.New("bad base_url")
	settingsService = settings

	_, err := execute(t, "config")

	assert.ErrorContains(t, err, "bad base_url")
}

func TestConfigCmd_Set(t *testing.T) {
	setupCLITest(t)
	settings := newMockSettings()
	settingsService = settings

	out, err := execute(t, "config", "set", "sync.workers", "4")

	require.NoError(t, err)
	assert.Equal(t, "4", settings.set["sync.workers"])
	assert.Contains(t, out, "Set sync.workers to 4")

	settings.setErr = errors.New("invalid input")
	_, err = execute(t, "config", "set", "sync.workers", "x")
	assert.ErrorContains(t, err, "failed to set sync.workers")

	_, err = execute(t, "config", "set", "only-key")
	assert.Error(t, err)
}

func TestConfigCmd_Keys(t *testing.T) {
	setupCLITest(t)
	settingsService = newMockSettings()

	out, err := execute(t, "config", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "base_url\ndest\n")
}
