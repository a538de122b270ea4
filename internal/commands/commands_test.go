package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/pdfdigest/pkg/digest/config"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"pdfdigest"}, args...))
	return stdout.String(), stderr.String(), err
}

func useSQLite(t *testing.T) {
	t.Setenv("PDFDIGEST_STORE_DRIVER", "sqlite")
	t.Setenv("PDFDIGEST_SQLITE_PATH", filepath.Join(t.TempDir(), "digest.db"))
	t.Setenv("PDFDIGEST_DETECT_LANGUAGE", "false")
}

func TestRunSkipsUnreachableDocuments(t *testing.T) {
	useSQLite(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	manifestPath := filepath.Join(t.TempDir(), "links.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"missing": "`+srv.URL+`/missing.pdf"}`), 0o644))

	out, logs, err := runApp(t, "--log-format", "text", "run", "--manifest", manifestPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 0 of 1 documents")
	assert.Contains(t, logs, "extract pdf")

	out, _, err = runApp(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestRunRequiresManifest(t *testing.T) {
	useSQLite(t)

	_, _, err := runApp(t, "run")
	assert.Error(t, err)

	_, _, err = runApp(t, "run", "--manifest", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestShowMissingDocument(t *testing.T) {
	useSQLite(t)

	_, _, err := runApp(t, "show", "--url", "https://e.com/none.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no document stored")
}

func TestInvalidLogLevel(t *testing.T) {
	useSQLite(t)

	_, _, err := runApp(t, "--log-level", "chatty", "list")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LogConfig{Level: "warn", Format: "text"})
	logger.Info("hidden")
	logger.Warn("shown", "url", "https://e.com/a.pdf")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "url=https://e.com/a.pdf")

	buf.Reset()
	NewLogger(&buf, config.LogConfig{Level: "info", Format: "json"}).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
