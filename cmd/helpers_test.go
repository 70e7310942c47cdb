package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/pders01/prlink/internal/config"
	"github.com/pders01/prlink/internal/logger"
	"github.com/pders01/prlink/internal/scheme"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type fakeClipboard struct {
	got []string
	err error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.got = append(c.got, text)
	return nil
}

// setupCommandTest isolates config, storage, ambient detection and the
// clipboard for one test
func setupCommandTest(t *testing.T) *fakeClipboard {
	t.Helper()

	viper.Reset()
	config.SetDefaults()
	viper.Set("store.path", t.TempDir())
	t.Cleanup(viper.Reset)

	logger.InitializeTo(io.Discard, slog.LevelError)

	oldAmbient := detectAmbient
	detectAmbient = scheme.StaticAmbient(false)
	t.Cleanup(func() { detectAmbient = oldAmbient })

	cb := &fakeClipboard{}
	oldClipboard := clipboardWriter
	clipboardWriter = cb
	t.Cleanup(func() { clipboardWriter = oldClipboard })

	resetURLFlags()
	t.Cleanup(resetURLFlags)
	schemeJSON = false

	return cb
}

func resetURLFlags() {
	urlOrg, urlRepo, urlBase, urlHead, urlTitle = "", "", "", "", ""
	urlMode, urlTemplate, urlBody, urlBodyFile = "", "", "", ""
	urlCopy, urlNoInfer, urlJSON, urlToon = false, false, false, false
}

// capture points cmd's streams at fresh buffers
func capture(t *testing.T, cmd *cobra.Command) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	return out, errOut
}
