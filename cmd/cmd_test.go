package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/widgetkit/internal/version"
	"github.com/conneroisu/widgetkit/pkg/inputfield"
)

func resetRenderFlags() {
	renderFixtures = ""
	renderSort, renderDesc = "", false
	renderSelect = nil
	renderSelectable, renderLoading, renderEmpty = false, false, false
	renderLabel, renderValue, renderType = "Label", "", "text"
	renderPlaceholder, renderHelper, renderError = "", "", ""
	renderVariant = variantValue(inputfield.VariantOutlined)
	renderSize = sizeValue(inputfield.SizeMedium)
	renderInvalid, renderDisabled, renderClearable, renderReveal = false, false, false, false
	renderIndex = 0
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	return cmd, &out
}

func TestEnumFlags(t *testing.T) {
	var variant variantValue
	var size sizeValue
	format := newFormatValue("text", "text", "json")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(&variant, "variant", "")
	fs.Var(&size, "size", "")
	addFormatFlag(fs, format)

	require.NoError(t, fs.Parse([]string{"--variant", "Ghost", "--size", "lg", "-o", "json"}))
	assert.Equal(t, "ghost", variant.String())
	assert.Equal(t, "lg", size.String())
	assert.Equal(t, "json", format.String())
	assert.Equal(t, "variant", variant.Type())

	assert.Error(t, fs.Parse([]string{"--variant", "neon"}))
	assert.Error(t, fs.Parse([]string{"--size", "xl"}))
	assert.Error(t, fs.Parse([]string{"--format", "yaml"}))
	assert.Equal(t, "ghost", variant.String(), "rejected values leave the flag unchanged")
}

func TestRenderTable(t *testing.T) {
	resetRenderFlags()
	defer resetRenderFlags()

	renderSort, renderDesc = "age", true
	cmd, out := testCommand()
	require.NoError(t, runRenderTable(cmd, nil))

	html := out.String()
	assert.True(t, strings.HasPrefix(html, `<div id="table"`))
	assert.Contains(t, html, `aria-sort="descending" data-column="age"`)
	assert.Less(t, strings.Index(html, "Dave"), strings.Index(html, "Alice"))
	assert.NotContains(t, html, "hx-post")
	assert.NotContains(t, html, `type="checkbox"`)
}

func TestRenderTableSelection(t *testing.T) {
	resetRenderFlags()
	defer resetRenderFlags()

	renderSelect = []int{0, 2}
	cmd, out := testCommand()
	require.NoError(t, runRenderTable(cmd, nil))
	assert.Equal(t, 2, strings.Count(out.String(), " checked"))

	renderSelect = []int{99}
	cmd, _ = testCommand()
	assert.Error(t, runRenderTable(cmd, nil))
}

func TestRenderTableStates(t *testing.T) {
	resetRenderFlags()
	defer resetRenderFlags()

	renderEmpty = true
	cmd, out := testCommand()
	require.NoError(t, runRenderTable(cmd, nil))
	assert.Contains(t, out.String(), ">No data</td>")

	renderEmpty, renderLoading = false, true
	cmd, out = testCommand()
	require.NoError(t, runRenderTable(cmd, nil))
	assert.Contains(t, out.String(), "Loading…")
	assert.NotContains(t, out.String(), "Alice")

	renderLoading, renderSort = false, "role"
	cmd, _ = testCommand()
	assert.ErrorContains(t, runRenderTable(cmd, nil), `no sortable column "role"`)
}

func TestRenderInput(t *testing.T) {
	resetRenderFlags()
	defer resetRenderFlags()

	renderType, renderValue, renderReveal = "password", "hunter2", true
	renderVariant = variantValue(inputfield.VariantFilled)
	cmd, out := testCommand()
	require.NoError(t, runRenderInput(cmd, nil))

	html := out.String()
	assert.Contains(t, html, `type="text"`)
	assert.Contains(t, html, `value="hunter2"`)
	assert.Contains(t, html, `aria-pressed="true"`)

	renderType = "text"
	cmd, _ = testCommand()
	assert.Error(t, runRenderInput(cmd, nil))
}

func TestRenderCarousel(t *testing.T) {
	resetRenderFlags()
	defer resetRenderFlags()

	renderIndex = 2
	cmd, out := testCommand()
	require.NoError(t, runRenderCarousel(cmd, nil))
	assert.Contains(t, out.String(), `data-index="2"`)
	assert.Contains(t, out.String(), "Vogue")

	renderIndex = 3
	cmd, _ = testCommand()
	assert.Error(t, runRenderCarousel(cmd, nil))
}

func TestAuditPasses(t *testing.T) {
	defer func() { auditFormat = newFormatValue("text", "text", "json") }()

	cmd, out := testCommand()
	require.NoError(t, runAuditCommand(cmd, nil), out.String())
	assert.Contains(t, out.String(), "20 widget states checked, 0 failing")

	require.NoError(t, auditFormat.Set("json"))
	cmd, out = testCommand()
	require.NoError(t, runAuditCommand(cmd, nil))

	var reports []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	assert.Len(t, reports, 20)
}

func TestVersionCommand(t *testing.T) {
	defer func() {
		versionFormat = newFormatValue("text", "text", "json")
		versionShort = false
	}()

	cmd, out := testCommand()
	require.NoError(t, runVersionCommand(cmd, nil))
	assert.Equal(t, "widgetkit "+version.GetShortVersion()+"\n", out.String())

	versionShort = true
	cmd, out = testCommand()
	require.NoError(t, runVersionCommand(cmd, nil))
	assert.Equal(t, version.GetVersion()+"\n", out.String())

	require.NoError(t, versionFormat.Set("json"))
	cmd, out = testCommand()
	require.NoError(t, runVersionCommand(cmd, nil))

	var info version.BuildInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, version.GetVersion(), info.Version)
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "render", "audit", "version"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, serveCmd.Flags().Lookup("watch"))
	assert.NotNil(t, renderInputCmd.Flags().Lookup("variant"))
}
