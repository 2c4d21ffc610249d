package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/dialogs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, dialogs.Version+"\n", out)

	out, err = run(t, "", "version", "--short=false")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dialogs version "+dialogs.Version+" (go"), out)
}

func TestDialogsCommand(t *testing.T) {
	out, err := run(t, "", "dialogs", "--store", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "onboarding ")
	assert.Contains(t, out, "begin+continue+resume+end")
	assert.Contains(t, out, "onboarding.subscribe")
}

func TestChatAndConversations(t *testing.T) {
	dir := t.TempDir()
	store := []string{"--store", "file", "--store-dir", dir}

	out, err := run(t, "hi\nAda\n", append([]string{"chat", "--conversation", "demo", "--locale", "en-us"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome! Say anything to get started.")
	assert.Contains(t, out, "What should I call you?")
	assert.Contains(t, out, "Nice to meet you, **Ada**.")
	assert.Contains(t, out, "[Yes] [No]")

	out, err = run(t, "", append([]string{"conversations", "ls"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "- demo")

	out, err = run(t, "", append([]string{"conversations", "inspect", "demo", "--format", "json"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"onboarding.subscribe"`)

	out, err = run(t, "", append([]string{"conversations", "inspect", "demo", "--format", "mermaid"}, store...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD"), out)

	out, err = run(t, "yes\n", append([]string{"chat", "--conversation", "demo", "--locale", "en-us"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Done, you are subscribed.")

	out, err = run(t, "", append([]string{"conversations", "rm", "--all"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed conversation 'demo'")

	out, err = run(t, "", append([]string{"conversations", "ls"}, store...)...)
	require.NoError(t, err)
	assert.Equal(t, "No conversations found.\n", out)
}

func TestInspectRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "", "conversations", "inspect", "x", "--format", "yaml", "--store", "memory")
	assert.ErrorContains(t, err, "unknown format")
}

func TestInvalidStoreKind(t *testing.T) {
	_, err := run(t, "", "dialogs", "--store", "s3")
	assert.ErrorContains(t, err, "store.kind")
}

func TestRmCancelsActiveDialogs(t *testing.T) {
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("log-level", "") })
	store := []string{"--store", "file", "--store-dir", t.TempDir()}

	_, err := run(t, "hi\n", append([]string{"chat", "--conversation", "mid", "--locale", "en-us"}, store...)...)
	require.NoError(t, err)

	out, err := run(t, "", append([]string{"conversations", "rm", "mid", "--all=false", "--log-level", "debug"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "msg=dialog_end conversation_id=mid dialog_id=onboarding")
	assert.Contains(t, out, "reason=cancelled")
	assert.Contains(t, out, "Removed conversation 'mid'")

	_, err = run(t, "", append([]string{"conversations", "rm", "ghost", "--all=false"}, store...)...)
	assert.ErrorContains(t, err, "error removing 'ghost'")
}
