package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicFS() fstest.MapFS {
	return fstest.MapFS{
		"help/conventions.md":       {Data: []byte("# Conventions\n\nroot and home")},
		"help/option-dry-run.txt":   {Data: []byte("Preview changes")},
		"help/nested/trackfile.txt": {Data: []byte("The trackfile")},
		"help/config.txxt":          {Data: []byte("Configuration")},
		"help/ignore.json":          {Data: []byte("{}")},
	}
}

func TestScan(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(topicFS(), Options{})
		require.NoError(t, tm.Scan())

		assert.Equal(t, []string{"conventions", "option-dry-run", "trackfile"}, tm.ListTopics())
		topic, ok := tm.GetTopic("trackfile")
		require.True(t, ok)
		assert.Equal(t, "The trackfile", topic.Content)
		assert.Equal(t, "help/nested/trackfile.txt", topic.FilePath)
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := New(topicFS(), Options{Extensions: []string{".txxt"}})
		require.NoError(t, tm.Scan())
		assert.Equal(t, []string{"config"}, tm.ListTopics())
	})
}

func TestGetTopic_FlagStyle(t *testing.T) {
	tm := New(topicFS(), Options{})
	require.NoError(t, tm.Scan())

	for _, name := range []string{"--dry-run", "dry-run", "option-dry-run"} {
		topic, ok := tm.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "Preview changes", topic.Content)
	}

	_, ok := tm.GetTopic("missing")
	assert.False(t, ok)
}

func TestWriteList(t *testing.T) {
	tm := New(topicFS(), Options{})
	require.NoError(t, tm.Scan())

	var buf bytes.Buffer
	tm.WriteList(&buf, "dots")
	out := buf.String()
	assert.Contains(t, out, "General topics:\n  conventions\n  trackfile\n")
	assert.Contains(t, out, "Option topics:\n  --dry-run\n")
	assert.Contains(t, out, "Use 'dots help <topic>'")

	empty := New(fstest.MapFS{}, Options{})
	require.NoError(t, empty.Scan())
	buf.Reset()
	empty.WriteList(&buf, "dots")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

type upperRenderer struct{}

func (upperRenderer) Render(content string, format string) string {
	return strings.ToUpper(content) + format
}

func TestInitialize_HelpCommand(t *testing.T) {
	root := &cobra.Command{Use: "dots"}
	root.AddCommand(&cobra.Command{Use: "link", Short: "Link dotfiles", Run: func(*cobra.Command, []string) {}})

	tm, err := Initialize(root, topicFS(), Options{Renderer: upperRenderer{}})
	require.NoError(t, err)
	require.NotNil(t, tm)

	run := func(args ...string) string {
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return buf.String()
	}

	assert.Equal(t, "THE TRACKFILE.txt", run("help", "trackfile"))
	assert.Contains(t, run("help", "topics"), "Available help topics:")
	assert.Contains(t, run("help", "link"), "Link dotfiles")
}

func TestGlamourRenderer_NonMarkdownUnchanged(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}
