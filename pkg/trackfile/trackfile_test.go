package trackfile

import (
	"strings"
	"testing"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const path = "/state/dots/trackfile.toml"

func TestLoad_Missing(t *testing.T) {
	fs := afero.NewMemMapFs()
	tf, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, 0, tf.Len())
	assert.False(t, tf.Exists())
}

func TestLoad_Blank(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, path, []byte("  \n"), 0644))
	tf, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, 0, tf.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	tf, err := Load(fs, path)
	require.NoError(t, err)

	tf.SetOrigin("/home/me/dotfiles")
	tf.Set("/home/me/.zshrc", "/home/me/dotfiles/home/.zshrc")
	tf.Set("/home/me/.bashrc", "/home/me/dotfiles/home/.bashrc")
	require.NoError(t, tf.Save())
	assert.True(t, tf.Exists())

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Less(t, strings.Index(string(data), ".bashrc"), strings.Index(string(data), ".zshrc"), "entries sorted by target")

	loaded, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "/home/me/dotfiles", loaded.Origin())
	assert.Equal(t, []types.TrackEntry{
		{Target: "/home/me/.bashrc", Source: "/home/me/dotfiles/home/.bashrc"},
		{Target: "/home/me/.zshrc", Source: "/home/me/dotfiles/home/.zshrc"},
	}, loaded.Entries())

	src, ok := loaded.Lookup("/home/me/./.bashrc")
	assert.True(t, ok)
	assert.Equal(t, "/home/me/dotfiles/home/.bashrc", src)

	files, err := afero.ReadDir(fs, "/state/dots")
	require.NoError(t, err)
	assert.Len(t, files, 1, "no temp files left behind")
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "version = \n"},
		{"unknown key", "version = 1\ncolor = \"red\"\n"},
		{"unknown entry key", "version = 1\n[[link]]\ntarget = \"/a\"\nsource = \"/b\"\nmode = 1\n"},
		{"missing version", "[[link]]\ntarget = \"/a\"\nsource = \"/b\"\n"},
		{"future version", "version = 2\n"},
		{"missing source", "version = 1\n[[link]]\ntarget = \"/a\"\n"},
		{"relative target", "version = 1\n[[link]]\ntarget = \"a\"\nsource = \"/b\"\n"},
		{"duplicate target", "version = 1\n[[link]]\ntarget = \"/a\"\nsource = \"/b\"\n[[link]]\ntarget = \"/a/\"\nsource = \"/c\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, path, []byte(tt.data), 0644))
			_, err := Load(fs, path)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrTrackfileCorrupt), "got %v", err)
		})
	}
}

func TestRemoveAndDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	tf, err := Load(fs, path)
	require.NoError(t, err)
	tf.Set("/a", "/src/a")
	tf.Set("/b", "/src/b")
	tf.Remove("/a")
	assert.Equal(t, 1, tf.Len())
	require.NoError(t, tf.Save())

	removed, err := tf.Delete()
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, tf.Exists())
	assert.Equal(t, 0, tf.Len())

	removed, err = tf.Delete()
	require.NoError(t, err, "deleting a missing trackfile is fine")
	assert.False(t, removed)
}

func TestLock(t *testing.T) {
	fs := afero.NewMemMapFs()

	lock, err := Acquire(fs, path)
	require.NoError(t, err)

	_, err = Acquire(fs, path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTrackfileLocked))

	require.NoError(t, lock.Release())

	again, err := Acquire(fs, path)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}
