package dots

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/reconcile"
	"github.com/arthur-debert/dots/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) *testutil.TestEnvironment {
	t.Helper()
	env := testutil.NewTestEnvironment(t)
	t.Setenv("DOTS_ENV_OS", env.Ctx.OS)
	t.Setenv("DOTS_ENV_USER", env.Ctx.User)
	env.WithSourceTree(testutil.FileTree{
		"home/.bashrc":           "bash",
		"home/.config/nvim/init": "nvim",
	})
	return env
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(NormalizeArgs(args))
	err := root.Execute()
	return out.String(), err
}

func TestLinkCommand(t *testing.T) {
	env := setupEnv(t)

	out, err := execute(t, "link", env.SourceDir)
	require.NoError(t, err)
	assert.Contains(t, out, "link "+env.SourceDir)
	assert.Contains(t, out, "2 linked")
	testutil.AssertSymlink(t, env.HomePath(".bashrc"), env.SourcePath("home/.bashrc"))
	testutil.AssertSymlink(t, env.HomePath(".config/nvim/init"), env.SourcePath("home/.config/nvim/init"))

	out, err = execute(t, "link")
	require.NoError(t, err, "the recorded origin is the default target")
	assert.Contains(t, out, "2 unchanged")
}

func TestLinkCommand_Filters(t *testing.T) {
	env := setupEnv(t)

	_, err := execute(t, "link", env.SourceDir, "-e", "home/.config")
	require.NoError(t, err)
	testutil.AssertSymlink(t, env.HomePath(".bashrc"), env.SourcePath("home/.bashrc"))
	testutil.AssertAbsent(t, env.HomePath(".config/nvim/init"))
}

func TestLinkCommand_ConflictSkippedThenForced(t *testing.T) {
	env := setupEnv(t)
	env.WriteFile(env.HomePath(".bashrc"), "mine")

	out, err := execute(t, "link", env.SourceDir)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "use -ff")
	testutil.AssertFileContent(t, env.HomePath(".bashrc"), "mine")

	_, err = execute(t, "link", env.SourceDir, "-ff")
	require.NoError(t, err)
	testutil.AssertSymlink(t, env.HomePath(".bashrc"), env.SourcePath("home/.bashrc"))
}

func TestLinkCommand_BailPrintsReportAndFails(t *testing.T) {
	env := setupEnv(t)
	env.WriteFile(env.HomePath(".bashrc"), "mine")

	out, err := execute(t, "link", env.SourceDir, "--bail")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflictAbort))
	assert.Contains(t, out, "aborted")
}

func TestStatusCommand_JSON(t *testing.T) {
	env := setupEnv(t)

	_, err := execute(t, "link", env.SourceDir)
	require.NoError(t, err)

	out, err := execute(t, "status", "--output", "json")
	require.NoError(t, err)

	var report struct {
		Command string `json:"command"`
		Items   []struct {
			Target string `json:"target"`
			State  string `json:"state"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "status", report.Command)
	require.Len(t, report.Items, 2)
	for _, item := range report.Items {
		assert.Equal(t, "correct", item.State, item.Target)
	}
}

func TestUnlinkCommand_Hard(t *testing.T) {
	env := setupEnv(t)

	_, err := execute(t, "link", env.SourceDir)
	require.NoError(t, err)

	_, err = execute(t, "unlink", "--hard", env.SourceDir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	out, err := execute(t, "unlink", "--hard")
	require.NoError(t, err)
	assert.Contains(t, out, "trackfile removed")
	testutil.AssertAbsent(t, env.HomePath(".bashrc"))
	testutil.AssertAbsent(t, env.TrackfilePath())
}

func TestRelinkCommand_DryRun(t *testing.T) {
	env := setupEnv(t)

	_, err := execute(t, "link", env.SourceDir)
	require.NoError(t, err)

	out, err := execute(t, "relink", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "unlink "+env.SourceDir+" (dry run)")
	assert.Contains(t, out, "link "+env.SourceDir+" (dry run)")
	assert.NotContains(t, out, "unchanged")
	testutil.AssertSymlink(t, env.HomePath(".bashrc"), env.SourcePath("home/.bashrc"))
}

func TestNoTargetWithoutHistory(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "link")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFailureError(t *testing.T) {
	ok := &reconcile.Report{Items: []reconcile.Item{
		{Target: "/h/.a", Outcome: reconcile.OutcomeLinked},
		{Target: "/h/.b", Outcome: reconcile.OutcomeSkipped},
	}}
	failed := &reconcile.Report{Items: []reconcile.Item{
		{Target: "/h/.c", Outcome: reconcile.OutcomeFailed, Error: "permission denied"},
		{Target: "/h/.d", Outcome: reconcile.OutcomeFailed, Error: "permission denied"},
	}}

	assert.NoError(t, failureError([]*reconcile.Report{ok}), "skips still exit 0")
	assert.NoError(t, failureError(nil))

	err := failureError([]*reconcile.Report{ok, failed})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPartialFailure))
	assert.Equal(t, 2, errors.GetErrorDetails(err)["failed"])
	assert.Contains(t, err.Error(), "2 target(s) failed")
}

func TestInvalidOutputFormat(t *testing.T) {
	env := setupEnv(t)

	_, err := execute(t, "status", env.SourceDir, "-o", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNormalizeArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"link", "--force-correct-symlink", "--force-symlink", "--force-file", "--", "-ff"},
		NormalizeArgs([]string{"link", "-fc", "-fs", "-ff", "--", "-ff"}))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dots version")
}

func TestTopicsCommand(t *testing.T) {
	out, err := execute(t, "topics")
	require.NoError(t, err)
	for _, name := range []string{"conventions", "composition", "force", "trackfile", "configuration", "--dry-run"} {
		assert.Contains(t, out, name)
	}

	_, err = execute(t, "topics", "nope")
	require.Error(t, err)
}

func TestManCommand(t *testing.T) {
	out, err := execute(t, "man")
	require.NoError(t, err)
	assert.Contains(t, out, ".TH \"DOTS\"")
}
