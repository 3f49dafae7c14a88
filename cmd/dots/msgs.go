package dots

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Declarative dotfile linking"
	MsgLinkShort       = "Link dotfiles from a source"
	MsgUnlinkShort     = "Remove links made by dots"
	MsgRelinkShort     = "Unlink, then link again"
	MsgStatusShort     = "Show the state of dots links"
	MsgCleanShort      = "Remove dangling links and forget absent ones"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics, or the topic named by the argument."

	// Version output
	MsgVersionFormat = "dots version %s\n  commit: %s\n  built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose             = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagOutput              = "Output format: text, json or yaml (default from config)"
	MsgFlagConfig              = "Configuration file (default $XDG_CONFIG_HOME/dots/config.toml)"
	MsgFlagInclude             = "Only link paths under this source-relative path (repeatable)"
	MsgFlagExclude             = "Skip paths under this source-relative path (repeatable)"
	MsgFlagDryRun              = "Preview changes without executing them"
	MsgFlagBail                = "Stop at the first conflict instead of skipping it"
	MsgFlagInteractive         = "Ask before resolving conflicts"
	MsgFlagForceCorrectSymlink = "Replace links dots made to a different source (-fc)"
	MsgFlagForceSymlink        = "Also replace symlinks dots does not own (-fs)"
	MsgFlagForceFile           = "Also replace regular files (-ff)"
	MsgFlagForceDangerously    = "Also replace directories, removing them recursively"
	MsgFlagHard                = "Act on every link in the trackfile and delete it when empty"

	// Errors
	MsgErrNoCommand     = "no command specified"
	MsgErrTopic         = "unknown topic %q (see 'dots topics')"
	MsgErrFailedTargets = "%d target(s) failed, see the report above"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/link-example.txt
	msgLinkExampleRaw string
	MsgLinkExample    = strings.TrimRight(msgLinkExampleRaw, "\n")

	//go:embed msgs/unlink-long.txt
	msgUnlinkLongRaw string
	MsgUnlinkLong    = strings.TrimSpace(msgUnlinkLongRaw)

	//go:embed msgs/unlink-example.txt
	msgUnlinkExampleRaw string
	MsgUnlinkExample    = strings.TrimRight(msgUnlinkExampleRaw, "\n")

	//go:embed msgs/relink-long.txt
	msgRelinkLongRaw string
	MsgRelinkLong    = strings.TrimSpace(msgRelinkLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/clean-long.txt
	msgCleanLongRaw string
	MsgCleanLong    = strings.TrimSpace(msgCleanLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
