package dots

import (
	"strings"

	"github.com/arthur-debert/dots/pkg/types"
	"github.com/spf13/cobra"
)

// forceAliases are the two-letter force flags, which pflag cannot
// express as shorthands
var forceAliases = map[string]string{
	"-fc": "--force-correct-symlink",
	"-fs": "--force-symlink",
	"-ff": "--force-file",
}

// NormalizeArgs rewrites the two-letter force flags into their long forms.
// Arguments after "--" are left alone.
func NormalizeArgs(args []string) []string {
	out := make([]string, len(args))
	done := false
	for i, arg := range args {
		if !done {
			if arg == "--" {
				done = true
			} else if long, ok := forceAliases[arg]; ok {
				arg = long
			}
		}
		out[i] = arg
	}
	return out
}

// engineFlags are the reconciliation options shared by link, unlink and
// relink
type engineFlags struct {
	includes            []string
	excludes            []string
	dryRun              bool
	bail                bool
	interactive         bool
	forceCorrectSymlink bool
	forceSymlink        bool
	forceFile           bool
	forceDangerously    bool
	hard                bool
}

func (f *engineFlags) addFilters(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.includes, "include", "i", nil, MsgFlagInclude)
	cmd.Flags().StringArrayVarP(&f.excludes, "exclude", "e", nil, MsgFlagExclude)
}

func (f *engineFlags) addDryRun(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, MsgFlagDryRun)
}

func (f *engineFlags) addAll(cmd *cobra.Command) {
	f.addFilters(cmd)
	f.addDryRun(cmd)
	cmd.Flags().BoolVar(&f.bail, "bail", false, MsgFlagBail)
	cmd.Flags().BoolVar(&f.interactive, "interactive", false, MsgFlagInteractive)
	cmd.Flags().BoolVar(&f.forceCorrectSymlink, "force-correct-symlink", false, MsgFlagForceCorrectSymlink)
	cmd.Flags().BoolVar(&f.forceSymlink, "force-symlink", false, MsgFlagForceSymlink)
	cmd.Flags().BoolVar(&f.forceFile, "force-file", false, MsgFlagForceFile)
	cmd.Flags().BoolVar(&f.forceDangerously, "force-dangerously", false, MsgFlagForceDangerously)
}

func (f *engineFlags) addHard(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.hard, "hard", false, MsgFlagHard)
}

// force returns the highest force level requested
func (f *engineFlags) force() types.ForceLevel {
	switch {
	case f.forceDangerously:
		return types.ForceDangerously
	case f.forceFile:
		return types.ForceFile
	case f.forceSymlink:
		return types.ForceSymlink
	case f.forceCorrectSymlink:
		return types.ForceCorrectSymlink
	default:
		return types.ForceNone
	}
}

func (f *engineFlags) options(verbose bool) types.Options {
	return types.Options{
		Includes:    trimAll(f.includes),
		Excludes:    trimAll(f.excludes),
		Verbose:     verbose,
		DryRun:      f.dryRun,
		Bail:        f.bail,
		Interactive: f.interactive,
		Force:       f.force(),
	}
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
