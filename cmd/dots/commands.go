package dots

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/dots/internal/version"
	"github.com/arthur-debert/dots/pkg/cobrax/topics"
	"github.com/arthur-debert/dots/pkg/commands"
	"github.com/arthur-debert/dots/pkg/config"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/output"
	"github.com/arthur-debert/dots/pkg/prompt"
	"github.com/arthur-debert/dots/pkg/reconcile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// runFunc runs one command against an opened runtime
type runFunc func(ctx context.Context, rt *commands.Runtime) ([]*reconcile.Report, error)

// runOptions describe how the runtime for a command is opened
type runOptions struct {
	lock        bool
	interactive bool
}

// run opens the runtime, runs fn and renders its reports. Reports are
// written even when fn fails, so partial progress is visible.
func run(cmd *cobra.Command, globals *globalFlags, opts runOptions, fn runFunc) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: globals.configFile})
	if err != nil {
		return err
	}

	formatName := globals.output
	if formatName == "" {
		formatName = cfg.Output
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	openOpts := commands.OpenOptions{
		Config:      cfg,
		ToolVersion: version.Version,
		Lock:        opts.lock,
	}
	if opts.interactive {
		openOpts.Prompter = prompt.NewConsole()
	}

	rt, err := commands.Open(openOpts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to release trackfile lock")
		}
	}()

	reports, runErr := fn(cmd.Context(), rt)

	renderer, err := output.NewRenderer(cmd.OutOrStdout(), format, !colorEnabled(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	if err := renderer.Render(reports...); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	return failureError(reports)
}

// failureError turns failed targets into an error so the exit status
// reflects them. Skips are not failures.
func failureError(reports []*reconcile.Report) error {
	failed := 0
	for _, r := range reports {
		failed += r.Failed()
	}
	if failed == 0 {
		return nil
	}
	return errors.Newf(errors.ErrPartialFailure, MsgErrFailedTargets, failed).
		WithDetail("failed", failed)
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && output.ColorEnabled(f)
}

func targetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func single(report *reconcile.Report, err error) ([]*reconcile.Report, error) {
	return []*reconcile.Report{report}, err
}

func newLinkCmd(globals *globalFlags) *cobra.Command {
	flags := &engineFlags{}
	cmd := &cobra.Command{
		Use:     "link [target]",
		Short:   MsgLinkShort,
		Long:    MsgLinkLong,
		Example: MsgLinkExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(globals.verbosity > 0)
			return run(cmd, globals, runOptions{lock: !opts.DryRun, interactive: opts.Interactive},
				func(ctx context.Context, rt *commands.Runtime) ([]*reconcile.Report, error) {
					return single(rt.Link(ctx, commands.LinkOptions{Target: targetArg(args), Options: opts}))
				})
		},
	}
	flags.addAll(cmd)
	return cmd
}

func newUnlinkCmd(globals *globalFlags) *cobra.Command {
	flags := &engineFlags{}
	cmd := &cobra.Command{
		Use:     "unlink [target]",
		Short:   MsgUnlinkShort,
		Long:    MsgUnlinkLong,
		Example: MsgUnlinkExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.hard && len(args) > 0 {
				return errors.New(errors.ErrInvalidInput, "unlink --hard takes no target")
			}
			opts := flags.options(globals.verbosity > 0)
			return run(cmd, globals, runOptions{lock: !opts.DryRun, interactive: opts.Interactive},
				func(ctx context.Context, rt *commands.Runtime) ([]*reconcile.Report, error) {
					return single(rt.Unlink(ctx, commands.UnlinkOptions{
						Target:  targetArg(args),
						Hard:    flags.hard,
						Options: opts,
					}))
				})
		},
	}
	flags.addAll(cmd)
	flags.addHard(cmd)
	return cmd
}

func newRelinkCmd(globals *globalFlags) *cobra.Command {
	flags := &engineFlags{}
	cmd := &cobra.Command{
		Use:     "relink [target]",
		Short:   MsgRelinkShort,
		Long:    MsgRelinkLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(globals.verbosity > 0)
			return run(cmd, globals, runOptions{lock: !opts.DryRun, interactive: opts.Interactive},
				func(ctx context.Context, rt *commands.Runtime) ([]*reconcile.Report, error) {
					return rt.Relink(ctx, commands.UnlinkOptions{
						Target:  targetArg(args),
						Hard:    flags.hard,
						Options: opts,
					})
				})
		},
	}
	flags.addAll(cmd)
	flags.addHard(cmd)
	return cmd
}

func newStatusCmd(globals *globalFlags) *cobra.Command {
	flags := &engineFlags{}
	cmd := &cobra.Command{
		Use:     "status [target]",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(globals.verbosity > 0)
			return run(cmd, globals, runOptions{},
				func(ctx context.Context, rt *commands.Runtime) ([]*reconcile.Report, error) {
					return single(rt.Status(ctx, targetArg(args), opts))
				})
		},
	}
	flags.addFilters(cmd)
	return cmd
}

func newCleanCmd(globals *globalFlags) *cobra.Command {
	flags := &engineFlags{}
	cmd := &cobra.Command{
		Use:     "clean",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(globals.verbosity > 0)
			return run(cmd, globals, runOptions{lock: !opts.DryRun},
				func(ctx context.Context, rt *commands.Runtime) ([]*reconcile.Report, error) {
					return single(rt.Clean(ctx, opts))
				})
		},
	}
	flags.addDryRun(cmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doc.GenMan(cmd.Root(), ManHeader(), cmd.OutOrStdout())
		},
	}
}

// ManHeader is the header of the generated man page
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "DOTS",
		Section: "1",
		Source:  "dots " + version.Version,
		Manual:  "dots manual",
	}
}

func newTopicsCmd(tm *topics.TopicManager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics [topic]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return tm.ListTopics(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				tm.WriteList(cmd.OutOrStdout(), cmd.Root().Name())
				return nil
			}
			topic, ok := tm.GetTopic(args[0])
			if !ok {
				return errors.Newf(errors.ErrInvalidInput, MsgErrTopic, args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), tm.Render(topic))
			return nil
		},
	}
}
