package dots

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/dots/internal/version"
	"github.com/arthur-debert/dots/pkg/cobrax/topics"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

// globalFlags are the persistent flags of the root command
type globalFlags struct {
	verbosity  int
	output     string
	configFile string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "dots",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(logging.Options{Verbosity: globals.verbosity})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&globals.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&globals.output, "output", "o", "", MsgFlagOutput)
	rootCmd.PersistentFlags().StringVar(&globals.configFile, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newLinkCmd(globals))
	rootCmd.AddCommand(newUnlinkCmd(globals))
	rootCmd.AddCommand(newRelinkCmd(globals))
	rootCmd.AddCommand(newStatusCmd(globals))
	rootCmd.AddCommand(newCleanCmd(globals))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	sub, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		tm, err := topics.Initialize(rootCmd, sub, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
		if err == nil {
			rootCmd.AddCommand(newTopicsCmd(tm))
		}
	}

	return rootCmd
}
