package main

import (
	"io"
	"os"

	"github.com/WatchBeam/clock"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/cjsliuj/mppf/manager"
	"github.com/cjsliuj/mppf/steprunner"
	"github.com/spf13/cobra"
)

const version = "1.5"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	logger := log.NewLogger()
	envRepository := env.NewRepository()
	profileManager := manager.NewProfileManager(
		stepconf.NewInputParser(envRepository),
		pathutil.NewPathModifier(),
		pathutil.NewPathChecker(),
		command.NewFactory(envRepository),
		fileutil.NewFileManager(),
		manager.NewConfirmer(stdin, stdout),
		clock.C,
		logger,
	)

	exitCode := 0
	rootCmd := createRootCmd(profileManager, logger, &exitCode)
	rootCmd.SetArgs(normalizeArgs(args))
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return exitCode
}

func createRootCmd(profileManager manager.ProfileManager, logger log.Logger, exitCode *int) *cobra.Command {
	var overrides manager.Overrides

	rootCmd := &cobra.Command{
		Use:     "mppf",
		Short:   "Manage locally installed provisioning profiles",
		Version: version,
		Long: `mppf lists, inspects and cleans up the provisioning profiles Xcode installs
into ~/Library/MobileDevice/Provisioning Profiles.

Environment:
  MPPF_PROFILES_DIR      profiles directory
  MPPF_DECODER           security or pkcs7
  MPPF_SECURITY_OPTIONS  additional arguments of the security cms command
  MPPF_PARALLELISM       number of profiles decoded at once
  MPPF_VERBOSE           print debug logs`,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&overrides.ProfilesDir, "dir", "d", "", "Provisioning profiles directory")
	rootCmd.PersistentFlags().StringVar(&overrides.Decoder, "decoder", "", "Profile decoder: security or pkcs7")
	rootCmd.PersistentFlags().BoolVar(&overrides.Verbose, "verbose", false, "Print debug logs")

	rootCmd.AddCommand(
		createCleanCmd(profileManager, logger, &overrides, exitCode),
		createListCmd(profileManager, logger, &overrides, exitCode),
		createInfoCmd(profileManager, logger, &overrides, exitCode),
	)

	return rootCmd
}

func createCleanCmd(profileManager manager.ProfileManager, logger log.Logger, overrides *manager.Overrides, exitCode *int) *cobra.Command {
	var opts manager.CleanOpts

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean up locally installed provisioning profiles based on the specified filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.HasFilter() {
				if err := cmd.Help(); err != nil {
					return err
				}
				*exitCode = 1
				return nil
			}

			runner := steprunner.NewStepRunner[manager.CleanConfig, manager.CleanResult](logger)
			*exitCode = runner.Run(profileManager.NewClean(*overrides, opts))
			return nil
		},
	}

	cleanCmd.Flags().BoolVarP(&opts.Expired, "expired", "e", false, "Remove all expired provisioning profiles")
	cleanCmd.Flags().StringVarP(&opts.Pattern, "pattern", "p", "", "Remove the provisioning profiles whose name matches the regular expression or contains the text")
	cleanCmd.Flags().BoolVarP(&opts.Duplicates, "remove-duplicates", "r", false, "Remove profiles with duplicate names, the one with the latest creation date is retained")
	cleanCmd.Flags().BoolVar(&opts.RemoveAllDuplicates, "remove-all-duplicates", false, "Do not retain the latest profile of a duplicate group")
	cleanCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the profiles to be deleted without deleting them")

	return cleanCmd
}

func createListCmd(profileManager manager.ProfileManager, logger log.Logger, overrides *manager.Overrides, exitCode *int) *cobra.Command {
	var opts manager.ListOpts

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List locally installed provisioning profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := steprunner.NewStepRunner[manager.ListConfig, manager.ListResult](logger)
			*exitCode = runner.Run(profileManager.NewList(*overrides, opts))
			return nil
		},
	}

	listCmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Print UUID, team, distribution type and expiration date")

	return listCmd
}

func createInfoCmd(profileManager manager.ProfileManager, logger log.Logger, overrides *manager.Overrides, exitCode *int) *cobra.Command {
	var opts manager.InfoOpts

	infoCmd := &cobra.Command{
		Use:   "info PATH|UUID",
		Short: "Output information about a provisioning profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Target = args[0]

			runner := steprunner.NewStepRunner[manager.InfoConfig, manager.InfoResult](logger)
			*exitCode = runner.Run(profileManager.NewInfo(*overrides, opts))
			return nil
		},
	}

	infoCmd.Flags().BoolVarP(&opts.Certificates, "cer", "c", false, "Print the included developer certificates")
	infoCmd.Flags().StringVarP(&opts.Format, "format", "f", "xml", "Output format: xml, json or yaml")

	return infoCmd
}

// normalizeArgs accepts the single dash spelling of long flags, like -cer.
func normalizeArgs(args []string) []string {
	normalized := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-cer" {
			arg = "--cer"
		}
		normalized = append(normalized, arg)
	}
	return normalized
}
