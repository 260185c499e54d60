package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mdk-wizard/internal/app"
	"mdk-wizard/internal/config"
	"mdk-wizard/internal/wizard"
	"mdk-wizard/pkg/models"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

// exitCancelled is the exit status when the user cancels the wizard
const exitCancelled = 2

var rootCmd = &cobra.Command{
	Use:   "mdkwizard",
	Short: "Create and upgrade Space Engineers ingame script projects",
	Long: `mdkwizard resolves the MDK configuration for a new ingame script project:
the Space Engineers bin path, the script output path, the MDK install path
and the minify and branding flags. Each value is read from the MDK options
file (~/.config/mdk/options.toml), MDK_* environment variables or flags, and
validated before the project is generated. A failed step offers to retry.

Interactive prompts are shown on a terminal; -y answers them unattended and
-i forces them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			versionCmd.Run(cmd, args)
			return nil
		}
		return cmd.Help()
	},
}

var newCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a script project from a template directory",
	Long: `Create a script project from a template directory. Files named thumb.png
and thumbwithpromotion.png are swapped depending on the branding choice,
$token$ markers are replaced in file names and text files, and files ending in
.tmpl are rendered as Go templates. A project check and upgrade runs after
generation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		request.ProjectName = strings.TrimSpace(args[0])
		if request.TemplateDir, err = cmd.Flags().GetString("template"); err != nil {
			return fmt.Errorf("invalid template flag: %w", err)
		}
		if request.DestDir, err = cmd.Flags().GetString("dest"); err != nil {
			return fmt.Errorf("invalid dest flag: %w", err)
		}
		return app.NewProject(request)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve and print the project replacement tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		if request.Target, err = cmd.Flags().GetString("target"); err != nil {
			return fmt.Errorf("invalid target flag: %w", err)
		}
		return app.Resolve(request)
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade PROJECT_DIR",
	Short: "Check a script project and upgrade its MDK options",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		request.ProjectDir = args[0]
		return app.Upgrade(request)
	},
}

var kvCmd = &cobra.Command{
	Use:   "kv",
	Short: "Read and write key=value dictionary files",
}

var kvListCmd = &cobra.Command{
	Use:   "list FILE",
	Short: "List all entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
		return app.KVList(args[0], ignoreCase)
	},
}

var kvGetCmd = &cobra.Command{
	Use:   "get FILE KEY",
	Short: "Print the value of KEY",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
		return app.KVGet(args[0], args[1], ignoreCase)
	},
}

var kvSetCmd = &cobra.Command{
	Use:   "set FILE KEY VALUE",
	Short: "Set KEY to VALUE, keeping the order of other entries",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
		return app.KVSet(args[0], args[1], args[2], ignoreCase)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build version, commit, date, and platform details.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mdkwizard version %s\n", version)
		fmt.Printf("  mdk version: %s\n", wizard.Version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  go version: %s\n", goVersion)
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(newCmd, resolveCmd, upgradeCmd, kvCmd, versionCmd)
	kvCmd.AddCommand(kvListCmd, kvGetCmd, kvSetCmd)

	newCmd.Flags().StringP("template", "t", "", "project template directory")
	newCmd.Flags().StringP("dest", "d", "", "destination directory (default ./NAME)")
	resolveCmd.Flags().String("target", "stdout", "output target (clipboard, stdout, file:/path)")
	kvCmd.PersistentFlags().Bool("ignore-case", false, "compare keys ignoring case")

	addGlobalFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().BoolP("version", "v", false, "print version information")
}

// addGlobalFlags registers the flags shared by every wizard command
func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "options file path (default ~/.config/mdk/options.toml)")
	flags.BoolP("yes", "y", false, "noninteractive mode - cancel failed steps and accept resolved settings")
	flags.BoolP("interactive", "i", false, "force interactive prompts even without a terminal")
	flags.BoolP("numbers", "n", false, "enable number key selection for retry prompts")
	flags.String("bin-path", "", "use this Space Engineers Bin64 path")
	flags.String("output-path", "", "use this script output path")
	flags.String("install-path", "", "MDK install path (default: directory of this executable)")
	flags.Bool("minify", false, "minify scripts on deploy")
	flags.Bool("promote", true, "use the MDK branded thumbnail")
	flags.Bool("verbose", false, "enable debug logging")
	flags.Bool("log-json", false, "log as JSON")

	// The install path is the executable's own directory; the flag stays
	// for tests and development builds run from elsewhere.
	_ = flags.MarkHidden("install-path")
}

// buildRequestFromFlags constructs a WizardRequest from the global flags
func buildRequestFromFlags(cmd *cobra.Command, args []string) (*models.WizardRequest, error) {
	request := &models.WizardRequest{Overrides: map[string]interface{}{}}
	flags := cmd.Flags()

	var err error
	if request.ConfigPath, err = flags.GetString("config"); err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	forceNonInteractive, err := flags.GetBool("yes")
	if err != nil {
		return nil, fmt.Errorf("invalid yes flag: %w", err)
	}
	if request.ForceInteractive, err = flags.GetBool("interactive"); err != nil {
		return nil, fmt.Errorf("invalid interactive flag: %w", err)
	}
	if request.ForceInteractive && forceNonInteractive {
		return nil, fmt.Errorf("cannot use both --interactive and --yes flags")
	}
	// Resolved against the terminal later
	request.Interactive = !forceNonInteractive

	if request.NumberSelect, err = flags.GetBool("numbers"); err != nil {
		return nil, fmt.Errorf("invalid numbers flag: %w", err)
	}
	if request.InstallLocation, err = flags.GetString("install-path"); err != nil {
		return nil, fmt.Errorf("invalid install-path flag: %w", err)
	}
	if request.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, fmt.Errorf("invalid verbose flag: %w", err)
	}
	if request.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, fmt.Errorf("invalid log-json flag: %w", err)
	}

	// Only explicitly set flags override the options store
	for flag, keys := range map[string][2]string{
		"bin-path":    {config.KeyUseManualGameBinPath, config.KeyGameBinPath},
		"output-path": {config.KeyUseManualOutputPath, config.KeyOutputPath},
	} {
		if !flags.Changed(flag) {
			continue
		}
		path, err := flags.GetString(flag)
		if err != nil {
			return nil, fmt.Errorf("invalid %s flag: %w", flag, err)
		}
		request.Overrides[keys[0]] = true
		request.Overrides[keys[1]] = path
	}
	for flag, key := range map[string]string{
		"minify":  config.KeyMinify,
		"promote": config.KeyPromoteMDK,
	} {
		if !flags.Changed(flag) {
			continue
		}
		value, err := flags.GetBool(flag)
		if err != nil {
			return nil, fmt.Errorf("invalid %s flag: %w", flag, err)
		}
		request.Overrides[key] = value
	}

	return request, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, wizard.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(exitCancelled)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
