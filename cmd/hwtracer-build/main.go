package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/spf13/cobra"

	hwtbuild "github.com/contriboss/hwtracer-build"
)

type rootOptions struct {
	outDir     string
	targetOS   string
	targetArch string
	configPath string
	logLevel   string
	jobs       int
	verbose    bool
}

var opts rootOptions

var rootCmd = &cobra.Command{
	Use:   "hwtracer-build",
	Short: "Configure and compile hwtracer's native code for Cargo",
	Long: `hwtracer-build runs as hwtracer's build script. It selects the trace
backend for the target, builds libxdc, compiles the C sources into a static
library, and prints cargo: directives on stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runBuild,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.outDir, "out-dir", "", "output directory (default $OUT_DIR)")
	flags.StringVar(&opts.targetOS, "target-os", "", "target OS (default $CARGO_CFG_TARGET_OS or host)")
	flags.StringVar(&opts.targetArch, "target-arch", "", "target architecture (default $CARGO_CFG_TARGET_ARCH or host)")
	flags.StringVar(&opts.configPath, "config", "", "TOML file with tool overrides (default $"+hwtbuild.ConfigFileEnv+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "compile up to N sources in parallel (default serial)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print every compiler invocation")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(cleanCmd)
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var failure *hwtbuild.ToolFailure
	if errors.As(err, &failure) {
		hwtbuild.WriteBuildOutput(os.Stderr, failure.Tool, failure.Result)
		err = mg.Fatal(failure.ExitStatus(), err)
	}
	fmt.Fprintf(os.Stderr, "hwtracer-build: %v\n", err)
	os.Exit(mg.ExitStatus(err))
}

// loadConfig builds the run configuration from Cargo's environment with
// command-line flags taking precedence.
func loadConfig() (*hwtbuild.BuildConfig, error) {
	overrides := map[string]string{
		"OUT_DIR":               opts.outDir,
		"CARGO_CFG_TARGET_OS":   opts.targetOS,
		"CARGO_CFG_TARGET_ARCH": opts.targetArch,
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	config, err := hwtbuild.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	config.Verbose = opts.verbose

	level := "info"
	if opts.verbose {
		level = "debug"
	}

	path := opts.configPath
	if path == "" {
		path = os.Getenv(hwtbuild.ConfigFileEnv)
	}
	if path != "" {
		fc, err := hwtbuild.LoadConfigFile(path, config)
		if err != nil {
			return nil, err
		}
		if fc.LogLevel != "" {
			level = fc.LogLevel
		}
	}
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if opts.jobs < 0 {
		return nil, fmt.Errorf("--jobs must not be negative")
	}
	if opts.jobs > 0 {
		config.Jobs = opts.jobs
	}
	hwtbuild.SetLogger(hwtbuild.NewLogger(os.Stderr, level))

	return config, nil
}

func runBuild(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	_, err = hwtbuild.NewOrchestrator(config).Execute(cmd.Context(), cmd.OutOrStdout())
	return err
}
