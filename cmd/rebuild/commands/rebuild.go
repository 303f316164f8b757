package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rebuild/internal/app"
	"go.trai.ch/rebuild/internal/build"
)

func (c *CLI) newRootCmd() *cobra.Command {
	var opts app.RunOptions

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild native add-on modules against a target runtime",
		Long: "Rebuild walks a node_modules tree and recompiles every native add-on it finds\n" +
			"against the headers and library of the target runtime version.",
		Example:       "  rebuild --module-dir . --node-version 22.6.0\n  rebuild -w sqlite3,bcrypt -p",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("only") {
				opts.Only = nil
			}
			return c.app.Run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.Force, "force", "f", false, "Force rebuilding modules, even if we would skip it otherwise")
	f.StringVarP(&opts.Arch, "arch", "a", "", "Override the target architecture to something other than your system's")
	f.StringVarP(&opts.ModuleDir, "module-dir", "m", "", "The path to the node_modules directory to rebuild")
	f.StringSliceVarP(&opts.WhichModules, "which-module", "w", nil,
		"A specific module to build, or comma separated list of modules. "+
			"Modules will only be rebuilt if they also match the types of dependencies being rebuilt (see --types)")
	f.StringSliceVarP(&opts.Only, "only", "o", nil,
		"Only build specified module, or comma separated list of modules. All others are ignored")
	f.StringVarP(&opts.DistURL, "dist-url", "d", "", "Custom header tarball URL")
	f.StringSliceVarP(&opts.Types, "types", "t", nil,
		`The types of dependencies to rebuild. Comma separated list of "prod", "dev" and "optional". Default is "prod,optional"`)
	f.BoolVarP(&opts.Parallel, "parallel", "p", false, "Rebuild in parallel")
	f.BoolVarP(&opts.Sequential, "sequential", "s", false, "Rebuild modules sequentially, this is the default")
	f.BoolVarP(&opts.Debug, "debug", "b", false, "Build debug version of modules")
	f.StringVar(&opts.ForceABI, "force-abi", "",
		"Override the ABI version for the runtime you are targeting. Only use when targeting nightly releases")
	f.BoolVar(&opts.DisablePreGypCopy, "disable-pre-gyp-copy", false, "Disables the pre-gyp copy step")
	f.StringVarP(&opts.NodeDir, "node-dir", "x", "", "Use an existing runtime header directory instead of downloading it")
	f.StringVarP(&opts.NodeLibFile, "node-lib-file", "y", "", "Use an existing runtime library file instead of downloading it")
	f.StringVarP(&opts.NodeVersion, "node-version", "z", "", "The runtime version to rebuild against (default 22.6.0)")
	f.StringSliceVarP(&opts.Ignore, "ignore", "i", nil, "Modules to leave untouched, comma separated")
	f.StringVar(&opts.OutputMode, "output-mode", "auto", "Output mode: auto, tui or linear")
	f.StringVar(&opts.LogFormat, "log-format", app.LogFormatPretty, "Log format: pretty or json")
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a .rebuildrc.yaml defaults file")

	cmd.MarkFlagsMutuallyExclusive("parallel", "sequential")

	return cmd
}
