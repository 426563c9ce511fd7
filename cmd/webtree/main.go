package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/webtree/browser"
	"github.com/npillmayer/webtree/config"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// Flags shared by all commands.
type globalFlags struct {
	configPath string
	frame      bool
	conformant bool
	debug      bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "webtree: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "webtree",
		Short: "Render HTML documents as a tree of visual nodes",
		Long: `Webtree fetches an HTML document, builds its element tree and
renders it as a tree of containers, labels and links.

Examples:
  webtree render https://example.org
  webtree render --frame page.html
  webtree dom --conformant page.html
  webtree serve --addr :8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "TOML configuration file")
	cmd.PersistentFlags().BoolVar(&flags.frame, "frame", false, "Frame containers with their tag name")
	cmd.PersistentFlags().BoolVar(&flags.conformant, "conformant", false, "Use the conformant HTML5 parser")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Trace at debug level")
	cmd.AddCommand(
		renderCmd(flags),
		domCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)
	return cmd
}

// load reads the configuration and applies command line flags, which take
// precedence over file and environment.
func (flags *globalFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("frame") {
		cfg.Frame = flags.frame
	}
	if cmd.Flags().Changed("conformant") {
		cfg.Conformant = flags.conformant
	}
	if flags.debug {
		for _, key := range []string{"webtree.dom", "webtree.engine", "webtree.render", "webtree.browser", "webtree.server"} {
			tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
		}
	}
	return cfg, nil
}

// location turns a command line argument into a URL. Arguments without a
// scheme are file paths.
func location(arg string) (string, error) {
	if u, err := url.Parse(arg); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return arg, nil
	}
	return browser.FileURL(arg)
}
