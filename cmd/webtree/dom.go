package main

import (
	"context"
	"fmt"

	"github.com/npillmayer/webtree/browser"
	"github.com/npillmayer/webtree/dom/domdbg"
	"github.com/spf13/cobra"
)

func domCmd(flags *globalFlags) *cobra.Command {
	var (
		dot  bool
		tree bool
	)
	cmd := &cobra.Command{
		Use:   "dom <url|file>",
		Short: "Print the element tree of a document",
		Long: `Dom fetches a document and prints the element tree built from it,
one node per line. Use --dot to get a GraphViz digraph instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			loc, err := location(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			fetcher := browser.NewHTTPFetcher(cfg.UserAgent, cfg.Timeout)
			doc, _, err := browser.Load(ctx, fetcher, cfg, loc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case dot:
				return domdbg.ToGraphViz(doc, out)
			case tree:
				fmt.Fprint(out, domdbg.Print(doc))
			default:
				fmt.Fprint(out, domdbg.Outline(doc))
			}
			fmt.Fprintf(out, "# %d elements, %d parse errors, %s\n",
				doc.Len(), doc.ParseErrors(), doc.Quirks())
			return nil
		},
	}
	cmd.Flags().BoolVar(&dot, "dot", false, "Print a GraphViz digraph")
	cmd.Flags().BoolVar(&tree, "tree", false, "Print as a tree with element handles")
	return cmd
}
