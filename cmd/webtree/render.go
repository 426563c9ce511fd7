package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/webtree/browser"
	"github.com/npillmayer/webtree/render"
	"github.com/spf13/cobra"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "render <url|file>",
		Short: "Render a document as a visual tree",
		Long: `Render fetches a document and prints its visual tree.

In interactive mode the links of the document are numbered. Enter a
number to follow a link, 'b' to go back, or 'q' to quit.`,
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
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			host := &terminalHost{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			b := browser.New(ctx, cfg, nil, host)
			if err := b.Open(ctx, loc, true); err != nil && !interactive {
				return err
			}
			if !interactive {
				return nil
			}
			return browse(ctx, b, host, cmd.InOrStdin())
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Follow links interactively")
	return cmd
}

// browse reads link numbers from in until it is exhausted or 'q' is read.
func browse(ctx context.Context, b *browser.Browser, host *terminalHost, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(host.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "q":
			return nil
		case "b":
			if err := b.Back(ctx); err != nil {
				fmt.Fprintf(host.errOut, "%s\n", err)
			}
			continue
		}
		n, err := strconv.Atoi(input)
		links := host.currentLinks()
		if err != nil || n < 1 || n > len(links) {
			fmt.Fprintf(host.errOut, "no link %q\n", input)
			continue
		}
		links[n-1].Activate()
		b.Wait()
	}
}

// terminalHost prints mounted visual trees.
type terminalHost struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	links  []*render.Visual
}

func (h *terminalHost) Mount(v *render.Visual) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.links = h.links[:0]
	collectLinks(v, &h.links)
	fmt.Fprint(h.out, render.Dump(v))
	for i, l := range h.links {
		fmt.Fprintf(h.out, "[%d] %s -> %s\n", i+1, l.Text, l.Href())
	}
}

func (h *terminalHost) ShowError(err error) {
	fmt.Fprintf(h.errOut, "error: %s\n", err)
}

func (h *terminalHost) SetLocation(url string) {
	fmt.Fprintf(h.out, "@ %s\n", url)
}

func (h *terminalHost) currentLinks() []*render.Visual {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*render.Visual(nil), h.links...)
}

func collectLinks(v *render.Visual, links *[]*render.Visual) {
	if v.Kind == render.Link {
		*links = append(*links, v)
	}
	for _, ch := range v.Boxes() {
		collectLinks(ch, links)
	}
}
