package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stockroom/backend/internal/client"
	"github.com/stockroom/backend/internal/domain/inventory"
)

const browseHelp = `commands:
  n, <enter>        next page
  p                 previous page
  g <page>          go to page (1-based)
  s <key> [dir]     sort by key, asc or desc
  / <text>          search; "/" alone clears it
  r                 refresh from the server
  q                 quit`

const defaultBrowseLimit = 20

func (a *app) newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through logs or items interactively",
		Long: `Pages through a list, keeping every page seen so far in a local cache.
Revisited pages are served without a request until the sort or filter changes.

` + browseHelp,
	}

	var logsQuery, itemsQuery *client.Query
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Browse the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			b := &browser[inventory.LogEntryView]{pager: client.NewLogPager(c), render: renderLogs, query: *logsQuery}
			return b.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	logsQuery = queryFlags(logs.Flags(), true)

	items := &cobra.Command{
		Use:   "items",
		Short: "Browse inventory items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			b := &browser[inventory.ItemView]{pager: client.NewItemPager(c), render: renderItems, query: *itemsQuery}
			return b.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	itemsQuery = queryFlags(items.Flags(), false)

	cmd.AddCommand(logs, items)
	return cmd
}

// browser drives a Pager from line commands
type browser[T any] struct {
	pager  *client.Pager[T]
	render func(io.Writer, []T) error
	query  client.Query
	total  int
}

func (b *browser[T]) run(ctx context.Context, in io.Reader, out io.Writer) error {
	if b.query.Limit <= 0 {
		b.query.Limit = defaultBrowseLimit
	}

	scanner := bufio.NewScanner(in)
	show := true
	for {
		if show {
			b.show(ctx, out)
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		var quit bool
		show, quit = b.apply(strings.TrimSpace(scanner.Text()), out)
		if quit {
			break
		}
	}
	fmt.Fprintln(out)

	stats := b.pager.Stats()
	fmt.Fprintf(out, "%d pages from cache, %d fetched\n", stats.Hits, stats.Fetches)
	return scanner.Err()
}

// show loads and prints the current window. Load errors are reported and the
// session continues.
func (b *browser[T]) show(ctx context.Context, out io.Writer) {
	res, err := b.pager.Load(ctx, b.query)
	if err != nil {
		if errors.Is(err, client.ErrStaleResponse) {
			return
		}
		fmt.Fprintln(out, "error:", err)
		return
	}
	b.total = res.Total
	if err := b.render(out, res.Data); err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	_ = writeFooter(out, b.query.Page, len(res.Data), res.Total, res.Cached)
}

// apply updates the query for one command line. It reports whether the window
// needs showing again and whether the session ends.
func (b *browser[T]) apply(line string, out io.Writer) (show, quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "", "n":
		if (b.query.Page+1)*b.query.Limit >= b.total {
			fmt.Fprintln(out, "already on the last page")
			return false, false
		}
		b.query.Page++
	case "p":
		if b.query.Page == 0 {
			fmt.Fprintln(out, "already on the first page")
			return false, false
		}
		b.query.Page--
	case "g":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			fmt.Fprintln(out, "usage: g <page>")
			return false, false
		}
		b.query.Page = n - 1
	case "s":
		fields := strings.Fields(arg)
		if len(fields) == 0 || len(fields) > 2 {
			fmt.Fprintln(out, "usage: s <key> [asc|desc]")
			return false, false
		}
		b.query.OrderBy = fields[0]
		b.query.Order = ""
		if len(fields) == 2 {
			b.query.Order = fields[1]
		}
		b.query.Page = 0
	case "/":
		b.query.Search = arg
		b.query.Page = 0
	case "r":
		b.pager.Invalidate()
	case "q", "quit", "exit":
		return false, true
	case "?", "h", "help":
		fmt.Fprintln(out, browseHelp)
		return false, false
	default:
		if strings.HasPrefix(cmd, "/") {
			b.query.Search = strings.TrimSpace(strings.TrimPrefix(line, "/"))
			b.query.Page = 0
			break
		}
		fmt.Fprintf(out, "unknown command %q, ? for help\n", cmd)
		return false, false
	}
	return true, false
}
