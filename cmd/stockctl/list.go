package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stockroom/backend/internal/client"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// queryFlags registers the list filters on fs and returns the query they fill
func queryFlags(fs *pflag.FlagSet, logs bool) *client.Query {
	q := &client.Query{}
	fs.IntVar(&q.Page, "page", 0, "zero-based page number")
	fs.IntVar(&q.Limit, "limit", 0, "rows per page (server default when 0)")
	fs.StringVar(&q.OrderBy, "order-by", "", "sort key")
	fs.StringVar(&q.Order, "order", "", "sort direction: asc or desc")
	fs.StringVar(&q.Search, "search", "", "search text")
	fs.StringVar(&q.Category, "category", "", "category id")
	fs.BoolVar(&q.Internal, "internal", false, "only internal items")
	if logs {
		fs.StringVar(&q.StartDate, "start-date", "", "first day, YYYY-MM-DD")
		fs.StringVar(&q.EndDate, "end-date", "", "last day, YYYY-MM-DD")
	}
	return q
}

func (a *app) newLogsCmd() *cobra.Command {
	var q *client.Query
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show one page of the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := a.outputJSON()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			page, err := c.ListLogs(cmd.Context(), *q)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			if err := renderLogs(cmd.OutOrStdout(), page.Data); err != nil {
				return err
			}
			return writeFooter(cmd.OutOrStdout(), q.Page, len(page.Data), int(page.Total), false)
		},
	}
	q = queryFlags(cmd.Flags(), true)
	return cmd
}

func (a *app) newItemsCmd() *cobra.Command {
	var q *client.Query
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Show one page of inventory items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := a.outputJSON()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			page, err := c.ListItems(cmd.Context(), *q)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			if err := renderItems(cmd.OutOrStdout(), page.Data); err != nil {
				return err
			}
			return writeFooter(cmd.OutOrStdout(), q.Page, len(page.Data), int(page.Total), false)
		},
	}
	q = queryFlags(cmd.Flags(), false)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderLogs(w io.Writer, logs []inventory.LogEntryView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSTAFF\tITEM\tCHANGE")
	for i := range logs {
		l := &logs[i]
		staff := ""
		if l.Staff != nil {
			staff = l.Staff.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%+d\n",
			l.Timestamp.UTC().Format(time.DateTime), orDash(staff), orDash(l.Item.DefinitionName()), l.QuantityDelta)
	}
	return tw.Flush()
}

func renderItems(w io.Writer, items []inventory.ItemView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tCATEGORY\tQTY\tASSIGNEE\tATTRIBUTES")
	for i := range items {
		v := &items[i]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			orDash(v.DefinitionName()), orDash(v.CategoryName()), v.Quantity, orDash(v.AssigneeName()), orDash(attributeSummary(v)))
	}
	return tw.Flush()
}

func attributeSummary(v *inventory.ItemView) string {
	parts := make([]string, 0, len(v.Attributes))
	for _, av := range v.Attributes {
		name := "?"
		if av.Attribute != nil {
			name = av.Attribute.Name
		}
		parts = append(parts, name+"="+av.Value)
	}
	return strings.Join(parts, ", ")
}

// writeFooter prints the window position, e.g. "page 2: 20 of 95 rows"
func writeFooter(w io.Writer, page, rows, total int, cached bool) error {
	line := fmt.Sprintf("page %d: %d of %d rows", page+1, rows, total)
	if cached {
		line += " (cached)"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
