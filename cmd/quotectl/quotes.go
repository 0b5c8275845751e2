package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http/handlers"
)

func newTodayCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show the quote of the day with the reminder schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			var today handlers.TodayResponse

			err = api.call(cmd.Context(), http.MethodGet, "/quotes/today", nil, &today)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writeQuote(out, today.Quote)
			fmt.Fprintf(out, "\nReminder time: %s (%d pending)\n", today.NotificationTime, today.PendingReminders)

			if today.NextReminder != nil {
				fmt.Fprintf(out, "Next reminder: %s\n", today.NextReminder.FireAt.Local().Format("Mon Jan 2 15:04"))
			}

			return nil
		},
	}
}

func newDailyCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the quote of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			var quote handlers.QuoteResponse

			err = api.call(cmd.Context(), http.MethodGet, "/quotes/daily", nil, &quote)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, quote)
			}

			writeQuote(cmd.OutOrStdout(), &quote)

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")

	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes in the active collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cursor := ""

			for {
				query := url.Values{"limit": {strconv.Itoa(limit)}}
				if cursor != "" {
					query.Set("cursor", cursor)
				}

				var page dto.PaginatedResponse[handlers.QuoteResponse]

				err = api.call(cmd.Context(), http.MethodGet, "/quotes?"+query.Encode(), nil, &page)
				if err != nil {
					return err
				}

				for i := range page.Items {
					q := &page.Items[i]
					fmt.Fprintf(out, "%s  %s (%s)  %s\n", q.ID, q.BookTitle, q.BookAuthor, firstLine(q.Content, 60))
				}

				if !all || !page.HasMore {
					return nil
				}

				cursor = page.NextCursor
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", dto.DefaultLimit, "quotes per page")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "follow cursors until the collection is exhausted")

	return cmd
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get QUOTE_ID",
		Short: "Show one quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			var quote handlers.QuoteResponse

			err = api.call(cmd.Context(), http.MethodGet, "/quotes/"+url.PathEscape(args[0]), nil, &quote)
			if isNotFound(err) {
				return fmt.Errorf("no quote with ID %q in the active collection", args[0])
			}

			if err != nil {
				return err
			}

			return printJSON(cmd, quote)
		},
	}
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the collection with a clippings export",
		Long: `Import a "My Clippings.txt" export. Use - to read from stdin.

The whole file is rejected when any record is malformed; the current
collection stays in place and the failing record is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			var resp handlers.ImportResponse

			err = api.call(cmd.Context(), http.MethodPost, "/quotes/import", handlers.ImportRequest{Content: raw}, &resp)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d quotes\n", resp.Imported)

			return nil
		},
	}
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		raw []byte
		err error
	)

	if name == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(name)
	}

	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	return string(raw), nil
}

func writeQuote(w io.Writer, q *handlers.QuoteResponse) {
	if q == nil {
		return
	}

	fmt.Fprintf(w, "%q\n  %s, %s", q.Content, q.BookTitle, q.BookAuthor)

	if q.Page != nil {
		fmt.Fprintf(w, " (page %d)", *q.Page)
	}

	fmt.Fprintln(w)
}

// firstLine returns the first line of s cut to limit runes.
func firstLine(s string, limit int) string {
	s, _, _ = strings.Cut(s, "\n")

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit-1]) + "…"
}
