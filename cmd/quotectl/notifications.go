package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/handlers"
)

func newRemindersCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"rem"},
		Short:   "Inspect and manage pending reminders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listReminders(cmd, opts)
		},
	}

	var (
		start    string
		interval time.Duration
		count    int
	)

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Replace pending reminders with a new batch",
		Long: `Schedule count reminders for distinct quotes. The first fires at --start,
each following one --interval later. Every pending reminder is cancelled first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			startAt := time.Now().Add(time.Minute)

			if start != "" {
				parsed, err := time.Parse(time.RFC3339, start)
				if err != nil {
					return fmt.Errorf("--start must be RFC 3339: %w", err)
				}

				startAt = parsed
			}

			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			req := handlers.ScheduleRequest{Start: startAt, Interval: interval.String(), Count: count}

			var resp handlers.ReminderListResponse

			err = api.call(cmd.Context(), http.MethodPost, "/notifications/schedule", req, &resp)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "scheduled %d reminders\n", len(resp.Items))
			writeReminders(cmd, resp.Items)

			return nil
		},
	}

	scheduleCmd.Flags().StringVar(&start, "start", "", "first fire time, RFC 3339 (default one minute from now)")
	scheduleCmd.Flags().DurationVar(&interval, "interval", 24*time.Hour, "gap between reminders")
	scheduleCmd.Flags().IntVarP(&count, "count", "n", 1, "number of reminders")

	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel every pending reminder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			err = api.call(cmd.Context(), http.MethodDelete, "/notifications", nil, nil)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "cancelled all reminders")

			return nil
		},
	}

	cmd.AddCommand(scheduleCmd, cancelCmd)

	return cmd
}

func listReminders(cmd *cobra.Command, opts *globalOptions) error {
	api, err := newAPIClient(opts)
	if err != nil {
		return err
	}

	var resp handlers.ReminderListResponse

	err = api.call(cmd.Context(), http.MethodGet, "/notifications", nil, &resp)
	if err != nil {
		return err
	}

	if len(resp.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no pending reminders")

		return nil
	}

	writeReminders(cmd, resp.Items)

	return nil
}

func writeReminders(cmd *cobra.Command, items []*handlers.ReminderResponse) {
	out := cmd.OutOrStdout()

	for _, r := range items {
		fmt.Fprintf(out, "%s  %s  %s\n", r.FireAt.Local().Format(time.DateTime), r.ID, firstLine(r.Body, 60))
	}
}

func newTimeCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Show the preferred reminder time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			var resp handlers.NotificationTimeResponse

			err = api.call(cmd.Context(), http.MethodGet, "/settings/notification-time", nil, &resp)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Time)

			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set HH:MM",
		Short: "Set the reminder time and reschedule the daily reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			var resp handlers.NotificationTimeResponse

			err = api.call(cmd.Context(), http.MethodPut, "/settings/notification-time",
				handlers.NotificationTimeRequest{Time: args[0]}, &resp)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "reminders now fire at %s\n", resp.Time)

			return nil
		},
	}

	cmd.AddCommand(setCmd)

	return cmd
}
