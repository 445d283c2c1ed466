package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/dashboard"
	"github.com/bissquit/statusdash/internal/status"
	"github.com/bissquit/statusdash/internal/uptime"
	"github.com/bissquit/statusdash/internal/version"
	"github.com/spf13/cobra"
)

type uptimeRow struct {
	ServiceID   int64         `json:"service_id"`
	ServiceName string        `json:"service_name"`
	Status      string        `json:"current_status"`
	Uptime24h   float64       `json:"uptime_24h"`
	Uptime7d    float64       `json:"uptime_7d"`
	Uptime30d   float64       `json:"uptime_30d"`
	Health      uptime.Health `json:"health"`
	Trend       uptime.Trend  `json:"trend"`
}

func newUptimeCmd(rt *runtime) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "uptime [service-id]",
		Short: "Show uptime of all services or the series of one service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := uptime.ParsePeriod(period)
			if err != nil {
				return err
			}

			var id int64
			if len(args) == 1 {
				id, err = strconv.ParseInt(args[0], 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("service id must be a positive integer")
				}
			}

			_, client, err := rt.requireLogin(cmd.Context())
			if err != nil {
				return err
			}

			if id == 0 {
				return rt.uptimeOverview(cmd, client)
			}

			snap, err := dashboard.NewUptimeView(client, id).Select(cmd.Context(), p)
			if err != nil {
				return err
			}
			return rt.printer.print(snap, func(tw *tabwriter.Writer) {
				m := snap.Model
				fmt.Fprintf(tw, "SERVICE\t%s\n", orDash(snap.ServiceName))
				fmt.Fprintf(tw, "PERIOD\t%s\n", snap.Period)
				fmt.Fprintf(tw, "HEALTH\t%s\n", m.Health)
				fmt.Fprintf(tw, "TREND\t%s\n", m.Trend)
				fmt.Fprintf(tw, "UPTIME 24H / 7D / 30D\t%s / %s / %s\n",
					percent(m.Stats.Uptime24h), percent(m.Stats.Uptime7d), percent(m.Stats.Uptime30d))
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "TIME\tUPTIME\tSTATUS")
				for _, pt := range m.Points {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.printer.time(pt.Timestamp), percent(pt.UptimePercentage), status.Label(pt.Status))
				}
			})
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", string(uptime.DefaultPeriod), "period of the series (24h, 7d, 30d)")
	return cmd
}

func (rt *runtime) uptimeOverview(cmd *cobra.Command, client *apiclient.Client) error {
	stats, err := client.UptimeOverview(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([]uptimeRow, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, uptimeRow{
			ServiceID:   s.ServiceID,
			ServiceName: s.ServiceName,
			Status:      s.CurrentStatus,
			Uptime24h:   s.Uptime24h,
			Uptime7d:    s.Uptime7d,
			Uptime30d:   s.Uptime30d,
			Health:      uptime.Classify(s.CurrentUptimePercentage),
			Trend:       uptime.TrendOf(s.Uptime7d, s.Uptime30d),
		})
	}

	return rt.printer.print(rows, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tSERVICE\tSTATUS\t24H\t7D\t30D\tHEALTH\tTREND")
		for _, r := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ServiceID, r.ServiceName, status.Label(r.Status),
				percent(r.Uptime24h), percent(r.Uptime7d), percent(r.Uptime30d), r.Health, r.Trend)
		}
	})
}

func newVersionCmd(_ *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip the root pre-run so version works without an api url.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String("statusctl"))
		},
	}
}
