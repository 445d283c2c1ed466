package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/bissquit/statusdash/internal/dashboard"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/status"
	"github.com/spf13/cobra"
)

const (
	defaultTimelineLimit = 20
	maxTimelineLimit     = 100
)

func newStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := dashboard.LoadOverviewPage(cmd.Context(), rt.client, nil, rt.opts.Now())
			if err != nil {
				return err
			}

			return rt.printer.print(page, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "OVERALL\t%s\n", page.OverallLabel)
				fmt.Fprintf(tw, "UPDATED\t%s\n", rt.printer.timePtr(page.LastUpdated))
				fmt.Fprintln(tw)

				fmt.Fprintln(tw, "SERVICE\tSTATUS")
				for _, s := range page.Services {
					fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.StatusLabel)
				}

				if len(page.Incidents) > 0 {
					fmt.Fprintln(tw)
					writeIncidents(tw, rt.printer, page.Incidents)
				}
				if len(page.Maintenances) > 0 {
					fmt.Fprintln(tw)
					fmt.Fprintln(tw, "MAINTENANCE\tSTATUS\tSTART\tEND")
					for _, m := range page.Maintenances {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Title, status.Label(string(m.Status)),
							rt.printer.time(m.ScheduledStart), rt.printer.time(m.ScheduledEnd))
					}
				}
			})
		},
	}
}

func newTimelineCmd(rt *runtime) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the last 30 days of events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 || limit > maxTimelineLimit {
				return fmt.Errorf("limit must be between 1 and %d", maxTimelineLimit)
			}
			if skip < 0 {
				return fmt.Errorf("skip must be a non-negative integer")
			}

			page, err := dashboard.LoadTimeline(cmd.Context(), rt.client, nil, rt.opts.Now(), skip, limit)
			if err != nil {
				return err
			}

			return rt.printer.print(page, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "TIME\tTYPE\tTITLE\tSTATUS\tSERVICE")
				for _, e := range page.Events {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rt.printer.time(e.Timestamp), e.Type,
						e.Title, status.Label(e.Status), orDash(e.ServiceName))
				}
				fmt.Fprintf(tw, "\nShowing %d-%d of %d\n", min(skip+1, page.Total), min(skip+len(page.Events), page.Total), page.Total)
			})
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "number of events to skip")
	cmd.Flags().IntVar(&limit, "limit", defaultTimelineLimit, "number of events to show")
	return cmd
}

func newServicesCmd(rt *runtime) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				services []domain.Service
				err      error
			)
			if all {
				_, client, lerr := rt.requireLogin(cmd.Context())
				if lerr != nil {
					return lerr
				}
				services, err = client.ListServices(cmd.Context())
			} else {
				services, err = rt.client.PublicServices(cmd.Context())
			}
			if err != nil {
				return err
			}

			return rt.printer.print(services, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tACTIVE\tUPDATED")
				for _, s := range services {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", s.ID, s.Name, status.Label(string(s.Status)),
						s.IsActive, rt.printer.time(s.UpdatedAt))
				}
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every service of the organization (requires login)")
	return cmd
}

func newIncidentsCmd(rt *runtime) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "incidents",
		Short: "List active incidents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				incidents []domain.Incident
				err       error
			)
			if all {
				_, client, lerr := rt.requireLogin(cmd.Context())
				if lerr != nil {
					return lerr
				}
				incidents, err = client.ListIncidents(cmd.Context())
			} else {
				incidents, err = rt.client.ActiveIncidents(cmd.Context())
			}
			if err != nil {
				return err
			}

			return rt.printer.print(incidents, func(tw *tabwriter.Writer) {
				writeIncidents(tw, rt.printer, incidents)
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include resolved incidents (requires login)")
	return cmd
}

func writeIncidents(tw *tabwriter.Writer, p *printer, incidents []domain.Incident) {
	fmt.Fprintln(tw, "ID\tINCIDENT\tSTATUS\tSTARTED\tRESOLVED")
	for _, i := range incidents {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i.ID, i.Title, status.Label(string(i.Status)),
			p.time(i.CreatedAt), p.timePtr(i.ResolvedAt))
	}
}
