package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"vet-clinic-console/internal/adapters/terminal"
	"vet-clinic-console/internal/backend"
	"vet-clinic-console/internal/config"
	"vet-clinic-console/internal/domain/appointments"
	"vet-clinic-console/internal/domain/medicalhistory"
	"vet-clinic-console/internal/domain/transitions"
	"vet-clinic-console/internal/platform/logger"
)

// env es lo que comparten los comandos que tocan el backend.
type env struct {
	cfg config.Config
	log logger.Logger
	be  *backend.Backend
}

func openEnv(ctx context.Context, cmd *cobra.Command, envFile string) (*env, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	opts := cfg.LoggerOptions()
	opts.Output = cmd.ErrOrStderr()
	log := logger.New(opts)

	be, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, be: be}, nil
}

func transitionCmd(envFile *string) *cobra.Command {
	var appointmentID, status string

	cmd := &cobra.Command{
		Use:   "transition",
		Short: "Change an appointment status (asks for confirmation and medical history)",
		RunE: func(cmd *cobra.Command, args []string) error {
			requested, err := appointments.ParseStatus(status)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), cmd, *envFile)
			if err != nil {
				return err
			}
			defer e.be.Close()

			return runTransition(cmd.Context(), e, appointmentID, requested, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&appointmentID, "appointment", "", "Appointment ID")
	cmd.Flags().StringVar(&status, "status", "", "Target status (pending, confirmed, completed, cancelled or 0-3)")
	_ = cmd.MarkFlagRequired("appointment")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func runTransition(ctx context.Context, e *env, appointmentID string, requested appointments.Status, in io.Reader, out io.Writer) error {
	apptsSvc := appointments.NewService(e.be.Appointments)
	appt, err := apptsSvc.GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("load appointment %s: %w", appointmentID, err)
	}

	ctrl := transitions.NewController(apptsSvc, medicalhistory.NewReconciler(e.be.History), transitions.Options{
		Cooldown: e.cfg.TransitionCooldown,
		Logger:   e.log,
	})
	term := terminal.New(in, out)

	v, err := ctrl.Run(ctx, appt, requested, term, term)
	if err != nil {
		return errors.New(transitions.Notice(err))
	}

	switch {
	case v.Committed:
		fmt.Fprintf(out, "Appointment %s is now %s.\n", appt.ID, v.Requested.Label())
	case v.Aborted || v.Ignored:
		fmt.Fprintln(out, "No changes made.")
	case v.Workflow == "":
		fmt.Fprintf(out, "Appointment %s is already %s.\n", appt.ID, appt.Status.Label())
	default:
		fmt.Fprintln(out, "No changes made.")
	}
	return nil
}

func historyCmd(envFile *string) *cobra.Command {
	var petID string
	var page, limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a pet's medical history, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd, *envFile)
			if err != nil {
				return err
			}
			defer e.be.Close()

			items, err := medicalhistory.NewReconciler(e.be.History).ListByPet(cmd.Context(), petID, medicalhistory.Page{Page: page, Limit: limit})
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().StringVar(&petID, "pet", "", "Pet ID")
	cmd.Flags().IntVar(&page, "page", 1, "Page (from 1)")
	cmd.Flags().IntVar(&limit, "limit", medicalhistory.LookupLimit, "Page size (1-100)")
	_ = cmd.MarkFlagRequired("pet")
	return cmd
}

func printHistory(out io.Writer, items []medicalhistory.Record) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No medical history records.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAPPOINTMENT\tDESCRIPTION\tTREATMENT\tFOLLOW-UP")
	for _, r := range items {
		follow := "-"
		if r.NextAppointmentDate != nil {
			follow = r.NextAppointmentDate.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.RecordDate.Format("2006-01-02"),
			orDash(r.AppointmentID),
			r.Description,
			r.Treatment,
			follow,
		)
	}
	_ = tw.Flush()
}

func followUpCmd() *cobra.Command {
	var date, at string

	cmd := &cobra.Command{
		Use:   "follow-up",
		Short: "Print the follow-up timestamp for a date and optional time (default 09:00)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), time.Local)
			if err != nil {
				return errors.New("date must be YYYY-MM-DD")
			}
			ts := medicalhistory.FollowUpTimestamp(&d, at)
			fmt.Fprintln(cmd.OutOrStdout(), ts.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Follow-up date YYYY-MM-DD")
	cmd.Flags().StringVar(&at, "time", "", "Follow-up time HH:MM")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
