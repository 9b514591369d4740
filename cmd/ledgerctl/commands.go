package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	mw "mifi-backend/internal/adapter/middleware"
	"mifi-backend/internal/adapter/repository/mysql"
	"mifi-backend/internal/config"
	domainReport "mifi-backend/internal/domain/report"
	"mifi-backend/internal/domain/user"
	"mifi-backend/internal/usecase/loan"
	"mifi-backend/internal/usecase/report"
	"mifi-backend/pkg/civil"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, log, err := a.db(cmd)
			if err != nil {
				return err
			}
			if err := mysql.AutoMigrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("schema up to date")
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

func sweepOverdueCmd(a *app) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Move active loans past their end date to overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := civil.Today()
			if asOf != "" {
				d, err := civil.Parse(asOf)
				if err != nil {
					return err
				}
				day = d
			}
			gdb, log, err := a.db(cmd)
			if err != nil {
				return err
			}
			uc := loan.NewUsecase(mysql.NewRepos(gdb), mysql.NewGormUoW(gdb), log, nil)
			n, err := uc.SweepOverdue(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d loan(s) moved to overdue as of %s\n", n, civil.Format(day))
			return nil
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "sweep date YYYY-MM-DD (default today, UTC)")
	return cmd
}

func reportCmd(a *app) *cobra.Command {
	var (
		start, end string
		save       bool
		by         uint64
	)
	cmd := &cobra.Command{
		Use:       "report NAME",
		Short:     "Print a ledger report as JSON, optionally storing it as a snapshot",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"payments_collected", "active_groups", "amount_loaned", "active_loans", "summary"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := domainReport.Name(args[0])
			if !name.Valid() {
				return fmt.Errorf("%w: %q", domainReport.ErrUnknownName, args[0])
			}
			in := report.GenerateInput{Name: name}
			var err error
			if start != "" {
				if in.StartDate, err = civil.Parse(start); err != nil {
					return err
				}
			}
			if end != "" {
				if in.EndDate, err = civil.Parse(end); err != nil {
					return err
				}
			}
			if (name == domainReport.NamePaymentsCollected || name == domainReport.NameSummary) && (start == "" || end == "") {
				return errors.New("--start and --end are required for this report")
			}

			gdb, log, err := a.db(cmd)
			if err != nil {
				return err
			}
			uc := report.NewUsecase(mysql.NewReportRepository(gdb), log)
			ctx := cmd.Context()

			var out any
			switch {
			case save:
				out, err = uc.Generate(ctx, user.Actor{UserID: by}, in)
			case name == domainReport.NamePaymentsCollected:
				out, err = uc.PaymentsCollected(ctx, in.StartDate, in.EndDate)
			case name == domainReport.NameActiveGroups:
				out, err = uc.ActiveGroups(ctx)
			case name == domainReport.NameAmountLoaned:
				out, err = uc.AmountLoaned(ctx)
			case name == domainReport.NameActiveLoans:
				out, err = uc.ActiveLoans(ctx)
			default:
				out, err = uc.Summary(ctx, in.StartDate, in.EndDate)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "range start YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "range end YYYY-MM-DD")
	cmd.Flags().BoolVar(&save, "save", false, "store the result as a report snapshot")
	cmd.Flags().Uint64Var(&by, "by", 0, "user id recorded as the snapshot author")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		userID uint64
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for local testing (uses JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := config.Load().JWTSecret
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			r := user.Role(role)
			if !r.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			if userID == 0 {
				return errors.New("--user is required")
			}
			tok, err := mw.IssueToken([]byte(secret), user.Actor{UserID: userID, Role: r}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&userID, "user", 0, "user id placed in the token subject")
	cmd.Flags().StringVar(&role, "role", string(user.RoleLoanOfficer), "user role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
