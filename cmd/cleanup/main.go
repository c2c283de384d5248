// Command cleanup removes applicant profiles that belong to staff or superuser
// accounts, together with their applications and interviews.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"internhub/internal/config"
	"internhub/internal/database"
	"internhub/internal/repositories"
	"internhub/internal/services"

	"go.uber.org/zap"
)

type cleaner interface {
	CleanupStaffProfiles(ctx context.Context, dryRun bool) (*services.CleanupReport, error)
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	applicants := services.NewApplicantService(&repositories.ApplicantRepository{DB: db}, logger, cfg.CVDir, cfg.CVMaxBytes)

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, applicants); err != nil {
		fmt.Fprintln(os.Stderr, "cleanup:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer, svc cleaner) error {
	fs := flag.NewFlagSet("cleanup", flag.ContinueOnError)
	fs.SetOutput(out)
	dryRun := fs.Bool("dry-run", false, "list the profiles that would be deleted without deleting them")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := svc.CleanupStaffProfiles(ctx, true)
	if err != nil {
		return err
	}
	if len(report.Profiles) == 0 {
		fmt.Fprintln(out, "No applicant profiles attached to staff accounts.")
		return nil
	}

	fmt.Fprintf(out, "Found %d applicant profile(s) attached to staff accounts:\n", len(report.Profiles))
	for _, p := range report.Profiles {
		fmt.Fprintf(out, "  - applicant %d: user %q <%s>\n", p.ID, p.User.Username, p.User.Email)
	}
	if *dryRun {
		fmt.Fprintln(out, "Dry run, nothing deleted.")
		return nil
	}

	if !*yes {
		fmt.Fprint(out, "Delete these profiles and their applications? [y/N]: ")
		answer, _ := bufio.NewReader(in).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	report, err = svc.CleanupStaffProfiles(ctx, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d applicant profile(s).\n", report.Deleted)
	return nil
}
