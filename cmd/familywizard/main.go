// Command familywizard walks a family through the onboarding profile in the
// terminal and submits it to the API (or writes it to a YAML file).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/submit"
	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/tui"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/roster"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/wizard"
	"github.com/Overland-East-Bay/family-planner-api/internal/platform/logging"
)

type options struct {
	apiURL   string
	outPath  string
	fromPath string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:          "familywizard",
		Short:        "Build a family travel profile interactively",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, opts)
		},
	}

	defaultURL := os.Getenv("FAMILY_PLANNER_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	cmd.Flags().StringVar(&opts.apiURL, "api-url", defaultURL, "base URL of the family planner API")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "write the profile to this YAML file instead of calling the API")
	cmd.Flags().StringVar(&opts.fromPath, "from", "", "prefill the wizard from a YAML profile file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts options) error {
	logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel, "text")
	if err != nil {
		return err
	}

	var (
		sub     wizard.Submitter
		httpSub *submit.HTTPSubmitter
	)
	if opts.outPath != "" {
		sub = submit.FileSubmitter{Path: opts.outPath}
	} else {
		httpSub = submit.NewHTTPSubmitter(opts.apiURL)
		sub = httpSub
	}

	driver := tui.NewSurveyDriver(cmd.OutOrStdout())
	r := roster.New(tui.Confirmer{Driver: driver})
	seq, steps, err := wizard.NewFamilyWizard(r, sub)
	if err != nil {
		return err
	}

	if opts.fromPath != "" {
		p, err := submit.LoadProfileFile(opts.fromPath)
		if err != nil {
			return err
		}
		steps.Prefill(p)
		logger.Debug("prefilled profile", "path", opts.fromPath, "members", len(p.Members))
	}

	profile, err := tui.NewRunner(driver, seq, steps).Run(ctx)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "aborted; nothing was submitted")
		return err
	}
	if err != nil {
		logger.Error("wizard failed", "err", err)
		return err
	}

	name := "family"
	if profile.BasicInfo != nil {
		name = profile.BasicInfo.FamilyName
	}
	out := cmd.OutOrStdout()
	if httpSub != nil {
		fmt.Fprintf(out, "Saved %s as %s\n", name, httpSub.LastFamilyID())
	} else {
		fmt.Fprintf(out, "Wrote profile for %s to %s\n", name, opts.outPath)
	}
	return nil
}
