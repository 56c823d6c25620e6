package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"catalogsync/internal/api"
	"catalogsync/internal/config"
	"catalogsync/internal/crawler"
	"catalogsync/internal/pipeline"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newExtractCmd() *cobra.Command {
	var (
		productType string
		insert      bool
	)

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract one product page and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			expected, err := pipeline.ParseExpectedType(productType)
			if err != nil {
				return err
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.processor.ProcessProduct(ctx, args[0], expected, insert)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			if !out.Success {
				return fmt.Errorf("extraction failed: %w", out.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&productType, "type", "t", "", "expected type: part or material")
	cmd.Flags().BoolVar(&insert, "insert", false, "reconcile the result into the catalog")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Process every URL in a JSON or YAML batch file",
		Long: `batch reads materials (several supplier URLs sharing one catalog entry),
individual products and categories from the file, processes them with a
delay between requests and writes batch-results-<timestamp>.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			batch, err := config.LoadBatch(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			pacer := crawler.NewPacer(batch.Delay(cfg.RequestDelay), cfg.RequestJitter, cfg.BotBlockBackoff)
			report, runErr := pipeline.NewBatchRunner(a.processor, pacer).Run(ctx, batch)
			if report != nil {
				path, err := pipeline.WriteReport(outDir, report, time.Now())
				if err != nil {
					return err
				}
				pipeline.PrintSummary(cmd.OutOrStdout(), report)
				logger.Info().Str("path", path).Msg("batch results saved")
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the results file")
	return cmd
}

func newUpdatePricesCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "update-prices",
		Short: "Re-check every supplier link and record price changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			pacer := crawler.NewPacer(cfg.RequestDelay, cfg.RequestJitter, cfg.BotBlockBackoff)
			report, err := pipeline.NewPriceUpdater(a.processor, a.store, pacer, dryRun).Run(ctx)
			if report != nil {
				pipeline.PrintPriceReport(cmd.OutOrStdout(), report, dryRun)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing them")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /extract over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			if addr == "" {
				addr = cfg.HTTPAddr
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(a.processor, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", addr).Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: HTTP_ADDR or :3001)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog schema for the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", cfg.DatabaseDriver)
			return nil
		},
	}
}
