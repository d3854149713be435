package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mmdatafocus/ffbaudit_backend/audit"
	"github.com/mmdatafocus/ffbaudit_backend/config"
	"github.com/mmdatafocus/ffbaudit_backend/models"
	"github.com/mmdatafocus/ffbaudit_backend/models/reports"
	"github.com/mmdatafocus/ffbaudit_backend/utils"
)

func main() {
	estates := flag.String("estates", "", "Comma-separated estate codes. Defaults to AUDIT_ESTATES.")
	from := flag.String("from", "", "Start date (YYYY-MM-DD). Required.")
	to := flag.String("to", "", "End date (YYYY-MM-DD). Required.")
	statusFilter := flag.String("verifier-status", "", "Optional: restrict discrepancy comparison to verifier records with this status code.")
	workers := flag.Int("workers", 0, "Optional: estate worker pool size (default from AUDIT_WORKERS).")
	out := flag.String("out", "", "Optional: write the verification report workbook to this .xlsx path.")
	upload := flag.Bool("upload", false, "Upload the workbook to GCS (requires -out and GCS_BUCKET).")
	flag.Parse()

	if err := utils.ValidateDateString(*from); err != nil {
		fmt.Fprintf(os.Stderr, "-from: %v\n", err)
		os.Exit(2)
	}
	if err := utils.ValidateDateString(*to); err != nil {
		fmt.Fprintf(os.Stderr, "-to: %v\n", err)
		os.Exit(2)
	}

	logger := config.GetLogger()
	auditCfg, err := config.LoadAuditConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid audit configuration: %v\n", err)
		os.Exit(1)
	}

	cfg := auditCfg.RunConfig(*from, *to)
	if strings.TrimSpace(*estates) != "" {
		cfg.Estates = nil
		for _, e := range strings.Split(*estates, ",") {
			if e = strings.TrimSpace(e); e != "" {
				cfg.Estates = append(cfg.Estates, e)
			}
		}
	}
	if *statusFilter != "" {
		cfg.ApplyVerifierStatusFilter = true
		cfg.VerifierStatus = *statusFilter
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	if failures := config.ConnectEstateDatabases(cfg.Estates); len(failures) > 0 {
		for estate, ferr := range failures {
			fmt.Fprintf(os.Stderr, "estate %s unreachable: %v\n", estate, ferr)
		}
	}

	// Ctrl-C cancels between estates; completed estates are still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := models.NewScannerRepository(logger)
	orchestrator := &audit.Orchestrator{Source: repo, Directory: repo, Logger: logger}

	result, err := orchestrator.Run(ctx, cfg, func(i, n int, message string) {
		fmt.Printf("[%d/%d] %s\n", i, n, message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit run failed to start: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("run %s: %s\n", result.RunID, result.Status)
	fmt.Printf("  kerani=%d verified=%d (%s%%) mandor=%d asisten=%d\n",
		result.TotalKerani, result.TotalVerified, result.VerificationRate().StringFixed(2),
		result.TotalMandor, result.TotalAsisten)
	for _, failure := range result.Failures {
		fmt.Printf("  FAILED %s: %s\n", failure.Estate, failure.Error)
	}

	if *out != "" {
		if err := reports.SaveAnalysisExcel(result, *out); err != nil {
			fmt.Fprintf(os.Stderr, "write workbook: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *out)

		if *upload {
			data, err := os.ReadFile(*out)
			if err != nil {
				fmt.Fprintf(os.Stderr, "read workbook for upload: %v\n", err)
				os.Exit(1)
			}
			objectName := fmt.Sprintf("%s_%s", result.RunID, strings.TrimPrefix(*out, "./"))
			if err := utils.UploadReportToGCS(context.Background(), objectName, bytes.NewReader(data)); err != nil {
				fmt.Fprintf(os.Stderr, "upload workbook: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("uploaded reports/%s\n", objectName)
		}
	}

	if result.Status == audit.RunFailed {
		os.Exit(1)
	}
}
