package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

func main() {
	inputPath := flag.String("input", "", "Path to the customer churn CSV")
	configPath := flag.String("config", "", "Optional YAML config file (default CHURN_ANALYSIS_CONFIG)")
	horizon := flag.Int("horizon", 0, "CLV projection horizon in months (overrides config)")
	investment := flag.Float64("investment", 0, "Assumed intervention investment in dollars (overrides config)")
	jsonOut := flag.String("json", "", "Optional JSON report output path")
	highRiskOut := flag.String("high-risk", "", "Optional CSV output for high-risk customers")
	summaryOut := flag.String("summary", "", "Optional CSV output for summary metrics")
	verbose := flag.Bool("v", false, "Verbose stage logging")
	progress := flag.Bool("progress", false, "Show a progress bar over the analysis stages")
	dbEnabled := flag.Bool("db", false, "Store the run in Postgres (requires CHURN_ANALYSIS_DB_URL or DATABASE_URL)")
	dbSchema := flag.String("db-schema", "churn_analysis", "Postgres schema for run tables")
	dbTag := flag.String("db-tag", "", "Optional label for this run")
	initDB := flag.Bool("init-db", false, "Initialize database schema and seed data if empty")
	flag.Parse()

	if *inputPath == "" {
		exitWithError(errors.New("--input is required"))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		exitWithError(err)
	}
	if *horizon != 0 {
		cfg.HorizonMonths = *horizon
	}
	if *investment != 0 {
		cfg.InterventionInvestment = *investment
	}
	if err := cfg.validate(); err != nil {
		exitWithError(err)
	}

	report, err := runAnalysis(*inputPath, cfg, runOptions{Verbose: *verbose, Progress: *progress})
	if err != nil {
		exitWithError(err)
	}

	printReport(report, *inputPath)

	if *jsonOut != "" {
		if err := writeJSON(report, *jsonOut); err != nil {
			exitWithError(err)
		}
		fmt.Printf("\nJSON report saved to %s\n", *jsonOut)
	}

	if *highRiskOut != "" {
		if err := writeHighRiskCSV(report, *highRiskOut); err != nil {
			exitWithError(err)
		}
		fmt.Printf("High-risk customer CSV saved to %s\n", *highRiskOut)
	}

	if *summaryOut != "" {
		if err := writeSummaryCSV(report, *summaryOut); err != nil {
			exitWithError(err)
		}
		fmt.Printf("Summary metrics CSV saved to %s\n", *summaryOut)
	}

	if *dbEnabled || *initDB {
		dbURL := dbURLFromEnv()
		if dbURL == "" {
			exitWithError(errors.New("database URL missing; set CHURN_ANALYSIS_DB_URL or DATABASE_URL"))
		}
		dbCfg := DBConfig{
			URL:    dbURL,
			Schema: *dbSchema,
			Tag:    *dbTag,
		}
		seeded := false
		if *initDB {
			runID, err := seedDatabase(report, dbCfg)
			if err != nil {
				exitWithError(err)
			}
			if runID != "" {
				seeded = true
				fmt.Printf("\nSeeded Postgres with initial churn run (run_id=%s)\n", runID)
			}
		}
		if *dbEnabled {
			if seeded {
				fmt.Println("Skipped duplicate insert; current report already used for seed.")
			} else {
				runID, err := storeReportInDB(report, dbCfg)
				if err != nil {
					exitWithError(err)
				}
				fmt.Printf("\nStored churn run in Postgres (run_id=%s)\n", runID)
			}
		}
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
