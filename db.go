package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBConfig points the run store at a Postgres schema.
type DBConfig struct {
	URL    string
	Schema string
	Tag    string
}

func dbURLFromEnv() string {
	if value := strings.TrimSpace(os.Getenv("CHURN_ANALYSIS_DB_URL")); value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}

func sanitizeSchema(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("db schema is required")
	}
	valid := regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	if !valid.MatchString(value) {
		return "", fmt.Errorf("invalid schema name: %s", value)
	}
	return value, nil
}

// seedDatabase initializes the schema and stores the current report only
// when no prior run exists.
func seedDatabase(report Report, cfg DBConfig) (string, error) {
	schema, err := sanitizeSchema(cfg.Schema)
	if err != nil {
		return "", err
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return "", err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return "", err
	}

	if err := ensureSchema(ctx, db, schema); err != nil {
		return "", err
	}

	var count int
	if err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s.churn_runs`, schema)).Scan(&count); err != nil {
		return "", err
	}
	if count > 0 {
		fmt.Println("Churn run data already present; skipping seed.")
		return "", nil
	}

	return storeReportTx(ctx, db, report, schema, cfg.Tag)
}

func storeReportInDB(report Report, cfg DBConfig) (string, error) {
	schema, err := sanitizeSchema(cfg.Schema)
	if err != nil {
		return "", err
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return "", err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return "", err
	}

	if err := ensureSchema(ctx, db, schema); err != nil {
		return "", err
	}

	return storeReportTx(ctx, db, report, schema, cfg.Tag)
}

func storeReportTx(ctx context.Context, db *sql.DB, report Report, schema string, tag string) (string, error) {
	runID := uuid.New()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s.churn_runs (
			id, total_customers, churned_customers, churn_rate,
			avg_monthly_charges, avg_tenure_months, invalid_rows,
			clv_horizon_months, total_clv_at_risk, annual_revenue_loss,
			projected_churn_rate, customers_saved, revenue_protected,
			investment, roi, run_tag
		) VALUES (
			$1,$2,$3,$4,
			$5,$6,$7,
			$8,$9,$10,
			$11,$12,$13,
			$14,$15,$16
		)`, schema),
		runID,
		report.Overview.TotalCustomers,
		report.Overview.ChurnedCustomers,
		report.Overview.ChurnRate,
		report.Overview.AvgMonthlyCharges,
		report.Overview.AvgTenureMonths,
		report.Overview.InvalidRows,
		report.CLV.HorizonMonths,
		report.CLV.TotalCLVAtRisk,
		report.CLV.AnnualRevenueLoss,
		report.Impact.ProjectedChurnRate,
		report.Impact.CustomersSaved,
		report.Impact.RevenueProtected,
		report.Impact.Investment,
		report.Impact.ROI,
		nullString(tag),
	)
	if err != nil {
		_ = tx.Rollback()
		return "", err
	}

	insertSegmentSQL := fmt.Sprintf(`
		INSERT INTO %s.churn_segment_summary (
			id, run_id, dimension, segment_value, customers, churned,
			churn_rate, total_revenue, revenue_at_risk
		) VALUES (
			$1,$2,$3,$4,$5,$6,
			$7,$8,$9
		)`, schema)

	for _, segmentReport := range report.Segments {
		for _, segment := range segmentReport.Segments {
			_, err = tx.ExecContext(ctx, insertSegmentSQL,
				uuid.New(),
				runID,
				segmentReport.Dimension,
				segment.Value,
				segment.Customers,
				segment.Churned,
				segment.ChurnRate,
				segment.TotalRevenue,
				segment.RevenueAtRisk,
			)
			if err != nil {
				_ = tx.Rollback()
				return "", err
			}
		}
	}

	insertTestSQL := fmt.Sprintf(`
		INSERT INTO %s.churn_factor_tests (
			id, run_id, factor, chi_square, p_value, degrees_of_freedom, significant
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7
		)`, schema)

	for _, test := range report.FactorTests {
		_, err = tx.ExecContext(ctx, insertTestSQL,
			uuid.New(),
			runID,
			test.Factor,
			test.ChiSquare,
			test.PValue,
			test.DegreesOfFreedom,
			test.Significant,
		)
		if err != nil {
			_ = tx.Rollback()
			return "", err
		}
	}

	insertCustomerSQL := fmt.Sprintf(`
		INSERT INTO %s.churn_high_risk_customers (
			id, run_id, customer_id, tenure_months, contract,
			monthly_charges, payment_method, tech_support,
			internet_service, risk_score, risk_category
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,
			$9,$10,$11
		)`, schema)

	for _, entry := range report.HighRiskCustomers {
		_, err = tx.ExecContext(ctx, insertCustomerSQL,
			uuid.New(),
			runID,
			entry.CustomerID,
			entry.TenureMonths,
			nullString(entry.Contract),
			entry.MonthlyCharges,
			nullString(entry.PaymentMethod),
			nullString(entry.TechSupport),
			nullString(entry.InternetService),
			entry.Score,
			entry.Category,
		)
		if err != nil {
			_ = tx.Rollback()
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID.String(), nil
}

func ensureSchema(ctx context.Context, db *sql.DB, schema string) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema)); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.churn_runs (
			id uuid PRIMARY KEY,
			total_customers integer NOT NULL,
			churned_customers integer NOT NULL,
			churn_rate numeric(8,5) NOT NULL,
			avg_monthly_charges numeric(12,2) NOT NULL,
			avg_tenure_months numeric(8,2) NOT NULL,
			invalid_rows integer NOT NULL,
			clv_horizon_months integer NOT NULL,
			total_clv_at_risk numeric(14,2) NOT NULL,
			annual_revenue_loss numeric(14,2) NOT NULL,
			projected_churn_rate numeric(8,5) NOT NULL,
			customers_saved integer NOT NULL,
			revenue_protected numeric(14,2) NOT NULL,
			investment numeric(14,2) NOT NULL,
			roi numeric(10,2) NOT NULL,
			run_tag text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.churn_segment_summary (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.churn_runs(id) ON DELETE CASCADE,
			dimension text NOT NULL,
			segment_value text NOT NULL,
			customers integer NOT NULL,
			churned integer NOT NULL,
			churn_rate numeric(8,5) NOT NULL,
			total_revenue numeric(14,2) NOT NULL,
			revenue_at_risk numeric(14,2) NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.churn_factor_tests (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.churn_runs(id) ON DELETE CASCADE,
			factor text NOT NULL,
			chi_square numeric(14,4) NOT NULL,
			p_value double precision NOT NULL,
			degrees_of_freedom integer NOT NULL,
			significant boolean NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.churn_high_risk_customers (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.churn_runs(id) ON DELETE CASCADE,
			customer_id text NOT NULL,
			tenure_months integer NOT NULL,
			contract text,
			monthly_charges numeric(12,2) NOT NULL,
			payment_method text,
			tech_support text,
			internet_service text,
			risk_score integer NOT NULL,
			risk_category text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_churn_segment_summary_run_idx ON %s.churn_segment_summary (run_id)`, schema, schema))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_churn_factor_tests_run_idx ON %s.churn_factor_tests (run_id)`, schema, schema))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_churn_high_risk_customers_run_idx ON %s.churn_high_risk_customers (run_id)`, schema, schema))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_churn_high_risk_customers_category_idx ON %s.churn_high_risk_customers (risk_category)`, schema, schema))
	return err
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
