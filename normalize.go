package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	errDataSourceNotFound   = errors.New("data source not found")
	errDataSourceUnreadable = errors.New("data source unreadable")
)

// Customer is one normalized row of the churn table. Charge fields default
// to 0 when the raw value does not parse; that is a new-customer signal,
// not an error.
type Customer struct {
	ID               string
	Gender           string
	SeniorCitizen    string
	Partner          string
	Dependents       string
	TenureMonths     int
	PhoneService     string
	MultipleLines    string
	InternetService  string
	OnlineSecurity   string
	OnlineBackup     string
	DeviceProtection string
	TechSupport      string
	StreamingTV      string
	StreamingMovies  string
	Contract         string
	PaperlessBilling string
	PaymentMethod    string
	MonthlyCharges   float64
	TotalCharges     float64
	Churned          bool
	TenureGroup      string
	ServiceCount     int
	RevenueAtRisk    float64
}

const (
	tenureGroup0to12  = "0-12 months"
	tenureGroup13to24 = "13-24 months"
	tenureGroup25to48 = "25-48 months"
	tenureGroup49to72 = "49-72 months"
)

var tenureGroupOrder = []string{
	tenureGroup0to12,
	tenureGroup13to24,
	tenureGroup25to48,
	tenureGroup49to72,
}

var contractOrder = []string{"Month-to-month", "One year", "Two year"}

// inactiveServiceValues are the service-field answers that do not count as
// an active add-on.
var inactiveServiceValues = map[string]bool{
	"No":                  true,
	"No phone service":    true,
	"No internet service": true,
}

// loadCustomers reads the churn CSV at path and returns the normalized
// customer set plus the number of rows skipped for missing IDs or
// unparseable tenure.
func loadCustomers(path string) ([]Customer, int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", errDataSourceNotFound, path)
		}
		return nil, 0, fmt.Errorf("%w: %v", errDataSourceUnreadable, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: unable to read header: %v", errDataSourceUnreadable, err)
	}

	colMap := normalizeHeaders(headers)
	idIdx, ok := findColumn(colMap, []string{"customer_id", "customerid", "id"})
	if !ok {
		return nil, 0, errors.New("missing customerID column")
	}
	tenureIdx, ok := findColumn(colMap, []string{"tenure", "tenure_months"})
	if !ok {
		return nil, 0, errors.New("missing tenure column")
	}
	churnIdx, ok := findColumn(colMap, []string{"churn", "churned"})
	if !ok {
		return nil, 0, errors.New("missing churn column")
	}
	monthlyIdx, _ := findColumn(colMap, []string{"monthly_charges", "monthlycharge"})
	totalIdx, _ := findColumn(colMap, []string{"total_charges", "totalcharge"})
	genderIdx, _ := findColumn(colMap, []string{"gender"})
	seniorIdx, _ := findColumn(colMap, []string{"senior_citizen", "seniorcitizen"})
	partnerIdx, _ := findColumn(colMap, []string{"partner"})
	dependentsIdx, _ := findColumn(colMap, []string{"dependents"})
	phoneIdx, _ := findColumn(colMap, []string{"phone_service", "phoneservice"})
	multiLinesIdx, _ := findColumn(colMap, []string{"multiple_lines", "multiplelines"})
	internetIdx, _ := findColumn(colMap, []string{"internet_service", "internetservice"})
	securityIdx, _ := findColumn(colMap, []string{"online_security", "onlinesecurity"})
	backupIdx, _ := findColumn(colMap, []string{"online_backup", "onlinebackup"})
	protectionIdx, _ := findColumn(colMap, []string{"device_protection", "deviceprotection"})
	supportIdx, _ := findColumn(colMap, []string{"tech_support", "techsupport"})
	streamTVIdx, _ := findColumn(colMap, []string{"streaming_tv", "streamingtv"})
	streamMoviesIdx, _ := findColumn(colMap, []string{"streaming_movies", "streamingmovies"})
	contractIdx, _ := findColumn(colMap, []string{"contract", "contract_type"})
	paperlessIdx, _ := findColumn(colMap, []string{"paperless_billing", "paperlessbilling"})
	paymentIdx, _ := findColumn(colMap, []string{"payment_method", "paymentmethod"})

	customers := []Customer{}
	invalidRows := 0

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, fmt.Errorf("%w: %v", errDataSourceUnreadable, err)
		}
		if len(record) == 0 {
			continue
		}

		id := getValue(record, idIdx)
		if id == "" {
			invalidRows++
			continue
		}
		tenure, err := strconv.Atoi(getValue(record, tenureIdx))
		if err != nil {
			invalidRows++
			continue
		}

		customer := newCustomer(rawCustomer{
			ID:               id,
			Gender:           getValue(record, genderIdx),
			SeniorCitizen:    getValue(record, seniorIdx),
			Partner:          getValue(record, partnerIdx),
			Dependents:       getValue(record, dependentsIdx),
			TenureMonths:     tenure,
			PhoneService:     getValue(record, phoneIdx),
			MultipleLines:    getValue(record, multiLinesIdx),
			InternetService:  getValue(record, internetIdx),
			OnlineSecurity:   getValue(record, securityIdx),
			OnlineBackup:     getValue(record, backupIdx),
			DeviceProtection: getValue(record, protectionIdx),
			TechSupport:      getValue(record, supportIdx),
			StreamingTV:      getValue(record, streamTVIdx),
			StreamingMovies:  getValue(record, streamMoviesIdx),
			Contract:         getValue(record, contractIdx),
			PaperlessBilling: getValue(record, paperlessIdx),
			PaymentMethod:    getValue(record, paymentIdx),
			MonthlyCharges:   getValue(record, monthlyIdx),
			TotalCharges:     getValue(record, totalIdx),
			Churn:            getValue(record, churnIdx),
		})
		customers = append(customers, customer)
	}

	return customers, invalidRows, nil
}

// rawCustomer holds the untyped field values of one CSV row.
type rawCustomer struct {
	ID               string
	Gender           string
	SeniorCitizen    string
	Partner          string
	Dependents       string
	TenureMonths     int
	PhoneService     string
	MultipleLines    string
	InternetService  string
	OnlineSecurity   string
	OnlineBackup     string
	DeviceProtection string
	TechSupport      string
	StreamingTV      string
	StreamingMovies  string
	Contract         string
	PaperlessBilling string
	PaymentMethod    string
	MonthlyCharges   string
	TotalCharges     string
	Churn            string
}

// newCustomer applies the cleaning rules and derives the tenure group,
// service count, churn flag and per-record revenue at risk.
func newCustomer(raw rawCustomer) Customer {
	customer := Customer{
		ID:               raw.ID,
		Gender:           raw.Gender,
		SeniorCitizen:    mapSeniorCitizen(raw.SeniorCitizen),
		Partner:          raw.Partner,
		Dependents:       raw.Dependents,
		TenureMonths:     raw.TenureMonths,
		PhoneService:     raw.PhoneService,
		MultipleLines:    raw.MultipleLines,
		InternetService:  raw.InternetService,
		OnlineSecurity:   raw.OnlineSecurity,
		OnlineBackup:     raw.OnlineBackup,
		DeviceProtection: raw.DeviceProtection,
		TechSupport:      raw.TechSupport,
		StreamingTV:      raw.StreamingTV,
		StreamingMovies:  raw.StreamingMovies,
		Contract:         raw.Contract,
		PaperlessBilling: raw.PaperlessBilling,
		PaymentMethod:    raw.PaymentMethod,
		MonthlyCharges:   parseCharge(raw.MonthlyCharges),
		TotalCharges:     parseCharge(raw.TotalCharges),
		Churned:          raw.Churn == "Yes",
	}

	customer.TenureGroup = tenureGroup(customer.TenureMonths)
	customer.ServiceCount = serviceCount(customer)
	if customer.Churned {
		customer.RevenueAtRisk = customer.MonthlyCharges
	}
	return customer
}

// parseCharge coerces a charge field, substituting 0 for anything that does
// not parse (blank TotalCharges rows are new customers).
func parseCharge(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

// mapSeniorCitizen maps the raw 0/1 indicator onto No/Yes so the field
// groups like the other categoricals. Already-mapped values pass through.
func mapSeniorCitizen(value string) string {
	switch strings.TrimSpace(value) {
	case "0":
		return "No"
	case "1":
		return "Yes"
	default:
		return strings.TrimSpace(value)
	}
}

// tenureGroup buckets tenure into the four fixed ranges. Boundary values
// 12, 24 and 48 fall into the lower bucket; tenure outside [0, 72] is left
// uncategorized.
func tenureGroup(months int) string {
	switch {
	case months < 0:
		return ""
	case months <= 12:
		return tenureGroup0to12
	case months <= 24:
		return tenureGroup13to24
	case months <= 48:
		return tenureGroup25to48
	case months <= 72:
		return tenureGroup49to72
	default:
		return ""
	}
}

// serviceCount counts the add-on services a customer actually holds.
func serviceCount(c Customer) int {
	fields := []string{
		c.PhoneService,
		c.MultipleLines,
		c.InternetService,
		c.OnlineSecurity,
		c.OnlineBackup,
		c.DeviceProtection,
		c.TechSupport,
		c.StreamingTV,
		c.StreamingMovies,
	}
	count := 0
	for _, value := range fields {
		if value == "" {
			continue
		}
		if !inactiveServiceValues[value] {
			count++
		}
	}
	return count
}

func normalizeHeaders(headers []string) map[string]int {
	result := make(map[string]int, len(headers))
	for idx, header := range headers {
		normalized := normalizeHeader(header)
		if _, exists := result[normalized]; !exists {
			result[normalized] = idx
		}
	}
	return result
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}

func findColumn(headers map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := headers[normalizeHeader(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

func getValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
