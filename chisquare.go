package main

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// significanceLevel is the threshold below which a factor's p-value counts
// as a significant association with churn. Seven factors are tested per
// run with no multiple-comparison correction.
const significanceLevel = 0.05

// FactorTest is the result of one chi-square independence test between a
// categorical factor and the churn outcome.
type FactorTest struct {
	Factor           string  `json:"factor"`
	ChiSquare        float64 `json:"chi_square"`
	PValue           float64 `json:"p_value"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	Significant      bool    `json:"significant"`
}

// testIndependence builds a contingency table between fieldA and fieldB
// over the observed categories and computes the Pearson chi-square
// statistic with (rows-1)*(cols-1) degrees of freedom. Records with an
// empty value on either axis are excluded from the table.
func testIndependence(customers []Customer, fieldA, fieldB string) (FactorTest, error) {
	rowIndex := map[string]int{}
	colIndex := map[string]int{}
	cells := map[[2]int]float64{}

	for _, customer := range customers {
		rowValue, err := fieldValue(customer, fieldA)
		if err != nil {
			return FactorTest{}, err
		}
		colValue, err := fieldValue(customer, fieldB)
		if err != nil {
			return FactorTest{}, err
		}
		if rowValue == "" || colValue == "" {
			continue
		}
		row, exists := rowIndex[rowValue]
		if !exists {
			row = len(rowIndex)
			rowIndex[rowValue] = row
		}
		col, exists := colIndex[colValue]
		if !exists {
			col = len(colIndex)
			colIndex[colValue] = col
		}
		cells[[2]int{row, col}]++
	}

	rows := len(rowIndex)
	cols := len(colIndex)
	if rows < 2 || cols < 2 {
		return FactorTest{}, fmt.Errorf("chi-square %s x %s: needs at least two categories per axis, got %dx%d", fieldA, fieldB, rows, cols)
	}

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	grandTotal := 0.0
	for key, count := range cells {
		rowTotals[key[0]] += count
		colTotals[key[1]] += count
		grandTotal += count
	}

	chiSquare := 0.0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			expected := rowTotals[row] * colTotals[col] / grandTotal
			if expected == 0 {
				continue
			}
			observed := cells[[2]int{row, col}]
			diff := observed - expected
			chiSquare += diff * diff / expected
		}
	}

	dof := (rows - 1) * (cols - 1)
	pValue := distuv.ChiSquared{K: float64(dof)}.Survival(chiSquare)

	return FactorTest{
		Factor:           fieldA,
		ChiSquare:        chiSquare,
		PValue:           pValue,
		DegreesOfFreedom: dof,
		Significant:      pValue < significanceLevel,
	}, nil
}
