package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectCLVLinear(t *testing.T) {
	customer := Customer{TotalCharges: 100, MonthlyCharges: 50}

	projection := projectCLV(customer, 36)
	require.InDelta(t, 1900, projection.ProjectedCLV, 1e-9)
	require.Equal(t, 0.0, projection.CLVAtRisk)

	customer.Churned = true
	projection = projectCLV(customer, 36)
	require.InDelta(t, 1900, projection.ProjectedCLV, 1e-9)
	require.InDelta(t, 1900, projection.CLVAtRisk, 1e-9)
}

func TestProjectCLVHorizonScaling(t *testing.T) {
	customer := Customer{TotalCharges: 200, MonthlyCharges: 10}
	require.InDelta(t, 210, projectCLV(customer, 1).ProjectedCLV, 1e-9)
	require.InDelta(t, 320, projectCLV(customer, 12).ProjectedCLV, 1e-9)
}

func TestSummarizeCLV(t *testing.T) {
	customers := []Customer{
		{Contract: "Month-to-month", TotalCharges: 100, MonthlyCharges: 50, Churned: true},
		{Contract: "Month-to-month", TotalCharges: 300, MonthlyCharges: 50, Churned: false},
		{Contract: "Two year", TotalCharges: 2000, MonthlyCharges: 25, Churned: false},
	}

	summary := summarizeCLV(customers, 36)
	require.Equal(t, 36, summary.HorizonMonths)

	// Projections: 1900, 2100, 2900.
	require.InDelta(t, 2300, summary.AvgCLVAll, 1e-9)
	require.InDelta(t, 1900, summary.AvgCLVChurned, 1e-9)
	require.InDelta(t, 2500, summary.AvgCLVRetained, 1e-9)
	require.InDelta(t, 1900, summary.TotalCLVAtRisk, 1e-9)
	require.InDelta(t, 50, summary.MonthlyRevenueLoss, 1e-9)
	require.InDelta(t, 600, summary.AnnualRevenueLoss, 1e-9)

	require.Len(t, summary.ByContract, 2)
	require.Equal(t, "Month-to-month", summary.ByContract[0].Contract)
	require.InDelta(t, 2000, summary.ByContract[0].AvgCLV, 1e-9)
	require.Equal(t, "Two year", summary.ByContract[1].Contract)
	require.InDelta(t, 2900, summary.ByContract[1].AvgCLV, 1e-9)
}
