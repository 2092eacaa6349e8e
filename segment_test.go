package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func segmentCustomer(contract string, charge float64, churned bool) Customer {
	return Customer{Contract: contract, MonthlyCharges: charge, Churned: churned}
}

func TestAggregateSegmentsFirstSeenOrder(t *testing.T) {
	customers := []Customer{
		segmentCustomer("Two year", 50, false),
		segmentCustomer("Month-to-month", 80, true),
		segmentCustomer("Two year", 60, false),
		segmentCustomer("One year", 70, false),
	}

	segments, err := aggregateSegments(customers, "Contract")
	require.NoError(t, err)
	require.Len(t, segments, 3)
	require.Equal(t, "Two year", segments[0].Value)
	require.Equal(t, "Month-to-month", segments[1].Value)
	require.Equal(t, "One year", segments[2].Value)
}

func TestAggregateSegmentsDisplayOrder(t *testing.T) {
	customers := []Customer{
		segmentCustomer("Two year", 50, false),
		segmentCustomer("Month-to-month", 80, true),
	}

	segments, err := aggregateSegmentsOrdered(customers, "Contract", contractOrder)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	require.Equal(t, "Month-to-month", segments[0].Value)
	require.Equal(t, "Two year", segments[1].Value)
}

func TestAggregateSegmentsOrderIndependentNumerics(t *testing.T) {
	forward := []Customer{
		segmentCustomer("Month-to-month", 80, true),
		segmentCustomer("Month-to-month", 40, false),
		segmentCustomer("One year", 60, false),
	}
	reversed := []Customer{forward[2], forward[1], forward[0]}

	forwardSegments, err := aggregateSegmentsOrdered(forward, "Contract", contractOrder)
	require.NoError(t, err)
	reversedSegments, err := aggregateSegmentsOrdered(reversed, "Contract", contractOrder)
	require.NoError(t, err)
	require.Equal(t, forwardSegments, reversedSegments)
}

func TestAggregateSegmentsRevenueAtRiskApportionment(t *testing.T) {
	customers := []Customer{
		newCustomer(rawCustomer{ID: "C-1", Contract: "Month-to-month", MonthlyCharges: "100", Churn: "Yes"}),
		newCustomer(rawCustomer{ID: "C-2", Contract: "Month-to-month", MonthlyCharges: "50", Churn: "No"}),
	}

	segments, err := aggregateSegments(customers, "Contract")
	require.NoError(t, err)
	require.Len(t, segments, 1)

	segment := segments[0]
	require.InDelta(t, 0.5, segment.ChurnRate, 1e-9)
	require.InDelta(t, 150, segment.TotalRevenue, 1e-9)
	// The aggregate apportions the whole segment's revenue by its churn
	// rate, which is not the churned members' own charges.
	require.InDelta(t, 75, segment.RevenueAtRisk, 1e-9)

	churnedCharges := 0.0
	for _, customer := range customers {
		churnedCharges += customer.RevenueAtRisk
	}
	require.InDelta(t, 100, churnedCharges, 1e-9)
	require.NotEqual(t, churnedCharges, segment.RevenueAtRisk)
}

func TestAggregateSegmentsSkipsUncategorized(t *testing.T) {
	customers := []Customer{
		{TenureGroup: tenureGroup0to12, MonthlyCharges: 30},
		{TenureGroup: "", MonthlyCharges: 99},
	}

	segments, err := aggregateSegments(customers, "TenureGroup")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	require.Equal(t, tenureGroup0to12, segments[0].Value)
	require.Equal(t, 1, segments[0].Customers)
}

func TestAggregateSegmentsUnknownField(t *testing.T) {
	_, err := aggregateSegments([]Customer{{Contract: "One year"}}, "FavoriteColor")
	require.ErrorIs(t, err, errUnknownField)
}
