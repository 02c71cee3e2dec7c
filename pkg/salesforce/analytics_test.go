package salesforce

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionRate(t *testing.T) {
	assert.Equal(t, float64(0), conversionRate(0, 0), "zero leads must not divide by zero")
	assert.Equal(t, float64(0), conversionRate(5, 0))
	assert.InDelta(t, 25.0, conversionRate(1, 4), 0.001)
	assert.InDelta(t, 100.0, conversionRate(4, 4), 0.001)
}

func TestAggregateExecutesBuiltQuery(t *testing.T) {
	var captured string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query().Get("q")
		writeRecords(w, SObject{"StageName": "Prospecting", "SUM_Amount": 1000.0})
	})

	spec := QuerySpec{
		Object:     "Opportunity",
		Aggregates: []AggregateSpec{{Function: "SUM", Field: "Amount"}},
		GroupBy:    "StageName",
		Limit:      10,
	}
	result, err := client.Aggregate(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, BuildAggregateQuery(spec), captured)
	assert.Equal(t, captured, result.Query)
	assert.Equal(t, "StageName", result.GroupBy)
	require.Len(t, result.Results.Records, 1)
}

func TestPipelineAnalysisSumsStages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		switch {
		case strings.Contains(q, "AvgDealSize"):
			writeRecords(w,
				SObject{"StageName": "Negotiation", "RecordCount": 2.0, "TotalValue": 50000.0},
				SObject{"StageName": "Prospecting", "RecordCount": 3.0, "TotalValue": nil},
			)
		case strings.Contains(q, "IsWon"):
			writeRecords(w, SObject{"IsWon": true, "Count": 4.0, "Value": 80000.0})
		default:
			writeRecords(w, SObject{"StageName": "Negotiation", "OppsInStage": 2.0})
		}
	})

	result, err := client.PipelineAnalysis(context.Background(), "THIS_QUARTER", "", false)
	require.NoError(t, err)

	assert.Equal(t, 50000.0, result.Summary.TotalPipelineValue, "null stage values count as zero")
	assert.Equal(t, 5.0, result.Summary.TotalOpportunities)
	assert.Len(t, result.Summary.StageBreakdown, 2)
	assert.Len(t, result.WinLossAnalysis, 1)
	assert.Nil(t, result.Forecasting)
}

func TestPipelineAnalysisForecastBestEffort(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if strings.Contains(q, "ForecastAmount") {
			writeQueryError(w, http.StatusBadRequest, "INVALID_FIELD", "no forecasting")
			return
		}
		writeRecords(w)
	})

	result, err := client.PipelineAnalysis(context.Background(), "THIS_QUARTER", "005xx", true)
	require.NoError(t, err, "forecast failure must not fail the pipeline call")
	assert.Nil(t, result.Forecasting)
}

func TestPipelineAnalysisOwnerFilter(t *testing.T) {
	var queries []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		writeRecords(w)
	})

	_, err := client.PipelineAnalysis(context.Background(), "THIS_YEAR", "005xx", false)
	require.NoError(t, err)
	require.Len(t, queries, 3)
	for _, q := range queries {
		assert.Contains(t, q, "AND OwnerId = '005xx'")
	}
}

func TestLeadFunnelMetrics(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		switch {
		case strings.Contains(q, "ConvertedLeads"):
			writeRecords(w,
				SObject{"LeadSource": "Web", "TotalLeads": 10.0, "ConvertedLeads": 4.0},
				SObject{"LeadSource": "Referral", "TotalLeads": 0.0, "ConvertedLeads": 0.0},
			)
		case strings.Contains(q, "Rating"):
			writeRecords(w, SObject{"LeadSource": "Web", "Rating": "Hot", "Count": 2.0})
		case strings.Contains(q, "ConvertedOpportunity"):
			writeRecords(w)
		default:
			writeRecords(w, SObject{"LeadSource": "Web", "Status": "Open", "LeadCount": 6.0})
		}
	})

	result, err := client.LeadFunnel(context.Background(), "THIS_QUARTER", "")
	require.NoError(t, err)

	require.Len(t, result.FunnelMetrics, 2)
	assert.Equal(t, "Web", result.FunnelMetrics[0].Source)
	assert.Equal(t, "40.00%", result.FunnelMetrics[0].ConversionRate)
	assert.Equal(t, "0.00%", result.FunnelMetrics[1].ConversionRate, "empty source yields 0, not an error")
}

func TestCaseInsightsFilters(t *testing.T) {
	var queries []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		writeRecords(w, SObject{"TotalCases": 12.0})
	})

	result, err := client.CaseInsights(context.Background(), "THIS_MONTH", "High", "Open")
	require.NoError(t, err)
	require.Len(t, queries, 4)
	for _, q := range queries {
		assert.Contains(t, q, "CreatedDate = THIS_MONTH")
		assert.Contains(t, q, "AND Priority = 'High'")
		assert.Contains(t, q, "AND Status = 'Open'")
	}
	assert.Equal(t, 12.0, result.EscalationMetrics["TotalCases"])
}

func TestReportDataAmbiguousName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRecords(w,
			SObject{"Id": "00Oxx1", "Name": "Sales Report A"},
			SObject{"Id": "00Oxx2", "Name": "Sales Report B"},
		)
	})

	result, err := client.ReportData(context.Background(), "", "Sales")
	require.NoError(t, err)
	assert.Contains(t, result["message"], "Multiple reports found")
	assert.Len(t, result["availableReports"], 2)
}

func TestReportDataAnalyticsFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/analytics/") {
			writeQueryError(w, http.StatusForbidden, "API_DISABLED", "analytics api off")
			return
		}
		writeRecords(w, SObject{"Id": "00Oxx1", "Name": "Sales Report A"})
	})

	result, err := client.ReportData(context.Background(), "00Oxx1", "")
	require.NoError(t, err)
	assert.Contains(t, result["message"], "analytics API access may be limited")
	assert.NotNil(t, result["report"])
}
