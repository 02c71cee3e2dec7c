package salesforce

import (
	"fmt"
	"strings"
	"time"
)

// identityField is the primary-key field on every object.
const identityField = "Id"

// AggregateSpec describes one aggregate expression in a SELECT list.
type AggregateSpec struct {
	Function string `json:"function"` // COUNT, SUM, AVG, MAX, MIN
	Field    string `json:"field"`
	Alias    string `json:"alias,omitempty"`
}

// render emits the SOQL text for one aggregate. COUNT over the identity
// field is the one form the platform rejects an alias on, so it stays bare;
// every other combination is aliased, defaulting to FUNC_field.
func (a AggregateSpec) render() string {
	fn := strings.ToUpper(a.Function)
	if fn == "" {
		fn = "COUNT"
	}
	field := a.Field
	if field == "" {
		field = identityField
	}

	if fn == "COUNT" && field == identityField {
		return "COUNT(Id)"
	}

	alias := a.Alias
	if alias == "" {
		alias = fmt.Sprintf("%s_%s", fn, field)
	}
	return fmt.Sprintf("%s(%s) %s", fn, field, alias)
}

// QuerySpec is the structured input for an aggregate query.
type QuerySpec struct {
	Object     string          `json:"object"`
	Aggregates []AggregateSpec `json:"aggregates"`
	GroupBy    string          `json:"group_by,omitempty"`
	Where      string          `json:"where,omitempty"` // raw trusted predicate text
	Limit      int             `json:"limit"`
}

// BuildAggregateQuery composes SOQL text from a QuerySpec. It is pure: no
// network access, no failure modes. The group-by field leads the select list
// and the row cap is always the final clause.
func BuildAggregateQuery(spec QuerySpec) string {
	rendered := make([]string, 0, len(spec.Aggregates))
	for _, agg := range spec.Aggregates {
		rendered = append(rendered, agg.render())
	}
	selectList := strings.Join(rendered, ", ")
	if spec.GroupBy != "" {
		if selectList == "" {
			selectList = spec.GroupBy
		} else {
			selectList = spec.GroupBy + ", " + selectList
		}
	}

	limit := spec.Limit
	if limit <= 0 {
		limit = 100
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectList)
	sb.WriteString(" FROM ")
	sb.WriteString(spec.Object)
	if spec.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(spec.Where)
	}
	if spec.GroupBy != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(spec.GroupBy)
	}
	sb.WriteString(fmt.Sprintf(" LIMIT %d", limit))
	return sb.String()
}

// TrendPeriod selects the date-bucketing granularity of a trend query.
type TrendPeriod string

const (
	PeriodDay   TrendPeriod = "day"
	PeriodWeek  TrendPeriod = "week"
	PeriodMonth TrendPeriod = "month"
)

// trendRowCap bounds every trend query regardless of caller input; the
// time-series use case never expects more buckets than this.
const trendRowCap = 50

// TrendSpec is the structured input for a bucketed time-series query. Start
// is resolved from the lookback count at construction time.
type TrendSpec struct {
	Object    string          `json:"object"`
	DateField string          `json:"date_field"`
	Period    TrendPeriod     `json:"period"`
	Metrics   []AggregateSpec `json:"metrics"`
	Lookback  int             `json:"lookback"`
	Start     time.Time       `json:"start"`
}

// NewTrendSpec resolves the lookback window to an absolute start boundary
// (now minus lookback period-units; a month counts as 30 days).
func NewTrendSpec(object, dateField string, period TrendPeriod, metrics []AggregateSpec, lookback int) TrendSpec {
	now := time.Now()
	var start time.Time
	switch period {
	case PeriodMonth:
		start = now.AddDate(0, 0, -lookback*30)
	case PeriodWeek:
		start = now.AddDate(0, 0, -lookback*7)
	default:
		start = now.AddDate(0, 0, -lookback)
	}
	return TrendSpec{
		Object:    object,
		DateField: dateField,
		Period:    period,
		Metrics:   metrics,
		Lookback:  lookback,
		Start:     start,
	}
}

// bucketExpr returns the date-grouping expression for the period: calendar
// year plus month, ISO week, or day-of-month.
func (t TrendSpec) bucketExpr() string {
	switch t.Period {
	case PeriodMonth:
		return fmt.Sprintf("CALENDAR_YEAR(%s), CALENDAR_MONTH(%s)", t.DateField, t.DateField)
	case PeriodWeek:
		return fmt.Sprintf("CALENDAR_YEAR(%s), WEEK_IN_YEAR(%s)", t.DateField, t.DateField)
	default:
		return fmt.Sprintf("CALENDAR_YEAR(%s), DAY_IN_MONTH(%s)", t.DateField, t.DateField)
	}
}

// BuildTrendQuery composes the bucketed time-series SOQL for a TrendSpec.
// Results are always ordered by the bucket expression descending with a
// fixed cap of trendRowCap rows.
func BuildTrendQuery(spec TrendSpec) string {
	metrics := spec.Metrics
	if len(metrics) == 0 {
		metrics = []AggregateSpec{{Function: "COUNT", Field: identityField, Alias: "Total"}}
	}
	rendered := make([]string, 0, len(metrics))
	for _, m := range metrics {
		// Trend metrics are always aliased, including COUNT(Id): each
		// bucket row needs an addressable column per metric.
		fn := strings.ToUpper(m.Function)
		if fn == "" {
			fn = "COUNT"
		}
		field := m.Field
		if field == "" {
			field = identityField
		}
		alias := m.Alias
		if alias == "" {
			alias = fmt.Sprintf("%s_%s", fn, field)
		}
		rendered = append(rendered, fmt.Sprintf("%s(%s) %s", fn, field, alias))
	}

	bucket := spec.bucketExpr()
	return fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s >= %s GROUP BY %s ORDER BY %s DESC LIMIT %d",
		bucket,
		strings.Join(rendered, ", "),
		spec.Object,
		spec.DateField,
		spec.Start.Format("2006-01-02"),
		bucket,
		bucket,
		trendRowCap,
	)
}
