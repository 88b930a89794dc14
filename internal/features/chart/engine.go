package chart

import (
	"fmt"
	"strconv"
	"strings"
)

const unknownBucket = "Unknown"

// ComputeSeries groups rows by the chart's x field and aggregates the y
// values per bucket. It is a pure function over the rows it is given:
// no store access, no mutation of the input.
//
// Buckets keep first-seen order so the series is stable for a given row
// order. Rows whose x value is missing or nil fall into the "Unknown"
// bucket. A spec without an x field, or a sum/avg spec without a y
// field, produces an empty series rather than an error.
func ComputeSeries(spec ChartSpec, rows []map[string]interface{}) Series {
	out := Series{
		Type:   spec.Type,
		Title:  spec.Title,
		Points: []SeriesPoint{},
	}

	if spec.XField == "" {
		return out
	}
	agg := spec.Aggregation
	if agg == "" {
		agg = AggCount
	}
	if agg != AggCount && spec.YField == "" {
		return out
	}

	type bucket struct {
		sum   float64
		count float64
	}
	order := []string{}
	buckets := map[string]*bucket{}

	for _, row := range rows {
		name := bucketName(Lookup(row, spec.XField))
		b, ok := buckets[name]
		if !ok {
			b = &bucket{}
			buckets[name] = b
			order = append(order, name)
		}
		b.count++
		if agg != AggCount {
			b.sum += toFloat(Lookup(row, spec.YField))
		}
	}

	for _, name := range order {
		b := buckets[name]
		var value float64
		switch agg {
		case AggCount:
			value = b.count
		case AggSum:
			value = b.sum
		case AggAvg:
			value = b.sum / b.count
		default:
			return Series{Type: spec.Type, Title: spec.Title, Points: []SeriesPoint{}}
		}
		out.Points = append(out.Points, SeriesPoint{Name: name, Value: value})
	}
	return out
}

// ComputeAll runs every chart spec against the same row set.
func ComputeAll(specs []ChartSpec, rows []map[string]interface{}) []Series {
	series := make([]Series, len(specs))
	for i, spec := range specs {
		series[i] = ComputeSeries(spec, rows)
	}
	return series
}

// Lookup resolves a possibly dotted field path against a flattened row.
// The flat key wins when both exist.
func Lookup(row map[string]interface{}, field string) interface{} {
	if v, ok := row[field]; ok {
		return v
	}
	if !strings.Contains(field, ".") {
		return nil
	}
	var cur interface{} = row
	for _, part := range strings.Split(field, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

func bucketName(v interface{}) string {
	if v == nil {
		return unknownBucket
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return unknownBucket
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// toFloat reads a y value as a number, treating anything unparseable as
// zero so a single bad row cannot sink the whole chart.
func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
