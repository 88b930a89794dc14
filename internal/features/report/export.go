package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go-reporting/internal/features/chart"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// exportRowCap bounds a single export.
const exportRowCap = 100000

func (s *ReportServiceImpl) Export(ctx context.Context, orgID primitive.ObjectID, id string, format string, opts RunOptions) ([]byte, string, error) {
	rpt, err := s.Repo.Get(ctx, orgID, id)
	if err != nil {
		return nil, "", err
	}

	// The export covers the window the viewer is looking at. Without an
	// explicit window it covers the whole result, capped.
	input := buildRunInput(rpt, opts)
	if input.PageSize < 1 {
		input.Page = 1
		input.PageSize = exportRowCap
	}

	page, err := s.RecordService.Query(ctx, orgID, input)
	if err != nil {
		return nil, "", err
	}

	stamp := time.Now().Format("20060102_150405")
	switch format {
	case "", "csv":
		data, err := writeCSV(rpt.SelectedFields, page.Rows)
		if err != nil {
			return nil, "", err
		}
		return data, fmt.Sprintf("%s_%s.csv", rpt.Name, stamp), nil
	case "xlsx":
		data, err := writeExcel(rpt.Name, rpt.SelectedFields, page.Rows)
		if err != nil {
			return nil, "", err
		}
		return data, fmt.Sprintf("%s_%s.xlsx", rpt.Name, stamp), nil
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
}

func writeCSV(columns []string, rows []map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		line := make([]string, len(columns))
		for i, col := range columns {
			line[i] = formatCell(chart.Lookup(row, col))
		}
		if err := writer.Write(line); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeExcel(title string, columns []string, rows []map[string]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if title != "" {
		if err := f.SetSheetName("Sheet1", title); err == nil {
			sheet = title
		}
	}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}
	for r, row := range rows {
		for c, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			switch v := chart.Lookup(row, col).(type) {
			case nil:
				// leave blank
			case float64, int, int32, int64, bool:
				f.SetCellValue(sheet, cell, v)
			case time.Time:
				f.SetCellValue(sheet, cell, v.Format("2006-01-02 15:04:05"))
			default:
				f.SetCellValue(sheet, cell, formatCell(v))
			}
		}
	}
	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 15)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatCell renders one value for a text export. Numbers keep their
// shortest form, nil goes blank; the csv writer handles quoting.
func formatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format("2006-01-02 15:04:05")
	case map[string]interface{}:
		if name, ok := t["name"]; ok {
			return fmt.Sprintf("%v", name)
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
