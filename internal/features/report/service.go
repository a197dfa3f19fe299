package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-console/internal/common/models"
	"go-console/internal/features/listview"
	"go-console/internal/features/record"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportService interface {
	// Generate runs a page read operation and renders the projected grid
	// as a downloadable file.
	Generate(ctx context.Context, schema *models.PageSchema, opName string, payload map[string]interface{}, reportName, format string) (*ReportFile, error)
}

type ReportServiceImpl struct {
	API    record.PageAPI
	Logger *zap.Logger
}

func NewReportService(api record.PageAPI, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		API:    api,
		Logger: logger,
	}
}

func (s *ReportServiceImpl) Generate(ctx context.Context, schema *models.PageSchema, opName string, payload map[string]interface{}, reportName, format string) (*ReportFile, error) {
	if opName == "" {
		opName = schema.Read
	}

	res, err := s.API.Call(ctx, schema, opName, payload)
	if err != nil {
		s.Logger.Error("report read failed",
			zap.String("page", schema.PageID),
			zap.String("op", opName),
			zap.Error(err))
		return nil, err
	}

	lookups, err := listview.ResolveLookups(ctx, s.API, schema, res.Data)
	if err != nil {
		return nil, err
	}

	columns, cells := listview.Project(schema, lookups, res.Data)

	if reportName == "" {
		reportName = schema.PageID
	}
	reportName = fmt.Sprintf("%s-%s", reportName, time.Now().Format("20060102-150405"))

	if format == FormatCSV {
		return buildCSV(columns, cells, reportName)
	}
	return buildXLSX(columns, cells, reportName)
}

func buildXLSX(columns []listview.ProjectedColumn, cells [][]listview.Cell, name string) (*ReportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.Title)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, line := range cells {
		for colIdx := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, cellText(line[colIdx]))
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 15)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return &ReportFile{
		Name:        name + ".xlsx",
		ContentType: contentTypeXLSX,
		Content:     buffer.Bytes(),
	}, nil
}

func buildCSV(columns []listview.ProjectedColumn, cells [][]listview.Cell, name string) (*ReportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Title
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, line := range cells {
		row := make([]string, len(columns))
		for i := range columns {
			row[i] = cellText(line[i])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &ReportFile{
		Name:        name + ".csv",
		ContentType: contentTypeCSV,
		Content:     buf.Bytes(),
	}, nil
}

// cellText flattens a projected cell into export text.
func cellText(c listview.Cell) string {
	switch c.Kind {
	case listview.CellText:
		return c.Text
	case listview.CellSwitch:
		return strconv.FormatBool(c.Checked)
	case listview.CellProgress:
		return fmt.Sprintf("%v", c.Value)
	case listview.CellImage:
		return strings.Join(c.Images, ", ")
	default:
		return c.Text
	}
}
