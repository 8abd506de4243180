package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ikkim/tiffin-backend/internal/pricing"
	"github.com/ikkim/tiffin-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const weeklyPlanSheet = "Weekly Plan"

var weeklyPlanHeader = []interface{}{"Day", "Date", "Plan", "Type", "Category", "Item", "Qty", "Unit Price", "Amount"}

// ExportService renders a cart as a spreadsheet the kitchen can print.
type ExportService interface {
	WeeklyPlanWorkbook(view *CartView) (*excelize.File, error)
	WeeklyPlanBytes(view *CartView) ([]byte, error)
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

func (s *exportService) WeeklyPlanWorkbook(view *CartView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", weeklyPlanSheet); err != nil {
		f.Close()
		return nil, err
	}

	rows := [][]interface{}{weeklyPlanHeader}
	for _, day := range view.Days {
		for _, plan := range day.TiffinPlans {
			for _, line := range plan.Items {
				rows = append(rows, exportRow(day.Day, line.Date, fmt.Sprintf("%d", plan.Plan), string(line.Type), line.Category, line.Title, line.Qty, line.Price.String(), pricing.FormatAmount(pricing.LineAmount(line))))
			}
		}
		for _, line := range day.Addons {
			rows = append(rows, exportRow(day.Day, line.Date, "", string(line.Type), line.Category, line.Title, line.Qty, line.Price.String(), pricing.FormatAmount(pricing.LineAmount(line))))
		}
		if len(day.Missing) > 0 {
			rows = append(rows, []interface{}{day.Day, "", "", "", "Missing", strings.Join(day.Missing, ", ")})
		}
	}

	rows = append(rows,
		[]interface{}{},
		totalRow("Subtotal", view.Display.Subtotal),
		totalRow("Shipping", view.Display.Shipping),
		totalRow("Discount", view.Display.Discount),
		totalRow("Total", view.Display.Total),
	)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(weeklyPlanSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(weeklyPlanSheet, 1, 1, style)
	}

	logger.Debug("Weekly plan workbook built", map[string]interface{}{
		"cart_id": view.ID,
		"rows":    len(rows),
	})
	return f, nil
}

func (s *exportService) WeeklyPlanBytes(view *CartView) ([]byte, error) {
	f, err := s.WeeklyPlanWorkbook(view)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to write weekly plan workbook", err, map[string]interface{}{
			"cart_id": view.ID,
		})
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportRow(day, date, plan, lineType, category, title string, qty int, price, amount string) []interface{} {
	return []interface{}{day, date, plan, lineType, category, title, qty, price, amount}
}

func totalRow(label, amount string) []interface{} {
	return []interface{}{"", "", "", "", "", "", "", label, amount}
}
