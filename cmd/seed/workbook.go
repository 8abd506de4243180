package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/catalog"
	"github.com/ikkim/tiffin-backend/internal/pricing"
	"github.com/xuri/excelize/v2"
)

const (
	menuSheet       = "menu"
	thresholdsSheet = "thresholds"
)

// menu sheet columns
const (
	colID = iota
	colVariantID
	colTitle
	colCategory
	colType
	colPrice
	colImage
	colDescription
	colTags
	menuColumns
)

type workbook struct {
	Items      []model.MenuItem
	Thresholds []model.PriceThreshold
	Skipped    int
}

func readWorkbook(filePath string) (*workbook, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

func parseWorkbook(f *excelize.File) (*workbook, error) {
	rows, err := f.GetRows(menuSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q sheet: %w", menuSheet, err)
	}

	out := &workbook{}
	seen := make(map[string]bool)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		item, ok := parseMenuRow(row)
		if !ok {
			out.Skipped++
			continue
		}
		key := item.ID + "/" + item.VariantID
		if seen[key] {
			out.Skipped++
			continue
		}
		seen[key] = true
		out.Items = append(out.Items, item)
	}

	// the thresholds sheet is optional
	if idx, _ := f.GetSheetIndex(thresholdsSheet); idx >= 0 {
		thresholdRows, err := f.GetRows(thresholdsSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q sheet: %w", thresholdsSheet, err)
		}
		for i, row := range thresholdRows {
			if i == 0 || len(row) < 2 {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(row[0]))
			value := strings.TrimSpace(row[1])
			if !strings.HasSuffix(key, model.ThresholdKeySuffix) {
				continue
			}
			if _, err := pricing.ParseAmount(value); err != nil {
				continue
			}
			out.Thresholds = append(out.Thresholds, model.PriceThreshold{Key: key, Value: value})
		}
	}
	return out, nil
}

func parseMenuRow(row []string) (model.MenuItem, bool) {
	cells := make([]string, menuColumns)
	for i := 0; i < len(row) && i < menuColumns; i++ {
		cells[i] = strings.TrimSpace(row[i])
	}

	if cells[colID] == "" || cells[colTitle] == "" {
		return model.MenuItem{}, false
	}
	lineType, err := model.ParseLineType(cells[colType])
	if err != nil {
		return model.MenuItem{}, false
	}
	if _, err := pricing.ParseAmount(cells[colPrice]); err != nil {
		return model.MenuItem{}, false
	}

	return model.MenuItem{
		ID:          cells[colID],
		VariantID:   cells[colVariantID],
		Title:       cells[colTitle],
		Category:    strings.ToLower(cells[colCategory]),
		Type:        lineType,
		Price:       model.Price(cells[colPrice]),
		Image:       cells[colImage],
		Description: cells[colDescription],
		Tags:        encodeTags(cells[colTags]),
	}, true
}

// encodeTags accepts a JSON array or a comma separated list and stores the
// JSON array form.
func encodeTags(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "[") {
		if tags := catalog.ParseTags(raw); len(tags) > 0 {
			data, _ := json.Marshal(tags)
			return string(data)
		}
		return ""
	}

	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return ""
	}
	data, _ := json.Marshal(tags)
	return string(data)
}
