package report

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Summary"

// WriteExcel persists rows to an XLSX workbook at path. When the file
// already exists its rows are merged with the new ones, deduplicating by
// the composite key (date, builds, environment) and keeping the newest
// row on conflict, so repeated runs over the same window do not pile up
// duplicate lines.
func WriteExcel(path string, rows []Row) error {
	merged := rows
	if _, err := os.Stat(path); err == nil {
		prior, readErr := readExcelRows(path)
		if readErr != nil {
			return fmt.Errorf("reading existing workbook: %w", readErr)
		}
		merged = mergeRows(prior, rows)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := writeSheet(f, merged); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, rows []Row) error {
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		fields := row.Fields()
		values := make([]interface{}, len(fields))
		for j, v := range fields {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func readExcelRows(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cells, err := f.GetRows(sheetName)
	if err != nil {
		// No Summary sheet in an existing workbook: nothing to merge.
		return nil, nil
	}

	var rows []Row
	for i, record := range cells {
		if i == 0 {
			continue // header
		}
		rows = append(rows, rowFromFields(record))
	}
	return rows, nil
}

// rowFromFields rebuilds a Row from stringified cells. Numeric fields that
// fail to parse stay zero, consistent with the tolerant parsing elsewhere.
func rowFromFields(fields []string) Row {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	atoi := func(i int) int {
		n, _ := strconv.Atoi(get(i))
		return n
	}
	atof := func(i int) float64 {
		v, _ := strconv.ParseFloat(get(i), 64)
		return v
	}
	return Row{
		Date:              get(0),
		Builds:            get(1),
		Environment:       get(2),
		Stability:         atof(3),
		FailurePercentage: atof(4),
		ScenariosTotal:    atoi(5),
		ScenariosPassed:   atoi(6),
		ScenariosFailed:   atoi(7),
		ScenariosSkipped:  atoi(8),
		StepsTotal:        atoi(9),
		StepsPassed:       atoi(10),
		StepsFailed:       atoi(11),
		StepsSkipped:      atoi(12),
		FailedScenarios:   get(13),
	}
}

// mergeRows keeps prior row order, replacing any row whose composite key
// reappears in newer and appending the rest.
func mergeRows(prior, newer []Row) []Row {
	type rowKey struct{ date, builds, env string }

	index := make(map[rowKey]int, len(prior))
	merged := make([]Row, 0, len(prior)+len(newer))
	for _, row := range prior {
		index[rowKey{row.Date, row.Builds, row.Environment}] = len(merged)
		merged = append(merged, row)
	}
	for _, row := range newer {
		k := rowKey{row.Date, row.Builds, row.Environment}
		if i, ok := index[k]; ok {
			merged[i] = row
			continue
		}
		index[k] = len(merged)
		merged = append(merged, row)
	}
	return merged
}
