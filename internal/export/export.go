// Package export writes cell feature tables to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/hexfeat-cli/internal/geodist"
	"github.com/sells-group/hexfeat-cli/internal/model"
)

// Columns derives the category and distance-set column order from the
// rows themselves, so an export always reflects what the run computed
// rather than whatever the category configuration says today.
func Columns(rows []model.CellFeatureRow) (categories, distanceSets []string) {
	catSet := make(map[string]bool)
	distSet := make(map[string]bool)
	for _, row := range rows {
		for name := range row.Counts {
			catSet[name] = true
		}
		for name := range row.Distances {
			distSet[name] = true
		}
	}
	for name := range catSet {
		categories = append(categories, name)
	}
	for name := range distSet {
		distanceSets = append(distanceSets, name)
	}
	sort.Strings(categories)
	sort.Strings(distanceSets)
	return categories, distanceSets
}

// Header returns the output column order: cell id, category counts,
// zone, distance features, imputed sibling.
func Header(categories, distanceSets []string) []string {
	header := make([]string, 0, len(categories)+len(distanceSets)+3)
	header = append(header, "hex_id")
	header = append(header, categories...)
	header = append(header, "cost_of_living")
	for _, set := range distanceSets {
		header = append(header, "dist_"+set)
	}
	header = append(header, "nearest_sibling")
	return header
}

func rowValues(row model.CellFeatureRow, categories, distanceSets []string) []string {
	values := make([]string, 0, len(categories)+len(distanceSets)+3)
	values = append(values, string(row.Cell))
	for _, name := range categories {
		values = append(values, strconv.Itoa(row.Counts[name]))
	}
	values = append(values, strconv.Itoa(int(row.Zone)))
	for _, set := range distanceSets {
		values = append(values, strconv.FormatFloat(distanceOrSentinel(row, set), 'f', -1, 64))
	}
	values = append(values, string(row.NearestSibling))
	return values
}

// distanceOrSentinel keeps an absent distance key distinguishable from a
// genuine zero-kilometer distance.
func distanceOrSentinel(row model.CellFeatureRow, set string) float64 {
	if km, ok := row.Distances[set]; ok {
		return km
	}
	return geodist.Sentinel
}

// WriteCSV writes the feature table to a CSV file.
func WriteCSV(path string, rows []model.CellFeatureRow, categories, distanceSets []string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(Header(categories, distanceSets)); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range rows {
		if err := w.Write(rowValues(row, categories, distanceSets)); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", row.Cell)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}

	zap.L().Info("export: wrote csv", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

// WriteXLSX writes the feature table to a single-sheet XLSX file.
func WriteXLSX(path string, rows []model.CellFeatureRow, categories, distanceSets []string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("features")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	headerRow := sheet.AddRow()
	for _, name := range Header(categories, distanceSets) {
		headerRow.AddCell().Value = name
	}

	for _, row := range rows {
		r := sheet.AddRow()
		r.AddCell().Value = string(row.Cell)
		for _, name := range categories {
			r.AddCell().SetInt(row.Counts[name])
		}
		r.AddCell().SetInt(int(row.Zone))
		for _, set := range distanceSets {
			r.AddCell().SetFloat(distanceOrSentinel(row, set))
		}
		r.AddCell().Value = string(row.NearestSibling)
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save xlsx %s", path)
	}

	zap.L().Info("export: wrote xlsx", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}
