package dataset

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

// Training CSV column names.
const (
	colHexID        = "hex_id"
	colCostOfLiving = "cost_of_living"
)

// LoadTrainingCSV reads training samples from a CSV file with at least
// the hex_id and cost_of_living columns. Missing required columns are a
// configuration error; rows with an unparseable cost value are skipped
// and counted.
func LoadTrainingCSV(path string) ([]model.TrainingSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open training csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read training csv %s", path)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("dataset: training csv %s has no header", path)
	}

	headers := records[0]
	hexIdx, costIdx := -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case colHexID:
			hexIdx = i
		case colCostOfLiving:
			costIdx = i
		}
	}
	if hexIdx < 0 || costIdx < 0 {
		return nil, eris.Errorf("dataset: training csv %s missing required columns %s, %s", path, colHexID, colCostOfLiving)
	}

	samples := make([]model.TrainingSample, 0, len(records)-1)
	var skipped int

	for _, row := range records[1:] {
		if hexIdx >= len(row) || costIdx >= len(row) {
			skipped++
			continue
		}
		cell := strings.TrimSpace(row[hexIdx])
		cost, parseErr := strconv.ParseFloat(strings.TrimSpace(row[costIdx]), 64)
		if cell == "" || parseErr != nil {
			skipped++
			continue
		}
		samples = append(samples, model.TrainingSample{
			Cell:         model.CellID(cell),
			CostOfLiving: cost,
		})
	}

	log := zap.L().With(zap.String("path", path))
	if skipped > 0 {
		log.Warn("dataset: skipped malformed training rows", zap.Int("skipped", skipped))
	}
	log.Info("dataset: loaded training samples", zap.Int("samples", len(samples)))

	return samples, nil
}
