package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

func TestLoadTrainingCSV_ParsesSamples(t *testing.T) {
	path := writeTempFile(t, "train.csv", "hex_id,cost_of_living\n88abc,0.9\n88def,0.2\n")

	samples, err := LoadTrainingCSV(path)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, model.TrainingSample{Cell: "88abc", CostOfLiving: 0.9}, samples[0])
	assert.Equal(t, model.TrainingSample{Cell: "88def", CostOfLiving: 0.2}, samples[1])
}

func TestLoadTrainingCSV_ExtraColumnsAndCase(t *testing.T) {
	path := writeTempFile(t, "train.csv", "id,Hex_ID,price,Cost_Of_Living\n1,88abc,12,0.7\n")

	samples, err := LoadTrainingCSV(path)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, model.CellID("88abc"), samples[0].Cell)
	assert.Equal(t, 0.7, samples[0].CostOfLiving)
}

func TestLoadTrainingCSV_MissingColumnIsFatal(t *testing.T) {
	path := writeTempFile(t, "train.csv", "hex_id,price\n88abc,12\n")

	_, err := LoadTrainingCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cost_of_living")
}

func TestLoadTrainingCSV_SkipsMalformedRows(t *testing.T) {
	path := writeTempFile(t, "train.csv", "hex_id,cost_of_living\n88abc,not-a-number\n,0.4\n88def,0.6\n")

	samples, err := LoadTrainingCSV(path)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, model.CellID("88def"), samples[0].Cell)
}

func TestLoadTrainingCSV_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "train.csv", "")

	_, err := LoadTrainingCSV(path)
	require.Error(t, err)
}
