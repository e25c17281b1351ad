package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRowsNoOp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := CopyFrom(context.Background(), mock, "cell_features", []string{"hex_id"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_CopiesRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"cell_features"}, []string{"hex_id", "counts"}).WillReturnResult(2)

	rows := [][]any{
		{"88a", `{"groceries_shop":2}`},
		{"88b", `{"groceries_shop":0}`},
	}
	n, err := CopyFrom(context.Background(), mock, "cell_features", []string{"hex_id", "counts"}, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_PropagatesError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"cell_features"}, []string{"hex_id"}).WillReturnError(assert.AnError)

	_, err = CopyFrom(context.Background(), mock, "cell_features", []string{"hex_id"}, [][]any{{"88a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO cell_features")
}
