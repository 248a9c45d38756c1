package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tatausaha/internal/core/entity"
)

func TestToSnake(t *testing.T) {
	assert.Equal(t, "tanggal_dibuat", ToSnake("tanggalDibuat"))
	assert.Equal(t, "deleted_by", ToSnake("deletedBy"))
	assert.Equal(t, "parent_id", ToSnake("parentId"))
	assert.Equal(t, "nomor", ToSnake("nomor"))
	assert.Equal(t, "tanggal_dibuat", ToSnake("tanggal_dibuat"))
}

func TestToCamel(t *testing.T) {
	assert.Equal(t, "tanggalDibuat", ToCamel("tanggal_dibuat"))
	assert.Equal(t, "deletedBy", ToCamel("deleted_by"))
	assert.Equal(t, "nomor", ToCamel("nomor"))
	assert.Equal(t, "tanggalDibuat", ToCamel("tanggalDibuat"))
}

func TestSnakifyBackendFormWins(t *testing.T) {
	rec := Record{
		"tanggal_dibuat": "2025-03-14",
		"tanggalDibuat":  "client-side-value",
		"parentId":       int64(5),
		"kode":           "B",
	}

	out := Snakify(rec)
	assert.Equal(t, "2025-03-14", out["tanggal_dibuat"], "snake value wins over camel duplicate")
	assert.EqualValues(t, 5, out["parent_id"])
	assert.Equal(t, "B", out["kode"])
	assert.NotContains(t, out, "tanggalDibuat")
}

func TestCamelizeBackendFormWins(t *testing.T) {
	rec := Record{
		"tanggal_dibuat": "2025-03-14",
		"tanggalDibuat":  "client-side-value",
		"kode":           "B",
	}

	out := Camelize(rec)
	assert.Equal(t, "2025-03-14", out["tanggalDibuat"])
	assert.Equal(t, "B", out["kode"])
	assert.NotContains(t, out, "tanggal_dibuat")
}

func TestNormalizationIsLossless(t *testing.T) {
	rec := Record{
		"id":         int64(1),
		"nama":       "Kertas A4",
		"parent_id":  int64(9),
		"deleted_by": "sari",
	}

	round := Snakify(Camelize(rec))
	assert.Equal(t, rec, round)
}

func TestMarshal(t *testing.T) {
	l := entity.Letter{
		ID:        1700000000001,
		Sequence:  3,
		Code:      "K",
		Level:     entity.LevelSD,
		Month:     3,
		Year:      2025,
		CreatedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	rec := Marshal(l)
	assert.EqualValues(t, 1700000000001, rec["id"])
	assert.Equal(t, 3, rec["nomor_urut"])
	assert.Equal(t, entity.LevelSD, rec["tingkat"])
	assert.Contains(t, rec, "tanggal_dibuat")
}

func TestMarshalFlattensEmbedded(t *testing.T) {
	trashed := entity.TrashRecord{
		Sale: entity.Sale{
			ID:       1700000000002,
			Item:     "Paper A",
			Quantity: 5,
		},
		DeletedFrom: "sales",
		DeletedBy:   "sari",
		DeletedAt:   time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	rec := Marshal(trashed)
	assert.EqualValues(t, 1700000000002, rec["id"])
	assert.Equal(t, "Paper A", rec["item"])
	assert.Equal(t, "sari", rec["deleted_by"])
	assert.Equal(t, "sales", rec["deleted_from"])
}

func TestColumns(t *testing.T) {
	cols := Columns(entity.Letter{})
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "nomor_urut")
	assert.Contains(t, cols, "tanggal_dibuat")
	assert.NotContains(t, cols, "nomor")

	trashCols := Columns(entity.TrashRecord{})
	assert.Contains(t, trashCols, "item")
	assert.Contains(t, trashCols, "deleted_at")
}

func TestUnmarshalAcceptsEitherKeyForm(t *testing.T) {
	rec := Record{
		"id":          float64(1700000000003),
		"item":        "Paper A",
		"quantity":    float64(5),
		"deleted_by":  "sari",
		"deletedFrom": "sales",
		"deleted_at":  "2025-03-14T10:00:00Z",
	}

	var trashed entity.TrashRecord
	require.NoError(t, Unmarshal(rec, &trashed))

	assert.EqualValues(t, 1700000000003, trashed.ID)
	assert.Equal(t, "Paper A", trashed.Item)
	assert.Equal(t, 5, trashed.Quantity)
	assert.Equal(t, "sari", trashed.DeletedBy)
	assert.Equal(t, "sales", trashed.DeletedFrom)
	assert.Equal(t, 2025, trashed.DeletedAt.Year())
}
