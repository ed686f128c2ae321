package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
)

// saleTable holds grouping fixtures: three cities, five rows.
func saleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("city", "amount")
	require.NoError(t, tbl.AppendRows([][]value.Value{
		{value.Str("berlin"), value.Int(10)},
		{value.Str("paris"), value.Int(20)},
		{value.Str("berlin"), value.Int(5)},
		{value.Str("tokyo"), value.Int(7)},
		{value.Str("berlin"), value.Int(1)},
	}))
	return tbl
}

func groupByCity(v *View) *Groups[string] {
	return GroupBy(v, func(r Row) string {
		cell, _ := r.Get("city")
		return cell.MustStr()
	})
}

func TestGroupBy(t *testing.T) {
	v := New(saleTable(t))
	defer v.Release()

	g := groupByCity(v)
	defer g.Release()

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"berlin", "paris", "tokyo"}, g.Keys(), "first-occurrence order")

	key, bucket := g.At(0)
	assert.Equal(t, "berlin", key)
	assert.Equal(t, 3, bucket.Len())
	assert.True(t, value.Int(10).Equal(bucket.At(0, 1)))
	assert.True(t, value.Int(5).Equal(bucket.At(1, 1)))
	assert.True(t, value.Int(1).Equal(bucket.At(2, 1)), "bucket rows keep view order")

	tokyo, ok := g.Get("tokyo")
	require.True(t, ok)
	assert.Equal(t, 1, tokyo.Len())

	_, ok = g.Get("madrid")
	assert.False(t, ok)
}

func TestGroupByTypedKeys(t *testing.T) {
	tbl := table.New("day", "amount")
	monday := value.Timestamp{Year: 2021, Month: 3, Day: 1}
	tuesday := value.Timestamp{Year: 2021, Month: 3, Day: 2}
	require.NoError(t, tbl.AppendRows([][]value.Value{
		{value.Time(monday), value.Int(1)},
		{value.Time(tuesday), value.Int(2)},
		{value.Time(monday), value.Int(3)},
	}))
	v := New(tbl)
	defer v.Release()

	g := GroupBy(v, func(r Row) value.Timestamp {
		cell, _ := r.Get("day")
		return cell.MustTime()
	})
	defer g.Release()

	assert.Equal(t, []value.Timestamp{monday, tuesday}, g.Keys())
	first, ok := g.Get(monday)
	require.True(t, ok)
	assert.Equal(t, 2, first.Len())
}

func TestGroupSums(t *testing.T) {
	v := New(saleTable(t))
	defer v.Release()

	g := groupByCity(v)
	defer g.Release()

	sums := make(map[string]int32)
	for i := 0; i < g.Len(); i++ {
		key, bucket := g.At(i)
		total, err := FoldColumn(bucket, "amount", int32(0), func(acc int32, cell value.Value) int32 {
			return acc + cell.MustInt()
		})
		require.NoError(t, err)
		sums[key] = total
	}
	assert.Equal(t, map[string]int32{"berlin": 16, "paris": 20, "tokyo": 7}, sums)
}

func TestDistribution(t *testing.T) {
	v := New(saleTable(t))
	defer v.Release()

	g := groupByCity(v)
	defer g.Release()

	// paris and tokyo hold one row each, berlin holds three
	assert.Equal(t, []SizeCount{{Size: 1, Count: 2}, {Size: 3, Count: 1}}, g.Distribution())
}

func TestGroupsFilter(t *testing.T) {
	v := New(saleTable(t))
	defer v.Release()

	g := groupByCity(v)

	multi := g.Filter(func(_ string, bucket *View) bool { return bucket.Len() > 1 })
	g.Release()
	defer multi.Release()

	assert.Equal(t, []string{"berlin"}, multi.Keys())
	berlin, ok := multi.Get("berlin")
	require.True(t, ok)
	assert.Equal(t, 3, berlin.Len(), "kept buckets survive releasing the source groups")
}

func TestGroupingLeavesSourceIntact(t *testing.T) {
	tbl := saleTable(t)
	v := New(tbl)

	g := groupByCity(v)
	g.Release()

	assert.Equal(t, 5, v.Len())
	assert.Equal(t, 5, tbl.Len())
	v.Release()
}
