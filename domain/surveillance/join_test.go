package surveillance_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"iris-stats/domain/isoweek"
	"iris-stats/domain/policy"
	"iris-stats/domain/surveillance"
	"iris-stats/domain/value"
)

func weekly(country string, k isoweek.Key, stringency value.Maybe[float64]) policy.Weekly {
	w := policy.Weekly{Bucket: policy.Bucket{Country: country, Key: k}, Values: make([]value.Maybe[float64], len(policy.Fields))}
	w.Values[policy.Stringency] = stringency
	return w
}

func TestJoin(t *testing.T) {
	cfg := noCarveouts()
	_, table := pipeline(t, cfg, []surveillance.Observation{
		obs("S. pneumoniae", "Belgium", "Europe", day(2020, 3, 10)),
		obs("H. influenzae", "Belgium", "Europe", day(2020, 3, 10)),
	})

	w11 := isoweek.Key{Year: 2020, Week: 11}
	w12 := isoweek.Key{Year: 2020, Week: 12}
	means := map[policy.Bucket]policy.Weekly{
		{Country: "Belgium", Key: w11}: weekly("Belgium", w11, value.Some(45.5)),
		{Country: "Belgium", Key: w12}: weekly("Belgium", w12, value.None[float64]()),
		{Country: "Brazil", Key: w11}:  weekly("Brazil", w11, value.Some(10.0)),
	}
	joined := surveillance.Join(table, means)

	gt.A(t, joined.Rows).Length(len(table.Rows))

	sp := joined.Species("S. pneumoniae")
	gt.A(t, sp).Length(126)
	at := func(rows []surveillance.JoinedRow, k isoweek.Key) surveillance.JoinedRow {
		for _, r := range rows {
			if r.Key == k {
				return r
			}
		}
		t.Fatalf("no row for %s", k)
		return surveillance.JoinedRow{}
	}

	t.Run("matched bucket carries the mean", func(t *testing.T) {
		r := at(sp, w11)
		gt.Equal(t, r.Count, 1)
		gt.Equal(t, r.Stringency(), value.Some(45.5))
	})

	t.Run("bucket without an index value stays absent", func(t *testing.T) {
		r := at(sp, w12)
		gt.True(t, r.Policy.Present())
		gt.False(t, r.Stringency().Present())
	})

	t.Run("unmatched bucket is absent, not zero", func(t *testing.T) {
		r := at(sp, isoweek.Key{Year: 2018, Week: 1})
		gt.False(t, r.Policy.Present())
		gt.False(t, r.Stringency().Present())
	})

	t.Run("missing counts rows and buckets", func(t *testing.T) {
		// Two species on the Belgium grid, two matched weeks each.
		gt.Equal(t, joined.Missing(), 2*(126-2))
		gt.A(t, joined.MissingBuckets()).Length(126 - 2)
	})
}
