package visitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixTranslator struct{}

func (prefixTranslator) Translate(_ context.Context, texts []string, to, _ string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = to + ":" + t
	}
	return out
}

func TestParkingStatus(t *testing.T) {
	assert.Equal(t, ParkingAvailable, ParkingStatus(0))
	assert.Equal(t, ParkingAvailable, ParkingStatus(59))
	assert.Equal(t, ParkingModerate, ParkingStatus(60))
	assert.Equal(t, ParkingModerate, ParkingStatus(89))
	assert.Equal(t, ParkingFull, ParkingStatus(90))
	assert.Equal(t, ParkingFull, ParkingStatus(100))
}

func TestCatalog(t *testing.T) {
	g, err := NewGuide(nil)
	require.NoError(t, err)
	ctx := context.Background()

	heritage := g.Heritage(ctx, "")
	require.Len(t, heritage, 3)
	assert.Equal(t, "Trimbakeshwar Temple", heritage[1].Title)
	assert.Equal(t, 4.9, heritage[1].Rating)

	food := g.Food(ctx, "hi")
	require.Len(t, food, 3)
	assert.Equal(t, "₹60-100", food[0].PriceRange)

	parking := g.Parking(ctx, "")
	require.Len(t, parking, 4)
	statuses := map[string]string{}
	for _, p := range parking {
		statuses[p.Name] = p.Status
	}
	assert.Equal(t, ParkingAvailable, statuses["Godavari Ghat Parking"])
	assert.Equal(t, ParkingModerate, statuses["Panchavati Main Parking"])
	assert.Equal(t, ParkingFull, statuses["Ram Kund Private Lot"])
}

func TestCatalogTranslated(t *testing.T) {
	g, err := NewGuide(prefixTranslator{})
	require.NoError(t, err)
	ctx := context.Background()

	heritage := g.Heritage(ctx, "mr")
	assert.Equal(t, "mr:Panchavati", heritage[0].Title)
	assert.Equal(t, "mr:Half day", heritage[1].Duration)
	assert.Equal(t, "Old Nashik", heritage[0].Location)

	again := g.Heritage(ctx, "")
	assert.Equal(t, "Panchavati", again[0].Title)

	assert.Equal(t, "hi:Government", g.Parking(ctx, "hi")[0].Type)
	assert.Equal(t, "gu:Thukpa & Momos", g.Food(ctx, "gu")[2].Specialty)
}
