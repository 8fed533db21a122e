package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/arena/internal/contracts"
)

func TestRenderSVG(t *testing.T) {
	records := []contracts.PerformanceRecord{
		rec("claude", 0, "100"),
		rec("claude", 10*time.Minute, "120"),
		rec("qwen", 10*time.Minute, "90"),
		rec("qwen", 20*time.Minute, "95"),
	}

	var buf bytes.Buffer
	err := RenderSVG(&buf, Bucket(records))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "claude")
	assert.Contains(t, out, "qwen")
}

func TestRenderSVG_FlatSeries(t *testing.T) {
	records := []contracts.PerformanceRecord{
		rec("flat", 0, "100"),
		rec("flat", 10*time.Minute, "100"),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, Bucket(records)))
	assert.NotZero(t, buf.Len())
}

func TestRenderSVG_NotEnoughPoints(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderSVG(&buf, Bucket(nil)), ErrNotEnoughPoints)

	single := []contracts.PerformanceRecord{rec("a", 0, "1"), rec("b", 10*time.Minute, "2")}
	assert.ErrorIs(t, RenderSVG(&buf, Bucket(single)), ErrNotEnoughPoints)
}
