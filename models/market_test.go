package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1234.57, Round2(1234.5678))
	assert.Equal(t, 1234.56, Round2(1234.5649))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -1.5, Round2(-1.499999))
	// Round half away from zero.
	assert.Equal(t, 2.68, Round2(2.675))
}

func TestScanResultRSINull(t *testing.T) {
	res := ScanResult{Symbol: "TCS.NS", RSI: nil}
	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	val, present := decoded["rsi"]
	assert.True(t, present)
	assert.Nil(t, val)
}
