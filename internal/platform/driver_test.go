package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase", input: "icx", expected: "icx"},
		{name: "uppercase", input: "ICX", expected: "icx"},
		{name: "mixed case", input: "IcX", expected: "icx"},
		{name: "with spaces", input: "  icx  ", expected: "icx"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeName(tt.input))
		})
	}
}

func TestGet(t *testing.T) {
	driver, err := Get(" ICX ")
	require.NoError(t, err)
	assert.Equal(t, "icx", driver.Name())

	_, err = Get("ios")
	assert.EqualError(t, err, "unknown switch platform: ios")
}

func TestAvailable_ReturnsCopy(t *testing.T) {
	drivers := Available()
	require.NotEmpty(t, drivers)

	drivers[0] = nil
	assert.NotNil(t, Available()[0])
	assert.Equal(t, []string{"icx"}, Names())
}

func TestDetect(t *testing.T) {
	driver, err := Detect("Ruckus Wireless, Inc. ICX7650-48P")
	require.NoError(t, err)
	assert.Equal(t, "icx", driver.Name())

	_, err = Detect("Cisco IOS Software")
	assert.Error(t, err)
}
