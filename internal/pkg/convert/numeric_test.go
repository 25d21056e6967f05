package convert

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	assert.Equal(t, 0.0, ToFloat64(nil))
	assert.Equal(t, 1.5, ToFloat64(1.5))
	assert.Equal(t, 2.0, ToFloat64(float32(2)))
	assert.Equal(t, 3.0, ToFloat64(3))
	assert.Equal(t, 4.0, ToFloat64(int64(4)))
	assert.Equal(t, 5.0, ToFloat64(json.Number("5")))
	assert.Equal(t, 72.5, ToFloat64(" 72.5 "))
	assert.Equal(t, 0.0, ToFloat64("not a number"))
	assert.Equal(t, 0.0, ToFloat64([]string{"x"}))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 77, ToInt("77.9"))
	assert.Equal(t, -3, ToInt(-3.2))
	assert.Equal(t, 0, ToInt(nil))
}
