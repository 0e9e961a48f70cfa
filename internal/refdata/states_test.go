package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUSStates(t *testing.T) {
	states := USStates()

	name, ok := states.Name("GA")
	assert.True(t, ok)
	assert.Equal(t, "Georgia", name)

	assert.True(t, states.IsValidCode("TX"))
	assert.False(t, states.IsValidCode("XX"))
	assert.False(t, states.IsValidCode("ga")) // codes are upper-case

	assert.Len(t, states.Codes(), 51)
}
