package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyBadge(t *testing.T) {
	assert.Equal(t, Mint, Difficulty("Basic").GetBackground())
	assert.Equal(t, Coral, Difficulty("Complex").GetBackground())
	assert.Equal(t, ChalkDim, Difficulty("Impossible").GetBackground())
	assert.Contains(t, Difficulty("Moderate").Render("Moderate"), "Moderate")
}
