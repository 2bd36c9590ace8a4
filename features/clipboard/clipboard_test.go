package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagan/mapic/features/aimeta"
)

func TestFieldValue(t *testing.T) {
	m := aimeta.Parse("a  cat, Steps: 20, Seed: 42")
	value, err := FieldValue(m, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "a cat", value)

	value, err = FieldValue(m, "seed")
	require.NoError(t, err)
	assert.Equal(t, "42", value)

	_, err = FieldValue(m, "negative")
	assert.Error(t, err)
	_, err = FieldValue(m, "model")
	assert.Error(t, err)
	_, err = FieldValue(m, "color")
	assert.Error(t, err)
}

func TestCopyFieldAbsent(t *testing.T) {
	_, err := CopyField(aimeta.Empty(), "prompt")
	assert.Error(t, err)
}
