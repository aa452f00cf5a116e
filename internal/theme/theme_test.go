package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	th := New(Light)
	assert.Equal(t, Light, th.Current().Mode)
	assert.Equal(t, "#f2f2f2", th.Current().Palette.Background)

	s := th.Toggle()
	assert.Equal(t, Dark, s.Mode)
	assert.Equal(t, "#050816", s.Palette.Background)
	assert.Equal(t, "#f97373", s.Palette.Danger)

	assert.Equal(t, Light, th.Toggle().Mode)
}

func TestNewUnknownModeStartsLight(t *testing.T) {
	assert.Equal(t, Light, New("sepia").Current().Mode)
	assert.Equal(t, Dark, New(Dark).Current().Mode)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("dark")
	require.NoError(t, err)
	assert.Equal(t, Dark, m)

	_, err = ParseMode("Dark")
	assert.Error(t, err)
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, "#4f46e5", PaletteFor(Light).Primary)
	assert.Equal(t, "#6366f1", PaletteFor(Dark).Primary)
	assert.Equal(t, PaletteFor(Light), PaletteFor("other"))
}
