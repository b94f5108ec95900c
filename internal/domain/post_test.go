package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicwatch/internal/domain"
)

func TestParseLocation(t *testing.T) {
	t.Run("String Form", func(t *testing.T) {
		loc, err := domain.ParseLocation(json.RawMessage(`"48.8566, 2.3522"`))

		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.Equal(t, 48.8566, loc.Latitude)
		assert.Equal(t, 2.3522, loc.Longitude)
	})

	t.Run("Object Form", func(t *testing.T) {
		loc, err := domain.ParseLocation(json.RawMessage(`{"latitude": -33.86, "longitude": 151.2}`))

		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.Equal(t, -33.86, loc.Latitude)
		assert.Equal(t, 151.2, loc.Longitude)
	})

	t.Run("Absent", func(t *testing.T) {
		loc, err := domain.ParseLocation(nil)
		require.NoError(t, err)
		assert.Nil(t, loc)

		loc, err = domain.ParseLocation(json.RawMessage(`null`))
		require.NoError(t, err)
		assert.Nil(t, loc)
	})

	t.Run("Invalid", func(t *testing.T) {
		cases := []string{
			`"not a location"`,
			`"1,2,3"`,
			`"91,0"`,
			`"0,181"`,
			`"-91,0"`,
			`"abc,def"`,
			`12345`,
			`{"latitude": 200, "longitude": 0}`,
		}
		for _, raw := range cases {
			_, err := domain.ParseLocation(json.RawMessage(raw))
			assert.ErrorIs(t, err, domain.ErrInvalidLocation, "input %s", raw)
		}
	})
}
