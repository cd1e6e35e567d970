package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/search"
)

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"ist":    "IST",
		" j-f-k": "JFK",
		"is":     "IS",
		"istanb": "IST",
		"1a2":    "A",
		"":       "",
		"çağ":    "AG",
	}
	for in, want := range tests {
		assert.Equal(t, want, search.NormalizeCode(in), "input %q", in)
	}
}

func TestClampPassengers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 9, search.ClampPassengers("15"))
	assert.Equal(t, 1, search.ClampPassengers("0"))
	assert.Equal(t, 1, search.ClampPassengers("-3"))
	assert.Equal(t, 1, search.ClampPassengers("abc"))
	assert.Equal(t, 1, search.ClampPassengers(""))
	assert.Equal(t, 4, search.ClampPassengers(" 4 "))

	assert.Equal(t, 2, search.StepPassengers(1, 1))
	assert.Equal(t, 9, search.StepPassengers(9, 1))
	assert.Equal(t, 1, search.StepPassengers(1, -1))
}

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  search.Request
		want error
		key  string
	}{
		{
			name: "valid",
			req:  search.Request{Origin: "ist", Destination: "JFK", Departure: "2026-05-01"},
		},
		{
			name: "missing departure",
			req:  search.Request{Origin: "IST", Destination: "JFK"},
			want: search.ErrIncomplete,
			key:  "fillAll",
		},
		{
			name: "completeness is checked first",
			req:  search.Request{Origin: "IS", Destination: ""},
			want: search.ErrIncomplete,
			key:  "fillAll",
		},
		{
			name: "two letter code",
			req:  search.Request{Origin: "IS", Destination: "JFK", Departure: "2026-05"},
			want: search.ErrInvalidCode,
			key:  "iataError",
		},
		{
			name: "same route",
			req:  search.Request{Origin: "ist", Destination: "IST", Departure: "2026"},
			want: search.ErrSameRoute,
			key:  "sameRoute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Normalize().Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
			ve, ok := search.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.key, ve.Key)
		})
	}
}

func TestRequest_Swap(t *testing.T) {
	t.Parallel()

	r := search.Request{Origin: "IST", Destination: "jfk", Departure: "2026-05"}.Swap()
	assert.Equal(t, "JFK", r.Origin)
	assert.Equal(t, "IST", r.Destination)
	assert.Equal(t, "2026-05", r.Departure)
}
