package headline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTogglePeriod(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "appends period", input: "Senior Go Engineer", want: "Senior Go Engineer."},
		{name: "removes period", input: "Senior Go Engineer.", want: "Senior Go Engineer"},
		{name: "strips trailing whitespace before appending", input: "Engineer  \n", want: "Engineer."},
		{name: "strips trailing whitespace before removing", input: "Engineer. \t", want: "Engineer"},
		{name: "removes only one period", input: "Engineer..", want: "Engineer."},
		{name: "keeps leading whitespace", input: "  Engineer", want: "  Engineer."},
		{name: "empty", input: "", want: "."},
		{name: "whitespace only", input: " \n\t ", want: "."},
		{name: "single period", input: ".", want: ""},
		{name: "non-breaking space is whitespace", input: "Engineer ", want: "Engineer."},
		{name: "period inside text untouched", input: "B.Tech graduate", want: "B.Tech graduate."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TogglePeriod(tt.input))
		})
	}
}

func TestTogglePeriod_RoundTrip(t *testing.T) {
	// Two toggles restore a value that has no trailing whitespace.
	for _, s := range []string{"Go developer", "Go developer.", "x"} {
		assert.Equal(t, s, TogglePeriod(TogglePeriod(s)), "round trip of %q", s)
	}
}

func TestPlan(t *testing.T) {
	change := Plan("Backend engineer")
	assert.Equal(t, "Backend engineer", change.Before)
	assert.Equal(t, "Backend engineer.", change.After)
	assert.True(t, change.Changed)

	change = Plan("Backend engineer.")
	assert.Equal(t, "Backend engineer", change.After)
	assert.True(t, change.Changed)
}
