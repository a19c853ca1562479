package tasks_test

import (
	"testing"
	"time"

	"github.com/go-phorce/oneshot/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TimingKind(t *testing.T) {
	assert.Equal(t, "absolute", tasks.Absolute.String())
	assert.Equal(t, "relative", tasks.Relative.String())
	assert.Equal(t, "TimingKind(0)", tasks.TimingKind(0).String())
}

func Test_TimingAt(t *testing.T) {
	now := time.Now()
	target := now.Add(time.Hour)

	tm := tasks.At(target)
	assert.Equal(t, tasks.Absolute, tm.Kind())
	assert.Equal(t, target, tm.Target())
	assert.Equal(t, time.Duration(0), tm.Delay())

	assert.False(t, tm.Reached(now))
	assert.True(t, tm.Reached(target))
	assert.True(t, tm.Reached(target.Add(time.Second)))

	assert.Equal(t, time.Hour, tm.Remaining(now))
	assert.Equal(t, time.Duration(0), tm.Remaining(target.Add(time.Minute)))
	assert.Equal(t, "at "+target.Format(tasks.DateFormat), tm.String())
}

func Test_TimingAfter(t *testing.T) {
	tm := tasks.After(3 * time.Second)
	assert.Equal(t, tasks.Relative, tm.Kind())
	assert.True(t, tm.Target().IsZero())
	assert.Equal(t, 3*time.Second, tm.Delay())
	assert.False(t, tm.Reached(time.Now()))
	assert.Equal(t, 3*time.Second, tm.Remaining(time.Now()))
	assert.Equal(t, "after 3s", tm.String())

	assert.Equal(t, "never", tasks.Timing{}.String())
}

func Test_TimingValidate(t *testing.T) {
	tests := []struct {
		name       string
		timing     tasks.Timing
		resolution time.Duration
		experr     string
	}{
		{"after", tasks.After(2 * time.Second), time.Second, ""},
		{"after_units", tasks.After(300 * time.Millisecond), 100 * time.Millisecond, ""},
		{"default_resolution", tasks.After(time.Second), 0, ""},
		{"at", tasks.At(time.Now()), time.Second, ""},
		{"at_past", tasks.At(time.Now().Add(-time.Hour)), time.Second, ""},
		{"zero_delay", tasks.After(0), time.Second, "non-positive delay 0s not valid"},
		{"negative_delay", tasks.After(-time.Second), time.Second, "non-positive delay -1s not valid"},
		{"fraction", tasks.After(1500 * time.Millisecond), time.Second, "delay 1.5s with resolution 1s not valid"},
		{"zero_target", tasks.At(time.Time{}), time.Second, "not valid"},
		{"none", tasks.Timing{}, time.Second, "timing kind 0 not valid"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.timing.Validate(tc.resolution)
			if tc.experr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, tasks.IsValidationError(err))
				assert.Contains(t, err.Error(), tc.experr)
			}
		})
	}
}
