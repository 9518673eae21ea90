package clock

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Delay is a closed range of simulated work durations quantised to Step.
// Its text form is "min-max/step", e.g. "500ms-1s/100ms"; "1s" is a fixed
// delay and "0" disables it.
type Delay struct {
	Min  time.Duration
	Max  time.Duration
	Step time.Duration
}

// NoDelay disables simulated work.
var NoDelay = Delay{}

// Validate checks the range bounds.
func (d Delay) Validate() error {
	if d.Min < 0 || d.Max < 0 || d.Step < 0 {
		return fmt.Errorf("delay must not be negative: %v", d)
	}
	if d.Max < d.Min {
		return fmt.Errorf("delay max %v is lower than min %v", d.Max, d.Min)
	}
	return nil
}

// Pick returns a duration in [Min, Max]. With a Step every multiple of Step
// above Min is equally likely.
func (d Delay) Pick(rnd *rand.Rand) time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	span := d.Max - d.Min
	if d.Step <= 0 {
		return d.Min + time.Duration(rnd.Int64N(int64(span)+1))
	}
	steps := int64(span / d.Step)
	return d.Min + time.Duration(rnd.Int64N(steps+1))*d.Step
}

func (d Delay) String() string {
	return fmt.Sprintf("%v-%v/%v", d.Min, d.Max, d.Step)
}

// ParseDelay parses the text form of a Delay.
func ParseDelay(text string) (Delay, error) {
	var ret Delay
	text = strings.TrimSpace(text)
	if text == "" || text == "0" {
		return ret, nil
	}
	bounds, step, hasStep := strings.Cut(text, "/")
	lower, upper, hasUpper := strings.Cut(bounds, "-")
	var err error
	if ret.Min, err = time.ParseDuration(lower); err != nil {
		return ret, fmt.Errorf("invalid delay %q: %w", text, err)
	}
	ret.Max = ret.Min
	if hasUpper {
		if ret.Max, err = time.ParseDuration(upper); err != nil {
			return ret, fmt.Errorf("invalid delay %q: %w", text, err)
		}
	}
	if hasStep {
		if ret.Step, err = time.ParseDuration(step); err != nil {
			return ret, fmt.Errorf("invalid delay %q: %w", text, err)
		}
	}
	return ret, ret.Validate()
}

// MarshalText encodes the delay as "min-max/step".
func (d Delay) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes the text form produced by MarshalText.
func (d *Delay) UnmarshalText(text []byte) error {
	parsed, err := ParseDelay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
