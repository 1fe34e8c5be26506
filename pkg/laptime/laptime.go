// Package laptime parses and formats lap times in the canonical HH:MM:SS.mmm form.
package laptime

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"racego.com/raceapi/pkg/apperror"
)

var pattern = regexp.MustCompile(`^(\d{1,2}):([0-5]\d):([0-5]\d)\.(\d{3})$`)

// Parse converts a lap time string into a duration. Hours may have one or two
// digits; minutes and seconds two; milliseconds exactly three.
func Parse(s string) (time.Duration, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, apperror.Validation("invalid lap time", map[string]string{
			"time": fmt.Sprintf("%q does not match HH:MM:SS.mmm", s),
		})
	}

	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])

	return time.Duration(h)*time.Hour +
		time.Duration(mins)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// Format renders d as HH:MM:SS.mmm, truncating below milliseconds.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}

// Normalize validates s and returns its canonical form.
func Normalize(s string) (string, error) {
	d, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(d), nil
}

// NormalizeAll normalizes every entry of times, failing on the first invalid one.
func NormalizeAll(times []string) ([]string, error) {
	out := make([]string, 0, len(times))
	for _, t := range times {
		n, err := Normalize(t)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func Valid(s string) bool {
	return pattern.MatchString(s)
}
