//go:build !linux

package timeline

import (
	"errors"
	"time"
)

var errNoBirthTime = errors.New("creation time not available on this platform")

func creationTime(string) (time.Time, error) {
	return time.Time{}, errNoBirthTime
}
