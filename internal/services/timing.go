package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs how long a service call took. Use with defer:
//
//	defer TrackTime("Run", time.Now())
func TrackTime(funcName string, start time.Time) {
	elapsed := time.Since(start)
	log.WithField("elapsed_us", elapsed.Microseconds()).Debugf("%s took %d ms", funcName, elapsed.Milliseconds())
}
