package config

import "time"

// SchedulerConfig controls the background job that rejects pending
// reservations whose check-in date has passed.
type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
}

func LoadSchedulerConfig() SchedulerConfig {
	c := SchedulerConfig{
		Enabled:  envBool("EXPIRY_JOB_ENABLED", true),
		Interval: envDur("EXPIRY_JOB_INTERVAL", time.Hour),
	}
	if c.Interval < time.Second {
		c.Interval = time.Second
	}
	return c
}
