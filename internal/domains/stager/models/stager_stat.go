package models

import "time"

// StagerStat summarizes what is currently kept in the staging root.
type StagerStat struct {
	Tracks int
	Size   int64
	Oldest time.Time
}
