package domain

import "time"

// Usage is a point-in-time view of a user's credit balance.
type Usage struct {
	RemainingPoints int64
	UsedPoints      int64
	TotalPoints     int64
	MsBeforeNext    int64
	Plan            Plan
	ResetTime       time.Time
}
