package entity

import (
	"time"

	"github.com/google/uuid"
)

// Client identifies the caller of a redirect.
type Client struct {
	IP        string
	Signature string // usually the User-Agent header
}

// UsageEvent is a durable record of one successful redirect.
type UsageEvent struct {
	URLID      uuid.UUID
	AccessedAt time.Time
	Client
}

// SignatureCount is the number of usage events of one URL sharing a client signature.
type SignatureCount struct {
	URLID     uuid.UUID
	Signature string
	Count     int64
}

// URLStats contains the usage statistics of a single URL.
type URLStats struct {
	ID               uuid.UUID
	Alias            string
	LongURL          string
	HitCount         int64
	TotalAccessCount int64
	SignatureCounts  map[string]int64
}
