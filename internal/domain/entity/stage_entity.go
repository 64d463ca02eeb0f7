package entity

import (
	"time"
)

// PipelineStage is one ordered column of the deals board. Stages are
// configuration data seeded outside the request path; the API never
// creates or mutates them.
type PipelineStage struct {
	ID        string
	Name      string
	Color     string
	SortOrder int
	CreatedAt time.Time
}
