package export

import "time"

// Dataset defines tabular export content. Title and GeneratedAt feed the
// heading rows of the Excel and PDF renderers.
type Dataset struct {
	Title       string
	GeneratedAt time.Time
	Headers     []string
	Rows        []map[string]string
}
