package ports

import (
	"datalens/domain/summary"
	"datalens/domain/table"
)

// Exporter converts tabular results into downloadable spreadsheet bytes.
// A zero-row table must still produce a valid file.
type Exporter interface {
	TableBytes(t *table.Table) ([]byte, error)
	DistributionBytes(d summary.Distribution) ([]byte, error)
}
