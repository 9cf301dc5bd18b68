package ports

import (
	"datalens/domain/table"
)

// Loader parses raw uploaded bytes into a table. Implementations decide the
// format; the caller supplies no format hint.
type Loader interface {
	Load(data []byte) (*table.Table, error)
}
