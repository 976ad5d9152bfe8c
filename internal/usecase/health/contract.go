package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SchemaChecker checks that the search schema is readable.
type SchemaChecker interface {
	Check(ctx context.Context) error
}
