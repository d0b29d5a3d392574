package DuckCLI

import (
	"github.com/nickyhof/DuckCLI/db"
)

// Instance is an open database handle. Its lifecycle is bound to a
// single CLI invocation or a scoped library use.
type Instance struct {
	client *db.Client
}

// Open opens a database at the given path. An empty path or ":memory:"
// opens an in-memory database.
func Open(path string) (*Instance, error) {
	client, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return &Instance{client: client}, nil
}

// Client returns the underlying database client.
func (instance *Instance) Client() *db.Client {
	return instance.client
}

// Close releases the database handle.
func (instance *Instance) Close() error {
	return instance.client.Close()
}
