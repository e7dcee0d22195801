// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: importing it runs the init functions of
// each backend, which register their factories. After the import the
// following kinds are available to storage.New:
//
//   - "sqlite"   (salesdw/internal/storage/sqlite)
//   - "postgres" (salesdw/internal/storage/postgres)
//
// Typical usage:
//
//	import _ "salesdw/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DSN})
package all

import (
	_ "salesdw/internal/storage/postgres"
	_ "salesdw/internal/storage/sqlite"
)
