package main

import (
	"salesdw/internal/query"
	"salesdw/internal/storage"
)

// storageConfig maps the warehouse section of the config onto the storage
// factory.
func (a *app) storageConfig() storage.Config {
	return storage.Config{
		Kind:      a.cfg.Storage.Kind,
		DSN:       a.cfg.Storage.DSN,
		BatchSize: a.cfg.Storage.BatchSize,
	}
}

// newService builds the query service from config.
func (a *app) newService() (*query.Service, error) {
	m, err := query.ParseMatcher(a.cfg.Query.Matcher)
	if err != nil {
		return nil, err
	}
	return query.NewService(
		query.StorageOpener(a.storageConfig()),
		query.WithMatcher(m),
		query.WithTopLimit(a.cfg.Query.TopLimit),
	), nil
}
