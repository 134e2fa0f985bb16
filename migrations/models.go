package migrations

import (
	"github.com/goliatone/go-fieldlog/activity"
	"github.com/goliatone/go-fieldlog/auditlog"
	"github.com/goliatone/go-fieldlog/preferences"
	"github.com/goliatone/go-persistence-bun"
)

// RegisterModels registers the go-fieldlog bun models with the
// go-persistence-bun model registry so fixtures and create-table helpers
// can see them. Hosts call this before constructing the persistence
// client.
func RegisterModels() {
	persistence.RegisterModel((*activity.Entry)(nil))
	persistence.RegisterModel((*auditlog.LogEntry)(nil))
	persistence.RegisterModel((*preferences.Record)(nil))
}
