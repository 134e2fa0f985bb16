package migrations

import (
	"io/fs"

	fieldlog "github.com/goliatone/go-fieldlog"
)

func init() {
	coreFS, err := fs.Sub(fieldlog.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
