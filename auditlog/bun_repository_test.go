package auditlog

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestRepository_RecordAndList(t *testing.T) {
	ctx := context.Background()
	db := newTestAuditDB(t)
	applyAuditDDL(t, db)

	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, store.Record(ctx, types.AuditRecord{
		UserID: userID,
		Action: ActionCreateActivity,
		Details: map[string]any{
			"activity_id": int64(12),
		},
	}))
	require.NoError(t, store.Record(ctx, types.AuditRecord{
		UserID: uuid.New(),
		Action: ActionLogin,
	}))

	page, err := store.ListAudit(ctx, types.AuditFilter{
		Requester:  types.Requester{UserID: uuid.New(), Role: types.RoleAdmin},
		UserID:     userID,
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.Equal(t, ActionCreateActivity, page.Records[0].Action)
	require.Equal(t, userID, page.Records[0].UserID)
}

func TestRepository_ListFiltersByAction(t *testing.T) {
	ctx := context.Background()
	db := newTestAuditDB(t)
	applyAuditDDL(t, db)
	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	userID := uuid.New()
	for _, action := range []string{ActionLogin, ActionLogout, ActionDeleteActivity} {
		require.NoError(t, store.Record(ctx, types.AuditRecord{
			UserID: userID,
			Action: action,
		}))
	}

	page, err := store.ListAudit(ctx, types.AuditFilter{
		Requester:  types.Requester{UserID: uuid.New(), Role: types.RoleAdmin},
		Actions:    []string{ActionLogin, ActionLogout},
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
}

func TestRepository_RecordMasksDetails(t *testing.T) {
	ctx := context.Background()
	db := newTestAuditDB(t)
	applyAuditDDL(t, db)
	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	require.NoError(t, store.Record(ctx, types.AuditRecord{
		UserID: uuid.New(),
		Action: ActionLogin,
		Details: map[string]any{
			"password": "hunter2",
			"username": "clerk",
		},
	}))

	page, err := store.ListAudit(ctx, types.AuditFilter{
		Requester:  types.Requester{UserID: uuid.New(), Role: types.RoleAdmin},
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.NotEqual(t, "hunter2", page.Records[0].Details["password"])
	require.Equal(t, "clerk", page.Records[0].Details["username"])
}

func newTestAuditDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applyAuditDDL(t *testing.T, db *bun.DB) {
	content, err := os.ReadFile("../data/sql/migrations/sqlite/00002_audit_logs.up.sql")
	require.NoError(t, err)
	for _, stmt := range splitStatements(string(content)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func splitStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var builder strings.Builder
	var statements []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSuffix(builder.String(), ";"))
			builder.Reset()
		} else {
			builder.WriteString(" ")
		}
	}
	if builder.Len() > 0 {
		statements = append(statements, builder.String())
	}
	return statements
}
