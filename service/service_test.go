package service_test

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-fieldlog/activity"
	"github.com/goliatone/go-fieldlog/auditlog"
	"github.com/goliatone/go-fieldlog/command"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/preferences"
	"github.com/goliatone/go-fieldlog/query"
	"github.com/goliatone/go-fieldlog/service"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestService_EndToEndVisibility(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	serverA := types.Requester{UserID: uuid.New(), Role: types.RoleServer}
	serverB := types.Requester{UserID: uuid.New(), Role: types.RoleServer}
	manager := types.Requester{UserID: uuid.New(), Role: types.RoleManager}
	admin := types.Requester{UserID: uuid.New(), Role: types.RoleAdmin}

	var mine types.ActivityRecord
	err := svc.Commands().ActivityCreate.Execute(ctx, command.ActivityCreateInput{
		Requester: serverA,
		Activity: types.ActivityInput{
			Type:           types.ActivityTraining,
			Description:    "pesticide certification workshop",
			Date:           time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
			Municipalities: []string{"ponce"},
		},
		Result: &mine,
	})
	require.NoError(t, err)
	require.NotZero(t, mine.ID)
	require.Equal(t, serverA.UserID, mine.OwnerID)

	var theirs types.ActivityRecord
	err = svc.Commands().ActivityCreate.Execute(ctx, command.ActivityCreateInput{
		Requester: serverB,
		Activity: types.ActivityInput{
			Type:        types.ActivitySupport,
			Description: "irrigation site visit",
			Date:        time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
		},
		Result: &theirs,
	})
	require.NoError(t, err)

	// A server only reads their own records back.
	page, err := svc.Queries().ActivityFeed.Query(ctx, types.ActivityFilter{
		Requester:  serverA,
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.Equal(t, mine.ID, page.Records[0].ID)

	// Managers see every record.
	page, err = svc.Queries().ActivityFeed.Query(ctx, types.ActivityFilter{
		Requester:  manager,
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	// A record owned by someone else reads as not found for a server.
	_, err = svc.Queries().ActivityDetail.Query(ctx, query.ActivityDetailInput{
		Requester: serverA,
		ID:        theirs.ID,
	})
	require.ErrorIs(t, err, types.ErrActivityNotFound)

	// Statistics aggregate only the visible set.
	stats, err := svc.Queries().ActivityStats.Query(ctx, types.StatisticsFilter{Requester: serverA})
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalActivities)
	require.Equal(t, 1, stats.ByMonth["2026-2"])

	stats, err = svc.Queries().ActivityStats.Query(ctx, types.StatisticsFilter{Requester: admin})
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalActivities)

	// Unknown roles read back empty rather than erroring.
	page, err = svc.Queries().ActivityFeed.Query(ctx, types.ActivityFilter{
		Requester:  types.Requester{UserID: uuid.New(), Role: types.Role("intern")},
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Zero(t, page.Total)
}

func TestService_AuditTrailAndPreferences(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	server := types.Requester{UserID: uuid.New(), Role: types.RoleServer}
	admin := types.Requester{UserID: uuid.New(), Role: types.RoleAdmin}

	err := svc.Commands().ActivityCreate.Execute(ctx, command.ActivityCreateInput{
		Requester: server,
		Activity: types.ActivityInput{
			Type:        types.ActivityEvent,
			Description: "regional agricultural fair",
			Date:        time.Date(2026, time.April, 18, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	// Mutations land on the audit trail; only admins read it back.
	trail, err := svc.Queries().AuditTrail.Query(ctx, types.AuditFilter{
		Requester:  admin,
		Actions:    []string{auditlog.ActionCreateActivity},
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, trail.Records, 1)
	require.Equal(t, server.UserID, trail.Records[0].UserID)

	_, err = svc.Queries().AuditTrail.Query(ctx, types.AuditFilter{
		Requester:  server,
		Pagination: types.Pagination{Limit: 10},
	})
	require.ErrorIs(t, err, types.ErrUnauthorizedRole)

	// User preference overrides the system default in the resolved view.
	err = svc.Commands().PreferenceUpsert.Execute(ctx, command.PreferenceUpsertInput{
		Requester: admin,
		Level:     types.PreferenceLevelSystem,
		Key:       "report.layout",
		Value:     map[string]any{"columns": "compact"},
	})
	require.NoError(t, err)

	err = svc.Commands().PreferenceUpsert.Execute(ctx, command.PreferenceUpsertInput{
		Requester: server,
		UserID:    server.UserID,
		Level:     types.PreferenceLevelUser,
		Key:       "report.layout",
		Value:     map[string]any{"columns": "wide"},
	})
	require.NoError(t, err)

	snapshot, err := svc.Queries().Preferences.Query(ctx, query.PreferenceQueryInput{
		Requester: server,
		Keys:      []string{"report.layout"},
	})
	require.NoError(t, err)
	layout, ok := snapshot.Effective["report.layout"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "wide", layout["columns"])
}

func TestService_HealthCheck(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(t)
	require.True(t, svc.Ready())
	require.NoError(t, svc.HealthCheck(ctx))

	empty := service.New(service.Config{})
	require.False(t, empty.Ready())
	require.ErrorIs(t, empty.HealthCheck(ctx), types.ErrMissingActivityRepository)
}

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	db := newServiceTestDB(t)

	activityRepo, err := activity.NewRepository(activity.RepositoryConfig{DB: db})
	require.NoError(t, err)
	auditRepo, err := auditlog.NewRepository(auditlog.RepositoryConfig{DB: db})
	require.NoError(t, err)
	preferenceRepo, err := preferences.NewRepository(preferences.RepositoryConfig{DB: db})
	require.NoError(t, err)

	return service.New(service.Config{
		ActivityRepository:   activityRepo,
		AuditSink:            auditRepo,
		AuditRepository:      auditRepo,
		PreferenceRepository: preferenceRepo,
	})
}

func newServiceTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})

	entries, err := os.ReadDir("../data/sql/migrations/sqlite")
	require.NoError(t, err)
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		content, err := os.ReadFile("../data/sql/migrations/sqlite/" + entry.Name())
		require.NoError(t, err)
		for _, stmt := range splitStatements(string(content)) {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			_, err := db.Exec(stmt)
			require.NoError(t, err)
		}
	}
	return db
}

func splitStatements(ddl string) []string {
	lines := strings.Split(ddl, "\n")
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
