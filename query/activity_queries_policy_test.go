package query

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-fieldlog/activity"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestActivityFeedQueryScopesServerToOwnRecords(t *testing.T) {
	ctx := context.Background()
	db := newActivityQueryDB(t)
	applyActivityQueryDDL(t, db)
	store, err := activity.NewRepository(activity.RepositoryConfig{DB: db})
	require.NoError(t, err)

	serverID := uuid.New()
	otherID := uuid.New()
	seedQueryActivity(t, store, serverID, types.ActivityTraining, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC))
	seedQueryActivity(t, store, otherID, types.ActivitySupport, time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC))

	feed := NewActivityFeedQuery(store, scope.Default())
	page, err := feed.Query(ctx, types.ActivityFilter{
		Requester:  types.Requester{UserID: serverID, Role: types.RoleServer},
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.Equal(t, serverID, page.Records[0].OwnerID)
}

func TestActivityFeedQueryManagerSeesAllRecords(t *testing.T) {
	ctx := context.Background()
	db := newActivityQueryDB(t)
	applyActivityQueryDDL(t, db)
	store, err := activity.NewRepository(activity.RepositoryConfig{DB: db})
	require.NoError(t, err)

	managerID := uuid.New()
	seedQueryActivity(t, store, uuid.New(), types.ActivityTraining, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC))
	seedQueryActivity(t, store, uuid.New(), types.ActivityEvent, time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC))

	feed := NewActivityFeedQuery(store, scope.Default())
	page, err := feed.Query(ctx, types.ActivityFilter{
		Requester:  types.Requester{UserID: managerID, Role: types.RoleManager},
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
}

func TestActivityDetailQueryHidesForeignRecords(t *testing.T) {
	ctx := context.Background()
	db := newActivityQueryDB(t)
	applyActivityQueryDDL(t, db)
	store, err := activity.NewRepository(activity.RepositoryConfig{DB: db})
	require.NoError(t, err)

	ownerID := uuid.New()
	created := seedQueryActivity(t, store, ownerID, types.ActivityTraining, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC))

	detail := NewActivityDetailQuery(store, scope.Default())

	_, err = detail.Query(ctx, ActivityDetailInput{
		Requester: types.Requester{UserID: uuid.New(), Role: types.RoleServer},
		ID:        created.ID,
	})
	require.ErrorIs(t, err, types.ErrActivityNotFound)

	record, err := detail.Query(ctx, ActivityDetailInput{
		Requester: types.Requester{UserID: ownerID, Role: types.RoleServer},
		ID:        created.ID,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, record.ID)
}

func TestActivityStatsQueryAggregatesVisibleRecords(t *testing.T) {
	ctx := context.Background()
	db := newActivityQueryDB(t)
	applyActivityQueryDDL(t, db)
	store, err := activity.NewRepository(activity.RepositoryConfig{DB: db})
	require.NoError(t, err)

	serverID := uuid.New()
	otherID := uuid.New()
	seedQueryActivity(t, store, serverID, types.ActivityTraining, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC))
	seedQueryActivity(t, store, serverID, types.ActivitySupport, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	seedQueryActivity(t, store, otherID, types.ActivityTraining, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))

	clock := fixedClock{at: time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)}
	statsQuery := NewActivityStatsQuery(store, scope.Default(), clock)

	result, err := statsQuery.Query(ctx, types.StatisticsFilter{
		Requester: types.Requester{UserID: serverID, Role: types.RoleServer},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalActivities)
	require.Equal(t, 1, result.ByType[types.ActivityTraining])
	require.Equal(t, 1, result.ByMonth["2026-3"])
	require.Equal(t, 1, result.ByMonth["2026-2"])
	require.InDelta(t, 0.0, result.RecentTrend, 0.0001)

	adminResult, err := statsQuery.Query(ctx, types.StatisticsFilter{
		Requester: types.Requester{UserID: uuid.New(), Role: types.RoleAdmin},
	})
	require.NoError(t, err)
	require.Equal(t, 3, adminResult.TotalActivities)
}

func TestActivityStatsQueryUnknownRoleComesBackEmpty(t *testing.T) {
	ctx := context.Background()
	db := newActivityQueryDB(t)
	applyActivityQueryDDL(t, db)
	store, err := activity.NewRepository(activity.RepositoryConfig{DB: db})
	require.NoError(t, err)

	seedQueryActivity(t, store, uuid.New(), types.ActivityTraining, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC))

	clock := fixedClock{at: time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)}
	statsQuery := NewActivityStatsQuery(store, scope.Default(), clock)

	result, err := statsQuery.Query(ctx, types.StatisticsFilter{
		Requester: types.Requester{UserID: uuid.New(), Role: types.Role("intern")},
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.TotalActivities)
	require.NotNil(t, result.ByType)
	require.NotNil(t, result.ByMonth)
	require.NotNil(t, result.ByUser)
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func seedQueryActivity(t *testing.T, store *activity.Repository, owner uuid.UUID, kind types.ActivityType, date time.Time) *types.ActivityRecord {
	t.Helper()
	created, err := store.CreateActivity(context.Background(), types.ActivityRecord{
		Type:        kind,
		Description: "seeded record",
		Date:        date,
		OwnerID:     owner,
	})
	require.NoError(t, err)
	return created
}

func newActivityQueryDB(t *testing.T) *bun.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqlDB.Close()
	})
	return db
}

func applyActivityQueryDDL(t *testing.T, db *bun.DB) {
	content, err := os.ReadFile("../data/sql/migrations/sqlite/00001_activities.up.sql")
	require.NoError(t, err)
	for _, stmt := range splitActivityStatements(string(content)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func splitActivityStatements(sql string) []string {
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
