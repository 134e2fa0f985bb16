package crudsvc

import (
	"context"
	"testing"

	"github.com/goliatone/go-fieldlog/command"
	"github.com/goliatone/go-fieldlog/crudguard"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/preferences"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPreferenceServiceIndexPinsServerToOwnRows(t *testing.T) {
	requester := types.Requester{UserID: uuid.New(), Role: types.RoleServer}
	repo := &stubPreferenceRepo{}
	svc := NewPreferenceService(PreferenceServiceConfig{
		Guard: &stubGuardAdapter{result: crudguard.GuardResult{Requester: requester}},
		Repo:  repo,
	})

	ctx := newTestCrudContext(context.Background())
	ctx.queries["userId"] = uuid.NewString()

	_, _, err := svc.Index(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, requester.UserID, repo.lastFilter.UserID)
	require.Equal(t, types.PreferenceLevelUser, repo.lastFilter.Level)
}

func TestPreferenceServiceUpsertDefaultsToRequester(t *testing.T) {
	requester := types.Requester{UserID: uuid.New(), Role: types.RoleServer}
	upsert := &stubUpsertCmd{}
	svc := NewPreferenceService(PreferenceServiceConfig{
		Guard:  &stubGuardAdapter{result: crudguard.GuardResult{Requester: requester}},
		Upsert: upsert,
	})

	ctx := newTestCrudContext(context.Background())
	record := &preferences.Record{
		Key:   "report.columns",
		Value: map[string]any{"municipalities": true},
	}
	created, err := svc.Create(ctx, record)
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, 1, upsert.calls)
	require.Equal(t, requester.UserID, upsert.lastInput.UserID)
	require.Equal(t, types.PreferenceLevelUser, upsert.lastInput.Level)
	require.Equal(t, "report.columns", upsert.lastInput.Key)
}

func TestPreferenceServiceDeleteRunsCommand(t *testing.T) {
	requester := types.Requester{UserID: uuid.New(), Role: types.RoleAdmin}
	del := &stubDeleteCmd{}
	svc := NewPreferenceService(PreferenceServiceConfig{
		Guard:  &stubGuardAdapter{result: crudguard.GuardResult{Requester: requester}},
		Delete: del,
	})

	target := uuid.New()
	record := &preferences.Record{
		UserID: target,
		Level:  string(types.PreferenceLevelUser),
		Key:    "report.columns",
	}
	require.NoError(t, svc.Delete(newTestCrudContext(context.Background()), record))
	require.Equal(t, 1, del.calls)
	require.Equal(t, target, del.lastInput.UserID)
}

type stubPreferenceRepo struct {
	lastFilter types.PreferenceFilter
	records    []types.PreferenceRecord
}

func (s *stubPreferenceRepo) ListPreferences(_ context.Context, filter types.PreferenceFilter) ([]types.PreferenceRecord, error) {
	s.lastFilter = filter
	return s.records, nil
}

func (s *stubPreferenceRepo) UpsertPreference(_ context.Context, record types.PreferenceRecord) (*types.PreferenceRecord, error) {
	return &record, nil
}

func (s *stubPreferenceRepo) DeletePreference(context.Context, uuid.UUID, types.PreferenceLevel, string) error {
	return nil
}

type stubUpsertCmd struct {
	calls     int
	lastInput command.PreferenceUpsertInput
}

func (s *stubUpsertCmd) Execute(_ context.Context, input command.PreferenceUpsertInput) error {
	s.calls++
	s.lastInput = input
	if input.Result != nil {
		*input.Result = types.PreferenceRecord{
			ID:     uuid.New(),
			UserID: input.UserID,
			Level:  input.Level,
			Key:    input.Key,
			Value:  input.Value,
		}
	}
	return nil
}

type stubDeleteCmd struct {
	calls     int
	lastInput command.PreferenceDeleteInput
}

func (s *stubDeleteCmd) Execute(_ context.Context, input command.PreferenceDeleteInput) error {
	s.calls++
	s.lastInput = input
	return nil
}
