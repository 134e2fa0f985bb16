package types_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRolePolicyAuthorize(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	policy := types.RolePolicy{}

	cases := []struct {
		name    string
		role    types.Role
		action  types.PolicyAction
		ownerID uuid.UUID
		wantErr error
	}{
		{name: "admin deletes foreign record", role: types.RoleAdmin, action: types.PolicyActionActivityDelete, ownerID: other},
		{name: "admin reads audit trail", role: types.RoleAdmin, action: types.PolicyActionAuditRead},
		{name: "manager reads activities", role: types.RoleManager, action: types.PolicyActionActivityRead},
		{name: "manager updates own record", role: types.RoleManager, action: types.PolicyActionActivityWrite, ownerID: owner},
		{name: "manager updates foreign record", role: types.RoleManager, action: types.PolicyActionActivityWrite, ownerID: other, wantErr: types.ErrNotRecordOwner},
		{name: "manager reads audit trail", role: types.RoleManager, action: types.PolicyActionAuditRead, wantErr: types.ErrUnauthorizedRole},
		{name: "server deletes own record", role: types.RoleServer, action: types.PolicyActionActivityDelete, ownerID: owner},
		{name: "server deletes foreign record", role: types.RoleServer, action: types.PolicyActionActivityDelete, ownerID: other, wantErr: types.ErrNotRecordOwner},
		{name: "server writes own preferences", role: types.RoleServer, action: types.PolicyActionPrefsWrite, ownerID: owner},
		{name: "unknown role may read, scope empties downstream", role: types.Role("superuser"), action: types.PolicyActionActivityRead},
		{name: "unknown role cannot write", role: types.Role("superuser"), action: types.PolicyActionActivityWrite, ownerID: owner, wantErr: types.ErrUnauthorizedRole},
		{name: "unknown role cannot read audit trail", role: types.Role("superuser"), action: types.PolicyActionAuditRead, wantErr: types.ErrUnauthorizedRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Authorize(context.Background(), types.PolicyCheck{
				Requester: types.Requester{UserID: owner, Role: tc.role},
				Action:    tc.action,
				OwnerID:   tc.ownerID,
			})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseRole(t *testing.T) {
	role, ok := types.ParseRole(" Manager ")
	require.True(t, ok)
	require.Equal(t, types.RoleManager, role)

	_, ok = types.ParseRole("root")
	require.False(t, ok)
}

func TestParseActivityType(t *testing.T) {
	at, ok := types.ParseActivityType("Training")
	require.True(t, ok)
	require.Equal(t, types.ActivityTraining, at)

	_, ok = types.ParseActivityType("picnic")
	require.False(t, ok)
}
