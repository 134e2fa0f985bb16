package schema

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegistryDocumentCompilesProviders(t *testing.T) {
	reg := NewRegistry(WithInfo(router.OpenAPIInfo{
		Title:       "Field Activity Schemas",
		Version:     "v1",
		Description: "Integration snapshot",
	}))

	reg.Register(activityProvider())
	reg.Register(preferenceProvider())

	doc := reg.Document()
	require.NotNil(t, doc)
	assert.Equal(t, "Field Activity Schemas", doc["info"].(map[string]any)["title"])

	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	_, ok = paths["/activities"]
	assert.True(t, ok, "expected /activities path to be present")
	_, ok = paths["/statistics"]
	assert.True(t, ok, "expected the statistics extension route to be present")
	_, ok = paths["/preferences"]
	assert.True(t, ok, "expected /preferences path to be present")
}

func TestRegistryHandlerEmitsNoContentWhenEmpty(t *testing.T) {
	reg := NewRegistry()
	ctx := router.NewMockContext()
	ctx.On("NoContent", http.StatusNoContent).Return(nil)

	require.NoError(t, reg.Handler()(ctx))
	ctx.AssertCalled(t, "NoContent", http.StatusNoContent)
}

func TestRegistryHandlerReturnsJSONPayload(t *testing.T) {
	reg := NewRegistry()
	reg.Register(preferenceProvider())

	ctx := router.NewMockContext()
	ctx.On("JSON", http.StatusOK, mock.Anything).Return(nil)

	require.NoError(t, reg.Handler()(ctx))
	ctx.AssertCalled(t, "JSON", http.StatusOK, mock.Anything)
}

func TestRegistryListenerReceivesSnapshot(t *testing.T) {
	reg := NewRegistry()
	called := false
	reg.Subscribe(func(_ context.Context, snap Snapshot) {
		called = true
		require.Equal(t, []string{"activity"}, snap.ResourceNames)
		require.NotNil(t, snap.Document)
	})

	reg.Register(activityProvider())
	assert.True(t, called, "expected listener to be invoked")
}

type stubProvider struct {
	metadata router.ResourceMetadata
}

func (s stubProvider) GetMetadata() router.ResourceMetadata {
	return s.metadata
}

// activityProvider mirrors the activity resource the web example mounts:
// the list route plus the statistics extension.
func activityProvider() router.MetadataProvider {
	return stubProvider{
		metadata: router.ResourceMetadata{
			Name:       "activity",
			PluralName: "activities",
			Schema: router.SchemaMetadata{
				Name: "activity",
				Properties: map[string]router.PropertyInfo{
					"id": {
						Type:         "integer",
						OriginalName: "id",
					},
					"type": {
						Type:         "string",
						OriginalName: "type",
					},
					"description": {
						Type:         "string",
						OriginalName: "description",
					},
				},
			},
			Routes: []router.RouteDefinition{
				{
					Method: router.GET,
					Path:   "/activities",
					Name:   "activity:list",
				},
				{
					Method: router.GET,
					Path:   "/statistics",
					Name:   "activity:statistics",
				},
			},
		},
	}
}

func preferenceProvider() router.MetadataProvider {
	return stubProvider{
		metadata: router.ResourceMetadata{
			Name:       "preference",
			PluralName: "preferences",
			Schema: router.SchemaMetadata{
				Name: "preference",
				Properties: map[string]router.PropertyInfo{
					"id": {
						Type:         "string",
						OriginalName: "id",
					},
					"key": {
						Type:         "string",
						OriginalName: "key",
					},
					"level": {
						Type:         "string",
						OriginalName: "level",
					},
				},
			},
			Routes: []router.RouteDefinition{
				{
					Method: router.GET,
					Path:   "/preferences",
					Name:   "preference:list",
				},
			},
		},
	}
}
