package arcgis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"GreenCampus.dumpsterSync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testItemID  = "8666b76b27a74b1b8569d340cd3928e6"
	servicePath = "/arcgis/rest/services/Live_Dumpster_Sensors/FeatureServer"
)

// fakePortal emulates the portal and the feature service on one server.
type fakePortal struct {
	server      *httptest.Server
	tokenBody   string
	serviceBody string
	queryBody   string
	editsBody   string
	lastWhere   string
	lastUpdates []models.Feature
	queryCalls  int
	editCalls   int
}

func newFakePortal(t *testing.T) *fakePortal {
	t.Helper()
	p := &fakePortal{
		tokenBody:   `{"access_token":"app-token","expires_in":7200}`,
		serviceBody: `{"layers":[{"id":0,"name":"Dumpsters"}]}`,
		queryBody:   `{"objectIdFieldName":"OBJECTID","features":[]}`,
		editsBody:   `{"addResults":[],"updateResults":[{"objectId":7,"success":true}],"deleteResults":[]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/sharing/rest/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Write([]byte(p.tokenBody))
	})
	mux.HandleFunc("/sharing/rest/content/items/"+testItemID, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app-token", r.URL.Query().Get("token"))
		assert.Equal(t, "json", r.URL.Query().Get("f"))
		json.NewEncoder(w).Encode(Item{ID: testItemID, Type: "Feature Service", URL: p.server.URL + servicePath})
	})
	mux.HandleFunc(servicePath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app-token", r.URL.Query().Get("token"))
		w.Write([]byte(p.serviceBody))
	})
	mux.HandleFunc(servicePath+"/0/query", func(w http.ResponseWriter, r *http.Request) {
		p.queryCalls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "app-token", r.URL.Query().Get("token"))
		assert.Equal(t, "*", r.URL.Query().Get("outFields"))
		p.lastWhere = r.URL.Query().Get("where")
		w.Write([]byte(p.queryBody))
	})
	mux.HandleFunc(servicePath+"/0/applyEdits", func(w http.ResponseWriter, r *http.Request) {
		p.editCalls++
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "app-token", r.PostForm.Get("token"))
		p.lastUpdates = nil
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("updates")), &p.lastUpdates))
		w.Write([]byte(p.editsBody))
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakePortal) options() Options {
	return Options{
		PortalURL:    p.server.URL,
		ItemID:       testItemID,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
}

func TestConnectLayer(t *testing.T) {
	portal := newFakePortal(t)

	layer, err := ConnectLayer(context.Background(), portal.options())

	require.NoError(t, err)
	assert.Equal(t, portal.server.URL+servicePath+"/0", layer.URL)
	assert.Equal(t, "Dumpsters", layer.Name)
}

func TestConnectLayerFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *fakePortal) Options
	}{
		{
			name: "invalid client credentials",
			setup: func(p *fakePortal) Options {
				p.tokenBody = `{"error":{"code":400,"error":"invalid_client","message":"Invalid client_id","details":[]}}`
				return p.options()
			},
		},
		{
			name: "missing item",
			setup: func(p *fakePortal) Options {
				opts := p.options()
				opts.ItemID = "doesnotexist"
				return opts
			},
		},
		{
			name: "service without layers",
			setup: func(p *fakePortal) Options {
				p.serviceBody = `{"layers":[],"tables":[{"id":1}]}`
				return p.options()
			},
		},
		{
			name: "portal down",
			setup: func(p *fakePortal) Options {
				p.server.Close()
				return p.options()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portal := newFakePortal(t)
			opts := tt.setup(portal)

			layer, err := ConnectLayer(context.Background(), opts)

			require.Error(t, err)
			assert.Nil(t, layer)
			assert.Equal(t, models.ErrorCodeConnectFailure, models.CodeOf(err))
		})
	}
}

func TestLayerQuery(t *testing.T) {
	portal := newFakePortal(t)
	portal.queryBody = `{"objectIdFieldName":"OBJECTID","features":[
		{"attributes":{"OBJECTID":7,"Dumpster_ID":"D-1","Fill_Level":10},"geometry":{"x":-117.1,"y":32.7}}
	]}`
	layer, err := ConnectLayer(context.Background(), portal.options())
	require.NoError(t, err)

	features, err := layer.Query(context.Background(), EqualsClause(models.FieldDumpsterID, "D-1"))

	require.NoError(t, err)
	assert.Equal(t, 1, portal.queryCalls)
	assert.Equal(t, "Dumpster_ID = 'D-1'", portal.lastWhere)
	require.Len(t, features, 1)
	assert.Equal(t, "D-1", features[0].Attributes["Dumpster_ID"])
	assert.JSONEq(t, `{"x":-117.1,"y":32.7}`, string(features[0].Geometry))
}

func TestLayerQueryErrorEnvelope(t *testing.T) {
	portal := newFakePortal(t)
	portal.queryBody = `{"error":{"code":400,"message":"Unable to complete operation.","details":["Invalid where clause"]}}`
	layer, err := ConnectLayer(context.Background(), portal.options())
	require.NoError(t, err)

	_, err = layer.Query(context.Background(), "bogus")

	var restErr *RESTError
	require.ErrorAs(t, err, &restErr)
	assert.Equal(t, 400, restErr.Code)
	assert.Contains(t, err.Error(), "Invalid where clause")
}

func TestLayerApplyEdits(t *testing.T) {
	portal := newFakePortal(t)
	layer, err := ConnectLayer(context.Background(), portal.options())
	require.NoError(t, err)

	feature := models.Feature{Attributes: map[string]any{"OBJECTID": 7, "Fill_Level": 55.0}}
	result, err := layer.ApplyEdits(context.Background(), []models.Feature{feature})

	require.NoError(t, err)
	assert.Equal(t, 1, portal.editCalls)
	require.Len(t, portal.lastUpdates, 1)
	assert.Equal(t, 55.0, portal.lastUpdates[0].Attributes["Fill_Level"])
	require.Len(t, result.UpdateResults, 1)
	assert.True(t, result.UpdateResults[0].Success)
	assert.Equal(t, int64(7), result.UpdateResults[0].ObjectID)
}

func TestLayerApplyEditsRejected(t *testing.T) {
	portal := newFakePortal(t)
	portal.editsBody = `{"updateResults":[{"objectId":7,"success":false,"error":{"code":1000,"description":"field Fill_Level is not editable"}}]}`
	layer, err := ConnectLayer(context.Background(), portal.options())
	require.NoError(t, err)

	result, err := layer.ApplyEdits(context.Background(), []models.Feature{{Attributes: map[string]any{"OBJECTID": 7}}})

	require.NoError(t, err)
	require.Len(t, result.UpdateResults, 1)
	assert.False(t, result.UpdateResults[0].Success)
	assert.Equal(t, 1000, result.UpdateResults[0].Error.Code)
}

func TestEqualsClause(t *testing.T) {
	assert.Equal(t, "Dumpster_ID = 'D-1'", EqualsClause("Dumpster_ID", "D-1"))
	assert.Equal(t, "Dumpster_ID = 'D-1'' OR ''1''=''1'", EqualsClause("Dumpster_ID", "D-1' OR '1'='1"))
}
