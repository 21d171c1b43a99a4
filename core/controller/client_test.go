package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		client, err := NewClient(Config{BaseURI: "https://controller.example:18002", Token: "tok"})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MissingBaseURI", func(t *testing.T) {
		client, err := NewClient(Config{})
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("TrailingSlashTrimmed", func(t *testing.T) {
		client, err := NewClient(Config{BaseURI: "https://controller.example:18002/"})
		require.NoError(t, err)
		assert.Equal(t, "https://controller.example:18002", client.(*httpClient).base)
	})
}

func TestList_SendsTokenAndPaging(t *testing.T) {
	var gotHeader, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-ACCESS-TOKEN")
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "s1", "name": "HQ"}},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURI: srv.URL, Token: "secret", PageSize: 50})
	require.NoError(t, err)

	items, err := client.List(context.Background(), KindSite, map[string]string{"name": "HQ"}, 0, 50)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "s1", items[0].ID())
	assert.Equal(t, "HQ", items[0].Name())
	assert.Equal(t, "secret", gotHeader)
	assert.Contains(t, gotQuery, "pageIndex=0")
	assert.Contains(t, gotQuery, "pageSize=50")
	assert.Contains(t, gotQuery, "name=HQ")
}

func TestListAll_FollowsPagination(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		page := r.URL.Query().Get("pageIndex")
		var items []map[string]any
		if page == "0" {
			// Full page: forces a second request.
			items = []map[string]any{{"id": "a"}, {"id": "b"}}
		} else {
			items = []map[string]any{{"id": "c"}}
		}
		json.NewEncoder(w).Encode(map[string]any{"sites": items})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURI: srv.URL, PageSize: 2})
	require.NoError(t, err)

	all, err := client.ListAll(context.Background(), KindSite, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 2, pages)
}

func TestListAll_NestedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"devices": []map[string]any{{"id": "d1", "name": "SW-01"}},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURI: srv.URL})
	require.NoError(t, err)

	all, err := client.ListAll(context.Background(), KindDevice, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "d1", all[0].ID())
}

func TestCreate_WrapsEnvelopeAndReturnsAssignedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		sites, ok := body["sites"].([]any)
		require.True(t, ok, "create payload must wrap objects under 'sites'")
		require.Len(t, sites, 1)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "new-id", "name": "site1"}},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURI: srv.URL})
	require.NoError(t, err)

	created, err := client.Create(context.Background(), KindSite, Object{"name": "site1", "type": []string{"AP"}})
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID())
}

func TestDelete_SendsIDsBody(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURI: srv.URL})
	require.NoError(t, err)

	err = client.Delete(context.Background(), KindSite, "abc")
	require.NoError(t, err)
	assert.Equal(t, []any{"abc"}, gotBody["ids"])
}

func TestDo_APIErrorWithControllerDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"errcode": "pod.campus.site.duplicate",
			"errmsg":  "site name already exists",
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURI: srv.URL})
	require.NoError(t, err)

	_, err = client.Create(context.Background(), KindSite, Object{"name": "dup"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "pod.campus.site.duplicate", apiErr.ErrCode)
	assert.Equal(t, "site name already exists", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "HTTP 400")
	assert.Contains(t, apiErr.Error(), "site name already exists")
}

func TestParseKind(t *testing.T) {
	for _, input := range []string{"site", "sites"} {
		kind, err := ParseKind(input)
		assert.NoError(t, err)
		assert.Equal(t, KindSite, kind)
	}
	for _, input := range []string{"device", "devices"} {
		kind, err := ParseKind(input)
		assert.NoError(t, err)
		assert.Equal(t, KindDevice, kind)
	}

	_, err := ParseKind("vlan")
	assert.Error(t, err)
}

func TestExtractErrDetails(t *testing.T) {
	t.Run("NestedErrorObject", func(t *testing.T) {
		code, msg := extractErrDetails(map[string]any{
			"errcode": 1001,
			"error":   map[string]any{"message": "bad request"},
		})
		assert.Equal(t, "1001", code)
		assert.Equal(t, "bad request", msg)
	})

	t.Run("ErrorsList", func(t *testing.T) {
		_, msg := extractErrDetails(map[string]any{
			"errors": []any{map[string]any{"description": "invalid site"}},
		})
		assert.Equal(t, "invalid site", msg)
	})
}
