package di

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pokedex/pokemon"
)

type apiClient struct {
	t      *testing.T
	server *httptest.Server
}

func newAPIClient(t *testing.T) (*apiClient, *Container) {
	t.Helper()

	container := newTestContainer(t)
	server := httptest.NewServer(container.Handler())
	t.Cleanup(server.Close)

	return &apiClient{t: t, server: server}, container
}

func (c *apiClient) do(method, path string, body any) (int, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func (c *apiClient) list() []pokemon.Pokemon {
	c.t.Helper()

	status, body := c.do(http.MethodGet, "/api/v1/pokemon", nil)
	require.Equal(c.t, http.StatusOK, status)

	var records []pokemon.Pokemon
	require.NoError(c.t, json.Unmarshal(body, &records))
	return records
}

func TestEndToEndPokemonLifecycle(t *testing.T) {
	ctx := context.Background()
	client, container := newAPIClient(t)

	// Step 1: empty table lists as an empty array
	assert.Empty(t, client.list())

	// Step 2: create
	status, body := client.do(http.MethodPost, "/api/v1/pokemon/7", map[string]any{
		"name":       "Bulbasaur",
		"evolutions": []string{"Ivysaur", "Venusaur"},
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	// Step 3: read back through the API and the store
	status, body = client.do(http.MethodGet, "/api/v1/pokemon/7", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":7,"name":"Bulbasaur","evolutions":["Ivysaur","Venusaur"]}`, string(body))

	stored, err := container.Gateway().FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"Ivysaur", "Venusaur"}, stored[0].Evolutions)

	// Step 4: duplicate create is rejected
	status, _ = client.do(http.MethodPost, "/api/v1/pokemon/7", map[string]any{"name": "Impostor"})
	assert.Equal(t, http.StatusConflict, status)

	// Step 5: update
	status, body = client.do(http.MethodPut, "/api/v1/pokemon/7", map[string]any{
		"name":       "Ivysaur",
		"evolutions": []string{"Venusaur"},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	stored, err = container.Gateway().FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ivysaur", stored[0].Name)

	// Step 6: delete, then the record is gone everywhere
	status, body = client.do(http.MethodDelete, "/api/v1/pokemon/7", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Pokemon deleted successfully!"}`, string(body))

	status, _ = client.do(http.MethodGet, "/api/v1/pokemon/7", nil)
	assert.Equal(t, http.StatusNotFound, status)

	exists, err := container.Gateway().Exists(ctx, 7)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEndToEndNotFoundConsistency(t *testing.T) {
	client, _ := newAPIClient(t)

	for _, tc := range []struct {
		method string
		body   any
	}{
		{method: http.MethodGet},
		{method: http.MethodPut, body: map[string]any{"name": "MissingNo"}},
		{method: http.MethodPatch, body: map[string]any{"name": "MissingNo"}},
		{method: http.MethodDelete},
		{method: http.MethodDelete},
	} {
		status, _ := client.do(tc.method, "/api/v1/pokemon/999", tc.body)
		assert.Equal(t, http.StatusNotFound, status, tc.method)
	}

	assert.Empty(t, client.list(), "not found requests change nothing")
}

func TestEndToEndConcurrentCreates(t *testing.T) {
	client, _ := newAPIClient(t)

	const n = 25
	var wg sync.WaitGroup
	statuses := make(chan int, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			status, _ := client.do(http.MethodPost, fmt.Sprintf("/api/v1/pokemon/%d", id), map[string]any{
				"name": fmt.Sprintf("pokemon-%d", id),
			})
			statuses <- status
		}(i)
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Equal(t, http.StatusCreated, status)
	}

	records := client.list()
	require.Len(t, records, n)
	for i, p := range records {
		assert.Equal(t, int64(i+1), p.ID, "listed once each, ordered by id")
	}
}
