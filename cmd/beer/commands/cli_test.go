package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/beer-client/internal/constants"
)

// cliServer is a minimal Beer API that accepts a static bearer token.
type cliServer struct {
	*httptest.Server

	mu    sync.Mutex
	beers map[string]map[string]interface{}
}

func newCLIServer(t *testing.T) *cliServer {
	t.Helper()

	srv := &cliServer{beers: make(map[string]map[string]interface{})}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+constants.BeersPath, func(w http.ResponseWriter, r *http.Request) {
		srv.mu.Lock()
		content := make([]map[string]interface{}, 0, len(srv.beers))
		for _, item := range srv.beers {
			content = append(content, item)
		}
		srv.mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":       content,
			"number":        0,
			"size":          len(content),
			"totalElements": len(content),
			"totalPages":    1,
			"first":         true,
			"last":          true,
		})
	})
	mux.HandleFunc("POST "+constants.BeersPath, func(w http.ResponseWriter, r *http.Request) {
		var item map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&item)

		id := uuid.NewString()
		item["id"] = id
		item["version"] = 1

		srv.mu.Lock()
		srv.beers[id] = item
		srv.mu.Unlock()

		w.Header().Set("Location", constants.BeersPath+"/"+id)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET "+constants.BeersPath+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		srv.mu.Lock()
		item, ok := srv.beers[r.PathValue("id")]
		srv.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		_ = json.NewEncoder(w).Encode(item)
	})
	mux.HandleFunc("DELETE "+constants.BeersPath+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		srv.mu.Lock()
		_, ok := srv.beers[r.PathValue("id")]
		delete(srv.beers, r.PathValue("id"))
		srv.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	})

	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cli-token" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// TestCommandsAgainstServer drives the commands end to end. It mutates the
// global viper state and therefore does not run in parallel.
func TestCommandsAgainstServer(t *testing.T) {
	srv := newCLIServer(t)

	viper.Set("root_url", srv.URL)
	viper.Set("access_token", "cli-token")
	viper.Set("output", constants.FormatJSON)
	t.Cleanup(viper.Reset)

	out, err := runCommand(t, NewCreateCommand(), "--name", "Mango Bobs", "--style", "ipa", "--upc", "0631234200036", "--price", "12.95")
	require.NoError(t, err)

	var created map[string]interface{}

	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "Mango Bobs", created["beerName"])
	assert.Equal(t, "IPA", created["beerStyle"])

	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	out, err = runCommand(t, NewGetCommand(), id)
	require.NoError(t, err)
	assert.Contains(t, out, `"beerName": "Mango Bobs"`)

	out, err = runCommand(t, NewListCommand())
	require.NoError(t, err)
	assert.Contains(t, out, `"totalElements": 1`)

	out, err = runCommand(t, NewDeleteCommand(), id)
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)

	_, err = runCommand(t, NewGetCommand(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = runCommand(t, NewUpdateCommand(), uuid.NewString(), "--name", "Nope")
	require.Error(t, err)

	viper.Set("access_token", "wrong-token")

	_, err = runCommand(t, NewListCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
