package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

const (
	testAccessToken = "test-access-token"
	testClientID    = "messaging-client"
	testSecret      = "secret"
)

// fakeBeerAPI is an in-memory Beer API plus authorization server.
type fakeBeerAPI struct {
	*httptest.Server

	mu       sync.Mutex
	beers    map[uuid.UUID]beer.Beer
	requests []string

	tokenStatus    int
	tokenExchanges atomic.Int32
	location       func(id uuid.UUID) string
}

func newFakeBeerAPI(t *testing.T) *fakeBeerAPI {
	t.Helper()

	api := &fakeBeerAPI{
		beers:       make(map[uuid.UUID]beer.Beer),
		tokenStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token", api.handleToken)
	mux.HandleFunc("GET "+constants.BeersPath, api.authenticated(api.handleList))
	mux.HandleFunc("POST "+constants.BeersPath, api.authenticated(api.handleCreate))
	mux.HandleFunc("GET "+constants.BeersPath+"/{id}", api.authenticated(api.handleGet))
	mux.HandleFunc("PUT "+constants.BeersPath+"/{id}", api.authenticated(api.handleUpdate))
	mux.HandleFunc("DELETE "+constants.BeersPath+"/{id}", api.authenticated(api.handleDelete))

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)

	return api
}

func (api *fakeBeerAPI) config() *beer.Config {
	return &beer.Config{
		RootURL:      api.URL,
		TokenURL:     api.URL + "/oauth2/token",
		ClientID:     testClientID,
		ClientSecret: testSecret,
	}
}

func (api *fakeBeerAPI) newClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(context.Background(), api.config())
	require.NoError(t, err)

	return client
}

func (api *fakeBeerAPI) resourceRequests() []string {
	api.mu.Lock()
	defer api.mu.Unlock()

	return append([]string(nil), api.requests...)
}

func (api *fakeBeerAPI) seed(count int) []beer.Beer {
	api.mu.Lock()
	defer api.mu.Unlock()

	seeded := make([]beer.Beer, 0, count)

	for i := range count {
		style := beer.Styles()[i%len(beer.Styles())]
		item := beer.Beer{
			ID:             uuid.New(),
			Version:        1,
			Name:           "Beer " + strconv.Itoa(i),
			Style:          style,
			UPC:            strconv.Itoa(100000 + i),
			Price:          decimal.NewFromFloat(9.99),
			QuantityOnHand: i,
			CreatedDate:    beer.Timestamp{Time: time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC)},
		}
		api.beers[item.ID] = item
		seeded = append(seeded, item)
	}

	return seeded
}

func (api *fakeBeerAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	api.tokenExchanges.Add(1)

	if api.tokenStatus != http.StatusOK {
		w.WriteHeader(api.tokenStatus)

		return
	}

	_ = r.ParseForm()
	if r.PostForm.Get("grant_type") != "client_credentials" ||
		r.PostForm.Get("client_id") != testClientID ||
		r.PostForm.Get("client_secret") != testSecret {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": testAccessToken,
		"token_type":   "Bearer",
		"expires_in":   299,
	})
}

func (api *fakeBeerAPI) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.requests = append(api.requests, r.Method+" "+r.URL.RequestURI())
		api.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+testAccessToken {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		next(w, r)
	}
}

func (api *fakeBeerAPI) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	pageNumber := 1
	if value := query.Get("pageNumber"); value != "" {
		pageNumber, _ = strconv.Atoi(value)
	}

	pageSize := constants.DefaultPageSize
	if value := query.Get("pageSize"); value != "" {
		pageSize, _ = strconv.Atoi(value)
	}

	api.mu.Lock()

	var matched []beer.Beer

	for _, item := range api.beers {
		if name := query.Get("beerName"); name != "" && !strings.Contains(item.Name, name) {
			continue
		}

		if style := query.Get("beerStyle"); style != "" && string(item.Style) != style {
			continue
		}

		if query.Get("showInventory") != "true" {
			item.QuantityOnHand = 0
		}

		matched = append(matched, item)
	}
	api.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	start := min((pageNumber-1)*pageSize, len(matched))
	end := min(start+pageSize, len(matched))
	totalPages := (len(matched) + pageSize - 1) / pageSize

	page := beer.Page[beer.Beer]{
		Content:          matched[start:end],
		Number:           pageNumber - 1,
		Size:             pageSize,
		TotalElements:    int64(len(matched)),
		TotalPages:       totalPages,
		NumberOfElements: end - start,
		First:            pageNumber == 1,
		Last:             pageNumber >= totalPages,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

func (api *fakeBeerAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage

	err := json.NewDecoder(r.Body).Decode(&raw)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	for _, serverField := range []string{"id", "version", "createdDate", "updatedDate"} {
		if _, present := raw[serverField]; present {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(serverField + " must not be sent"))

			return
		}
	}

	data, _ := json.Marshal(raw)

	var created beer.Beer

	_ = json.Unmarshal(data, &created)
	created.ID = uuid.New()
	created.Version = 1
	created.CreatedDate = beer.Timestamp{Time: time.Now().UTC().Truncate(time.Microsecond)}
	created.UpdatedDate = created.CreatedDate

	api.mu.Lock()
	api.beers[created.ID] = created
	api.mu.Unlock()

	location := constants.BeersPath + "/" + created.ID.String()
	if api.location != nil {
		location = api.location(created.ID)
	}

	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusCreated)
}

func (api *fakeBeerAPI) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return uuid.Nil, false
	}

	api.mu.Lock()
	_, ok := api.beers[id]
	api.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return uuid.Nil, false
	}

	return id, true
}

func (api *fakeBeerAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := api.lookup(w, r)
	if !ok {
		return
	}

	api.mu.Lock()
	item := api.beers[id]
	api.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(item)
}

func (api *fakeBeerAPI) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.lookup(w, r)
	if !ok {
		return
	}

	var update beer.Beer

	err := json.NewDecoder(r.Body).Decode(&update)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	api.mu.Lock()
	existing := api.beers[id]
	existing.Name = update.Name
	existing.Style = update.Style
	existing.UPC = update.UPC
	existing.Price = update.Price
	existing.QuantityOnHand = update.QuantityOnHand
	existing.Version++
	existing.UpdatedDate = beer.Timestamp{Time: time.Now().UTC()}
	api.beers[id] = existing
	api.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (api *fakeBeerAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.lookup(w, r)
	if !ok {
		return
	}

	api.mu.Lock()
	delete(api.beers, id)
	api.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
