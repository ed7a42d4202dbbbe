package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestHTTPClient_ListUsers_Paged(t *testing.T) {
	var requestedTokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users", r.URL.Path)
		token := r.URL.Query().Get("page_token")
		requestedTokens = append(requestedTokens, token)

		switch token {
		case "":
			json.NewEncoder(w).Encode(listUsersResponse{
				Users:         []entities.User{{UID: "user-1"}, {UID: "user-2"}},
				NextPageToken: "page-2",
			})
		case "page-2":
			json.NewEncoder(w).Encode(listUsersResponse{
				Users: []entities.User{{UID: "user-3"}},
			})
		default:
			t.Fatalf("unexpected page token %q", token)
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	users, err := client.ListUsers(context.Background())

	assert.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, "user-1", users[0].UID)
	assert.Equal(t, "user-3", users[2].UID)
	assert.Equal(t, []string{"", "page-2"}, requestedTokens)
}

func TestHTTPClient_ListUsers_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	users, err := client.ListUsers(context.Background())

	assert.Error(t, err)
	assert.Nil(t, users)
}

func TestHTTPClient_ListUsers_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listUsersResponse{})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	users, err := client.ListUsers(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, users)
}
