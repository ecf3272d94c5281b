package cloud

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfiguredEndpointShortCircuits(t *testing.T) {
	for _, endpoint := range []string{"", "https://script.google.com/macros/s/IHRE_DEPLOYMENT_ID/exec"} {
		c := NewAppsScriptClient(endpoint, nil)
		assert.False(t, c.Configured())

		resp := c.GetAll(context.Background())
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, msgNotConfigured, resp.Message)
		assert.False(t, c.CheckConnection(context.Background()))
	}
}

func TestGetAllDecodesNotesAndDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "getAll", r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(`{"status":"success","notes":{"Tag 3":{"text":"hi","user":"Ana"}},"document":["09.04","Zócalo"]}`))
	}))
	defer srv.Close()

	c := NewAppsScriptClient(srv.URL+"/exec", srv.Client())
	resp := c.GetAll(context.Background())
	require.True(t, resp.Success())
	assert.Equal(t, []string{"09.04", "Zócalo"}, resp.Document)
	assert.Contains(t, resp.Notes, "Tag 3")
}

func TestNonJSONResponseDegrades(t *testing.T) {
	body := "<html>" + strings.Repeat("x", 500) + "</html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewAppsScriptClient(srv.URL, srv.Client())
	resp := c.GetNotes(context.Background())
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, http.StatusForbidden, resp.HTTPStatus)
	assert.Len(t, resp.Preview, 200)
	assert.True(t, strings.HasPrefix(resp.Preview, "<html>"))
	assert.False(t, c.CheckConnection(context.Background()))
}

func TestPostsAreFormEncoded(t *testing.T) {
	var got []map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		fields := map[string]string{}
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		got = append(got, fields)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c := NewAppsScriptClient(srv.URL, srv.Client())
	ctx := context.Background()

	assert.True(t, c.SaveNote(ctx, "3", `{"freeText":"x"}`, "Ana").Success())
	assert.True(t, c.SaveDocument(ctx, []string{"a", "b"}, "Ana").Success())
	assert.True(t, c.DeleteNote(ctx, "3").Success())

	require.Len(t, got, 3)
	assert.Equal(t, map[string]string{"action": "saveNote", "day": "3", "note": `{"freeText":"x"}`, "user": "Ana"}, got[0])
	assert.Equal(t, `["a","b"]`, got[1]["paragraphs"])
	assert.Equal(t, map[string]string{"action": "deleteNote", "day": "3"}, got[2])
}

func TestTransportErrorBecomesErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewAppsScriptClient(srv.URL, nil)
	resp := c.GetDocument(context.Background())
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Message)
	assert.False(t, c.CheckConnection(context.Background()))
}

func TestCheckConnectionRequiresSuccess(t *testing.T) {
	status := "success"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"` + status + `"}`))
	}))
	defer srv.Close()

	c := NewAppsScriptClient(srv.URL, srv.Client())
	assert.True(t, c.CheckConnection(context.Background()))

	status = "error"
	assert.False(t, c.CheckConnection(context.Background()))
}
