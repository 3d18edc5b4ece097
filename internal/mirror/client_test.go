package mirror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientKeepsSessionCookie(t *testing.T) {
	var seen []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("sessionId"); err == nil {
			seen = append(seen, ck.Value)
		} else {
			seen = append(seen, "")
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionId", Value: "sess_1", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"items":[],"total":0,"cartCount":0}`))
	}))
	defer ts.Close()

	hc := &http.Client{}
	c, err := NewClient(ts.URL+"/", hc)
	require.NoError(t, err)
	assert.Equal(t, ts.URL, c.BaseURL)
	assert.Nil(t, hc.Jar)

	_, err = c.Cart(context.Background())
	require.NoError(t, err)
	_, err = c.Cart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "sess_1"}, seen)
}

func TestClientStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Order not found"}`))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL, nil)
	require.NoError(t, err)
	_, err = c.Cart(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}
