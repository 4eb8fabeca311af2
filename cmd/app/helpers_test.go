package main

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadQueryInt(t *testing.T) {
	app := newBareApplication()

	testCases := []struct {
		name    string
		url     string
		want    int
		wantErr bool
	}{
		{name: "present", url: "/?page=3", want: 3},
		{name: "absent uses default", url: "/", want: 1},
		{name: "not a number", url: "/?page=abc", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			got, err := app.readQueryInt(r, "page", 1)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadQueryBool(t *testing.T) {
	app := newBareApplication()

	t.Run("absent returns nil", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		got, err := app.readQueryBool(r, "published")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("explicit true", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?published=true", nil)
		got, err := app.readQueryBool(r, "published")
		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.True(t, *got)
	})

	t.Run("explicit false", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?published=false", nil)
		got, err := app.readQueryBool(r, "published")
		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.False(t, *got)
	})

	t.Run("invalid value", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?published=maybe", nil)
		_, err := app.readQueryBool(r, "published")
		assert.Error(t, err)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	app := newBareApplication()

	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{name: "valid bearer token", header: "Bearer abc123", want: "abc123"},
		{name: "empty header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic abc123", want: ""},
		{name: "missing token", header: "Bearer", want: ""},
		{name: "too many parts", header: "Bearer abc 123", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, app.extractTokenFromHeader(tc.header))
		})
	}
}

func TestParseJSON(t *testing.T) {
	app := newBareApplication()

	type input struct {
		Name string `json:"name"`
	}

	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name": "test"}`},
		{name: "empty body", body: "", wantErr: "request body must not be empty"},
		{name: "malformed json", body: `{"name": `, wantErr: "request body contains badly-formed JSON"},
		{name: "wrong type", body: `{"name": 1}`, wantErr: `request body contains an invalid value for the "name" field`},
		{name: "unknown field", body: `{"other": "x"}`, wantErr: `request body contains unknown field "other"`},
		{name: "multiple values", body: `{"name": "a"}{"name": "b"}`, wantErr: "request body must only contain a single JSON value"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			var dst input
			err := app.parseJSON(w, r, &dst)

			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.EqualError(t, err, tc.wantErr)
		})
	}
}
