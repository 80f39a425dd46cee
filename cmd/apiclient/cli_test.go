package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/apiclient/httpclient"
)

func TestEndpointsAreValid(t *testing.T) {
	for name, d := range endpoints {
		assert.NoError(t, d.Validate(), name)
		assert.True(t, d.RequiresAuth, name)
		assert.Equal(t, name, d.Name)
	}
}

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"id=42", "tag=a", "tag=b", "tag=c", "q=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":  "42",
		"tag": []string{"a", "b", "c"},
		"q":   "x=y",
	}, got)

	got, err = parsePairs(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parsePairs([]string{"novalue"})
	assert.Error(t, err)
	_, err = parsePairs([]string{"=v"})
	assert.Error(t, err)
}

func TestCallParams(t *testing.T) {
	cmd := CallCmd{Name: "createPost", Data: `{"userId":1,"title":"hi"}`}
	p, err := cmd.params(endpoints[cmd.Name])
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`{"userId":1,"title":"hi"}`), p.Body)

	cmd = CallCmd{Name: "createPost", Data: `{broken`}
	_, err = cmd.params(endpoints[cmd.Name])
	assert.Error(t, err)

	cmd = CallCmd{Name: "uploadAvatar", Path: []string{"id=42"}}
	_, err = cmd.params(endpoints[cmd.Name])
	assert.Error(t, err, "uploads need a file")

	file := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0o600))
	cmd = CallCmd{Name: "uploadAvatar", Path: []string{"id=42"}, File: file, Data: `{"caption":"me"}`}
	p, err = cmd.params(endpoints[cmd.Name])
	require.NoError(t, err)
	body, ok := p.Body.(*httpclient.MultipartBody)
	require.True(t, ok)
	assert.Equal(t, "me.png", body.Files[0].FileName)
	assert.Equal(t, map[string]string{"caption": "me"}, body.Fields)
	assert.Equal(t, map[string]any{"id": "42"}, p.Path)
}

func TestEndpointsCmd(t *testing.T) {
	var buf bytes.Buffer
	g := &Globals{out: &buf}
	require.NoError(t, (&EndpointsCmd{}).Run(g))
	assert.Contains(t, buf.String(), "uploadAvatar")
	assert.Contains(t, buf.String(), "/users/:id/avatar (auth)")
}

func TestPrintBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printBody(&buf, []byte(`{"id":1}`)))
	assert.Equal(t, "{\n  \"id\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, printBody(&buf, []byte("plain")))
	assert.Equal(t, "plain\n", buf.String())
}
