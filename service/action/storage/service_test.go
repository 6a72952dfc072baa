package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestService_WriteReadList(t *testing.T) {
	ctx := context.Background()
	srv := New(afs.New())
	baseURL := "mem://localhost/flowrun/storage"

	testCases := []struct {
		description string
		url         string
		data        interface{}
		expect      string
	}{
		{description: "text", url: baseURL + "/a.txt", data: "hello", expect: "hello"},
		{description: "json", url: baseURL + "/b.json", data: map[string]interface{}{"k": 1}, expect: `{"k":1}`},
		{description: "bytes", url: baseURL + "/c.csv", data: []byte("x,y"), expect: "x,y"},
	}

	for _, testCase := range testCases {
		written := &WriteOutput{}
		require.NoError(t, srv.Write(ctx, &WriteInput{URL: testCase.url, Data: testCase.data}, written), testCase.description)
		assert.Equal(t, testCase.url, written.Value(), testCase.description)
		assert.Equal(t, ContentType(testCase.url), written.Asset.ContentType, testCase.description)

		read := &ReadOutput{}
		require.NoError(t, srv.Read(ctx, &ReadInput{URL: testCase.url}, read), testCase.description)
		assert.Equal(t, testCase.expect, read.Value(), testCase.description)
	}

	listed := &ListOutput{}
	require.NoError(t, srv.List(ctx, &ListInput{URL: baseURL}, listed))
	assert.Len(t, listed.Value(), 3)

	assert.Error(t, srv.Read(ctx, &ReadInput{URL: baseURL + "/missing.txt"}, &ReadOutput{}))
	assert.Error(t, srv.Read(ctx, &ReadInput{}, &ReadOutput{}))
	assert.Error(t, srv.Write(ctx, &WriteInput{}, &WriteOutput{}))
}

func TestService_Method(t *testing.T) {
	srv := New(nil)
	for _, method := range srv.Methods() {
		executable, err := srv.Method(method.Name)
		require.NoError(t, err, method.Name)
		assert.Error(t, executable(context.Background(), "bad", nil), method.Name)
	}
	_, err := srv.Method("delete")
	assert.Error(t, err)
}
