package objectstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
)

// fakeClient is an in-memory Client for exercising the package helpers
type fakeClient struct {
	objects    map[string][]byte
	fetchFails map[string]error
	statFails  map[string]error
	fetched    []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		objects:    map[string][]byte{},
		fetchFails: map[string]error{},
		statFails:  map[string]error{},
	}
}

func (c *fakeClient) add(obj Object, content string) {
	c.objects[obj.String()] = []byte(content)
}

func (c *fakeClient) Exists(ctx context.Context, obj Object) (bool, error) {
	if err, found := c.statFails[obj.String()]; found {
		return false, err
	}
	_, found := c.objects[obj.String()]
	return found, nil
}

func (c *fakeClient) Fetch(ctx context.Context, obj Object, destPath string) error {
	if err, found := c.fetchFails[obj.String()]; found {
		return err
	}
	content, found := c.objects[obj.String()]
	if !found {
		return errors.New("object vanished")
	}
	c.fetched = append(c.fetched, obj.String())
	return os.WriteFile(destPath, content, 0o644)
}

func (c *fakeClient) Put(ctx context.Context, up Upload) error {
	content, err := os.ReadFile(up.Path)
	if err != nil {
		return err
	}
	c.objects[up.Object.String()] = content
	return nil
}

var (
	testObjA = Object{Bucket: "source", Key: "prefix/a.tif"}
	testObjB = Object{Bucket: "source", Key: "prefix/b.tif"}
)

func TestObjectString(t *testing.T) {
	assert.Equal(t, "s3://source/prefix/a.tif", testObjA.String())
}

func TestFetchAll(t *testing.T) {
	client := newFakeClient()
	client.add(testObjA, "content-a")
	client.add(testObjB, "content-b")

	destDir := t.TempDir()
	err := FetchAll(context.Background(), client, []Object{testObjA, testObjB}, destDir)
	assert.NoError(t, err)

	contentA, err := os.ReadFile(filepath.Join(destDir, "a.tif"))
	assert.NoError(t, err)
	assert.Equal(t, "content-a", string(contentA))

	contentB, err := os.ReadFile(filepath.Join(destDir, "b.tif"))
	assert.NoError(t, err)
	assert.Equal(t, "content-b", string(contentB))
}

func TestFetchAllMissingObject(t *testing.T) {
	client := newFakeClient()
	client.add(testObjA, "content-a")

	destDir := t.TempDir()
	err := FetchAll(context.Background(), client, []Object{testObjA, testObjB}, destDir)
	assert.Equal(t, model.MissingSourceObject, model.KindOf(err))

	// Existence is verified up front, so nothing was downloaded.
	assert.Empty(t, client.fetched)
	entries, _ := os.ReadDir(destDir)
	assert.Empty(t, entries)
}

func TestFetchAllCleansUpOnFailure(t *testing.T) {
	client := newFakeClient()
	client.add(testObjA, "content-a")
	client.add(testObjB, "content-b")
	client.fetchFails[testObjB.String()] = errors.New("connection reset")

	destDir := t.TempDir()
	err := FetchAll(context.Background(), client, []Object{testObjA, testObjB}, destDir)
	assert.Error(t, err)

	// No partial input set is left behind.
	entries, readErr := os.ReadDir(destDir)
	assert.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestFetchAllStatError(t *testing.T) {
	client := newFakeClient()
	client.add(testObjA, "content-a")
	client.statFails[testObjA.String()] = model.Errorf(model.TransientStoreError, "throttled")

	err := FetchAll(context.Background(), client, []Object{testObjA}, t.TempDir())
	assert.Equal(t, model.TransientStoreError, model.KindOf(err))
}
