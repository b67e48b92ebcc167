package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Storage returns the file storage API.
func (c *Client) Storage() *StorageClient {
	return &StorageClient{client: c}
}

type StorageClient struct {
	client *Client
}

// From selects a bucket.
func (s *StorageClient) From(bucket string) *Bucket {
	return &Bucket{client: s.client, name: bucket}
}

type Bucket struct {
	client *Client
	name   string
}

type uploadResponse struct {
	Key string `json:"Key"`
}

func (b *Bucket) objectPath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return b.name + "/" + strings.Join(segments, "/")
}

// Upload stores data at path and returns the object key. With upsert an
// existing object is replaced.
func (b *Bucket) Upload(ctx context.Context, path string, data []byte, contentType string, upsert bool) (string, error) {
	r := b.client.newRequest(http.MethodPost, "/storage/v1/object/"+b.objectPath(path))
	r.body = data
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	r.header.Set("Content-Type", contentType)
	if upsert {
		r.header.Set("x-upsert", "true")
	}
	resp, err := b.client.do(ctx, r)
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", b.name, path, err)
	}
	var out uploadResponse
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	return out.Key, nil
}

func (b *Bucket) Download(ctx context.Context, path string) ([]byte, error) {
	r := b.client.newRequest(http.MethodGet, "/storage/v1/object/"+b.objectPath(path))
	r.header.Set("Accept", "*/*")
	r.retryable = true
	resp, err := b.client.do(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", b.name, path, err)
	}
	return resp.body, nil
}

func (b *Bucket) Remove(ctx context.Context, path string) error {
	r := b.client.newRequest(http.MethodDelete, "/storage/v1/object/"+b.objectPath(path))
	r.retryable = true
	if _, err := b.client.do(ctx, r); err != nil {
		return fmt.Errorf("remove %s/%s: %w", b.name, path, err)
	}
	return nil
}

// PublicURL returns the unauthenticated URL of an object.
func (b *Bucket) PublicURL(path string) string {
	return b.client.baseURL + "/storage/v1/object/public/" + b.objectPath(path)
}
