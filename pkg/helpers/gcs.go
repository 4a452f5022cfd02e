package helpers

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com/"

// NewGCSClient builds a storage client from a service-account file, or
// from Application Default Credentials when credsPath is empty.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	return storage.NewClient(ctx, opts...)
}

// UploadObject streams r to bucket/key in a single request and returns the
// object's public URL. Callers cap the size before calling.
func UploadObject(ctx context.Context, client *storage.Client, bucket, key, contentType string, r io.Reader) (string, error) {
	w := client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, key), nil
}

// DeleteObject removes bucket/key; a missing object is not an error.
func DeleteObject(ctx context.Context, client *storage.Client, bucket, key string) error {
	err := client.Bucket(bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// ObjectPath returns "<prefix>/<owner>/<uuid><ext>", keeping the lowercased
// extension of filename.
func ObjectPath(prefix, owner, filename string) string {
	return path.Join(prefix, owner, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

func PublicURL(bucket, key string) string {
	return gcsPublicHost + bucket + "/" + key
}

// ObjectKey is the inverse of PublicURL. It reports false for URLs that
// do not point into bucket.
func ObjectKey(bucket, url string) (string, bool) {
	key, ok := strings.CutPrefix(url, gcsPublicHost+bucket+"/")
	return key, ok && key != ""
}
