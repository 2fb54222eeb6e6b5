package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"plexus/pkg/loader"
)

// S3GraphFileLoader loads file contents from an S3 bucket. FilePath is
// interpreted as the object key. Works against S3-compatible stores
// such as MinIO via the Endpoint override.
type S3GraphFileLoader struct {
	bucket string
	client *s3.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3GraphFileLoaderWithClient creates an S3GraphFileLoader around an
// existing s3.Client, for reuse of a preconfigured AWS client.
func NewS3GraphFileLoaderWithClient(bucket string, client *s3.Client) *S3GraphFileLoader {
	return &S3GraphFileLoader{
		bucket: bucket,
		client: client,
		cache:  make(map[string][]byte),
	}
}

// NewS3GraphFileLoaderParams configures a new S3GraphFileLoader.
type NewS3GraphFileLoaderParams struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3GraphFileLoader creates an S3GraphFileLoader with static
// credentials and the given endpoint and region.
func NewS3GraphFileLoader(ctx context.Context, params NewS3GraphFileLoaderParams) (*S3GraphFileLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	return &S3GraphFileLoader{
		bucket: params.Bucket,
		client: s3.NewFromConfig(cfg),
		cache:  make(map[string][]byte),
	}, nil
}

// GetFileText retrieves the object named by the file's FilePath from
// the configured bucket. Results are cached.
func (l *S3GraphFileLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	cacheKey := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[cacheKey]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(cacheKey, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[cacheKey]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(file.FilePath),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}

		byts := buf.Bytes()

		l.cacheMu.Lock()
		l.cache[cacheKey] = byts
		l.cacheMu.Unlock()

		return byts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// GetBase64 retrieves the object and returns it encoded as base64 with
// the MIME type derived from the key's extension.
func (l *S3GraphFileLoader) GetBase64(ctx context.Context, file loader.GraphFile) (loader.GraphBase64, error) {
	b, err := l.GetFileText(ctx, file)
	if err != nil {
		return loader.GraphBase64{}, err
	}

	return loader.GraphBase64{
		Base64:   base64.StdEncoding.EncodeToString(b),
		FileType: loader.Base64Prefix(file.FilePath),
	}, nil
}
