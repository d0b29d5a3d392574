// Remote file staging for S3 and HTTP URLs.
package db

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Config contains S3 authentication configuration
type s3Config struct {
	accessKey string
	secretKey string
	region    string
	endpoint  string // Optional: custom S3-compatible endpoint
}

// s3ConfigFromEnv builds S3 configuration from the environment. Unset
// values fall back to the AWS SDK's default credential chain.
func s3ConfigFromEnv() *s3Config {
	return &s3Config{
		accessKey: os.Getenv("DUCKCLI_S3_ACCESS_KEY"),
		secretKey: os.Getenv("DUCKCLI_S3_SECRET_KEY"),
		region:    os.Getenv("DUCKCLI_S3_REGION"),
		endpoint:  os.Getenv("DUCKCLI_S3_ENDPOINT"),
	}
}

// urlScheme represents the scheme of a URL
type urlScheme string

const (
	schemeFile  urlScheme = "file"
	schemeS3    urlScheme = "s3"
	schemeHTTP  urlScheme = "http"
	schemeHTTPS urlScheme = "https"
	schemeLocal urlScheme = "local" // no scheme, local path
)

// detectScheme detects the URL scheme from a path string
func detectScheme(path string) urlScheme {
	lowerPath := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lowerPath, "s3://"):
		return schemeS3
	case strings.HasPrefix(lowerPath, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lowerPath, "http://"):
		return schemeHTTP
	case strings.HasPrefix(lowerPath, "file://"):
		return schemeFile
	default:
		return schemeLocal
	}
}

// stageReader makes a source path readable by DuckDB. Local paths are
// checked for existence and returned as-is; remote sources are
// downloaded to a temp file. The cleanup func removes any temp file.
func stageReader(path string, cfg *s3Config) (string, func(), error) {
	noop := func() {}

	switch scheme := detectScheme(path); scheme {
	case schemeLocal, schemeFile:
		localPath := path
		if scheme == schemeFile {
			localPath = strings.TrimPrefix(path, "file://")
		}
		if _, err := os.Stat(localPath); err != nil {
			return "", noop, fmt.Errorf("file not found: %s", localPath)
		}
		return localPath, noop, nil

	case schemeHTTP, schemeHTTPS:
		reader, err := openHTTPReader(path)
		if err != nil {
			return "", noop, err
		}
		defer reader.Close()
		return downloadToTemp(reader, path)

	case schemeS3:
		reader, err := openS3Reader(path, cfg)
		if err != nil {
			return "", noop, err
		}
		defer reader.Close()
		return downloadToTemp(reader, path)

	default:
		return "", noop, fmt.Errorf("unsupported URL scheme: %s", path)
	}
}

// stageWriter makes a destination path writable by DuckDB. Local paths
// are returned as-is with a no-op upload; an s3:// destination maps to
// a temp file whose upload func pushes it to S3 and removes it.
func stageWriter(path string, cfg *s3Config) (string, func() error, error) {
	noop := func() error { return nil }

	switch scheme := detectScheme(path); scheme {
	case schemeLocal, schemeFile:
		localPath := path
		if scheme == schemeFile {
			localPath = strings.TrimPrefix(path, "file://")
		}
		return localPath, noop, nil

	case schemeHTTP, schemeHTTPS:
		return "", noop, fmt.Errorf("HTTP/HTTPS does not support writing")

	case schemeS3:
		tmp, err := os.CreateTemp("", "duckcli-export-*"+filepath.Ext(path))
		if err != nil {
			return "", noop, fmt.Errorf("failed to create temp file: %w", err)
		}
		tmp.Close()

		upload := func() error {
			defer os.Remove(tmp.Name())
			return uploadFile(tmp.Name(), path, cfg)
		}
		return tmp.Name(), upload, nil

	default:
		return "", noop, fmt.Errorf("unsupported URL scheme: %s", path)
	}
}

// downloadToTemp copies a remote stream to a local temp file, keeping
// the extension so DuckDB's readers can sniff the format.
func downloadToTemp(reader io.Reader, path string) (string, func(), error) {
	noop := func() {}

	tmp, err := os.CreateTemp("", "duckcli-import-*"+filepath.Ext(path))
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", noop, fmt.Errorf("failed to download %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", noop, err
	}

	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// uploadFile pushes a local file to an s3:// destination.
func uploadFile(localPath, url string, cfg *s3Config) error {
	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := openS3Writer(url, cfg)
	if err != nil {
		return err
	}

	if _, err := io.Copy(writer, file); err != nil {
		return fmt.Errorf("failed to upload to %s: %w", url, err)
	}
	return writer.Close()
}

// openHTTPReader opens an HTTP GET reader
func openHTTPReader(url string) (io.ReadCloser, error) {
	client := &http.Client{
		Timeout: 5 * time.Minute, // generous timeout for large files
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// parseS3URL parses s3://bucket/key into bucket and key parts
func parseS3URL(url string) (bucket, key string, err error) {
	path := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

// getS3Client creates an S3 client with the given configuration
func getS3Client(ctx context.Context, cfg *s3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	// Set region if provided
	if cfg != nil && cfg.region != "" {
		opts = append(opts, config.WithRegion(cfg.region))
	}

	// Set explicit credentials if provided
	if cfg != nil && cfg.accessKey != "" && cfg.secretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.accessKey, cfg.secretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg != nil && cfg.endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.endpoint)
			o.UsePathStyle = true // For S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// openS3Reader opens a reader for an S3 object
func openS3Reader(url string, cfg *s3Config) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}

	return resp.Body, nil
}

// s3Writer wraps S3 upload in a WriteCloser interface
type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buffer []byte
	closed bool
}

func (w *s3Writer) Write(p []byte) (n int, err error) {
	if w.closed {
		return 0, fmt.Errorf("writer is closed")
	}
	w.buffer = append(w.buffer, p...)
	return len(p), nil
}

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	// Upload the buffered content
	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   strings.NewReader(string(w.buffer)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// openS3Writer opens a writer for an S3 object
func openS3Writer(url string, cfg *s3Config) (io.WriteCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &s3Writer{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		key:    key,
		buffer: make([]byte, 0),
	}, nil
}
