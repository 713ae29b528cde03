package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	s3Errors = errx.NewRegistry("S3FS")

	ErrObjectNotExists = s3Errors.Register("OBJECT_NOT_EXISTS", errx.TypeNotFound, 404, "S3 object does not exist")
	ErrEmptyBucketName = s3Errors.Register("EMPTY_BUCKET_NAME", errx.TypeValidation, 400, "Bucket name cannot be empty")
	ErrFailedUpload    = s3Errors.Register("FAILED_UPLOAD", errx.TypeExternal, 502, "Failed to upload to S3")
	ErrFailedDownload  = s3Errors.Register("FAILED_DOWNLOAD", errx.TypeExternal, 502, "Failed to download from S3")
	ErrFailedStat      = s3Errors.Register("FAILED_STAT", errx.TypeExternal, 502, "Failed to get S3 object stats")
)

// API is the subset of the S3 client used here
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3FileSystem stores files as objects under a key prefix
type S3FileSystem struct {
	client   API
	bucket   string
	rootPath string
}

// NewS3FileSystem creates an S3FileSystem. rootPath is used as a key prefix.
func NewS3FileSystem(client API, bucket string, rootPath string) *S3FileSystem {
	rootPath = strings.TrimPrefix(rootPath, "/")
	if rootPath != "" && !strings.HasSuffix(rootPath, "/") {
		rootPath += "/"
	}
	return &S3FileSystem{client: client, bucket: bucket, rootPath: rootPath}
}

// NewFromDefaultConfig builds the S3 client from the default AWS credential chain
func NewFromDefaultConfig(ctx context.Context, bucket, rootPath string) (*S3FileSystem, error) {
	if bucket == "" {
		return nil, s3Errors.New(ErrEmptyBucketName)
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "Failed to load AWS configuration", errx.TypeSystem)
	}
	return NewS3FileSystem(s3.NewFromConfig(cfg), bucket, rootPath), nil
}

func (fs *S3FileSystem) s3Key(p string) string {
	return fs.rootPath + strings.TrimPrefix(p, "/")
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if fs.bucket == "" {
		return nil, s3Errors.New(ErrEmptyBucketName)
	}
	key := fs.s3Key(p)

	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, s3Errors.NewWithCause(ErrObjectNotExists, err).WithDetail("key", key)
		}
		return nil, s3Errors.NewWithCause(ErrFailedDownload, err).
			WithDetail("bucket", fs.bucket).
			WithDetail("key", key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errx.Wrap(err, "Failed to read S3 object body", errx.TypeSystem).WithDetail("key", key)
	}
	return data, nil
}

// WriteFile uploads data. Without a content type option the object is stored
// as application/octet-stream.
func (fs *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte, opts ...fsx.WriteOption) error {
	if fs.bucket == "" {
		return s3Errors.New(ErrEmptyBucketName)
	}
	o := fsx.ApplyWriteOptions(opts...)
	contentType := o.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fs.s3Key(p)

	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    o.Metadata,
	})
	if err != nil {
		return s3Errors.NewWithCause(ErrFailedUpload, err).
			WithDetail("bucket", fs.bucket).
			WithDetail("key", key)
	}
	return nil
}

func (fs *S3FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	if fs.bucket == "" {
		return fsx.FileInfo{}, s3Errors.New(ErrEmptyBucketName)
	}
	key := fs.s3Key(p)

	out, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return fsx.FileInfo{}, s3Errors.NewWithCause(ErrObjectNotExists, err).WithDetail("key", key)
		}
		return fsx.FileInfo{}, s3Errors.NewWithCause(ErrFailedStat, err).WithDetail("key", key)
	}

	info := fsx.FileInfo{
		Name:        path.Base(p),
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		Metadata:    out.Metadata,
	}
	if out.LastModified != nil {
		info.ModTime = *out.LastModified
	}
	return info, nil
}

func (fs *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := fs.Stat(ctx, p)
	if err == nil {
		return true, nil
	}
	if errx.IsCode(err, ErrObjectNotExists) {
		return false, nil
	}
	return false, err
}

func (fs *S3FileSystem) Join(elem ...string) string {
	for i := range elem {
		elem[i] = strings.Trim(elem[i], "/")
	}
	return path.Join(elem...)
}
