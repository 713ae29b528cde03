package fsxs3

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type object struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

type fakeS3 struct {
	objects map[string]object
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string]object)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = object{data: data, contentType: aws.ToString(in.ContentType), metadata: in.Metadata}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(obj.data))),
		ContentType:   aws.String(obj.contentType),
		Metadata:      obj.metadata,
	}, nil
}

func TestWriteUsesPrefixAndContentType(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	fs := NewS3FileSystem(client, "media-bucket", "/inbound")

	err := fs.WriteFile(ctx, "wamid-1.ogg", []byte("opus"),
		fsx.WithContentType("audio/ogg"),
		fsx.WithMetadata("media-id", "1"))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	obj, ok := client.objects["inbound/wamid-1.ogg"]
	if !ok {
		t.Fatalf("object not stored under prefix: %v", client.objects)
	}
	if obj.contentType != "audio/ogg" || obj.metadata["media-id"] != "1" {
		t.Fatalf("unexpected object %+v", obj)
	}

	info, err := fs.Stat(ctx, "wamid-1.ogg")
	if err != nil || info.Size != 4 || info.Name != "wamid-1.ogg" {
		t.Fatalf("unexpected stat %+v %v", info, err)
	}

	data, err := fs.ReadFile(ctx, "/wamid-1.ogg")
	if err != nil || string(data) != "opus" {
		t.Fatalf("unexpected read %q %v", data, err)
	}
}

func TestDefaultContentType(t *testing.T) {
	client := newFakeS3()
	fs := NewS3FileSystem(client, "b", "")
	if err := fs.WriteFile(context.Background(), "x.bin", []byte{1}); err != nil {
		t.Fatal(err)
	}
	if client.objects["x.bin"].contentType != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", client.objects["x.bin"].contentType)
	}
}

func TestMissingObjects(t *testing.T) {
	ctx := context.Background()
	fs := NewS3FileSystem(newFakeS3(), "b", "")

	if _, err := fs.ReadFile(ctx, "nope"); !errx.IsCode(err, ErrObjectNotExists) {
		t.Fatalf("expected not exists, got %v", err)
	}
	ok, err := fs.Exists(ctx, "nope")
	if err != nil || ok {
		t.Fatalf("expected false, nil; got %v %v", ok, err)
	}
}

func TestEmptyBucket(t *testing.T) {
	fs := NewS3FileSystem(newFakeS3(), "", "")
	if err := fs.WriteFile(context.Background(), "x", nil); !errx.IsCode(err, ErrEmptyBucketName) {
		t.Fatalf("expected empty bucket error, got %v", err)
	}
}
