package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/desertthunder/spotwatch/internal/shared"
)

// fakeS3 keeps objects in a map and mimics the error shapes the SDK returns.
type fakeS3 struct {
	objects map[string][]byte
	getErr  error
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

// apiError builds a generic smithy API error with the given code.
type apiError struct{ code string }

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestS3Store(t *testing.T) {
	ctx := context.Background()

	t.Run("Load Before First Save", func(t *testing.T) {
		store := NewS3StoreWithClient(newFakeS3(), "bucket")

		_, err := store.Load(ctx, "pl")
		if !errors.Is(err, shared.ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		fake := newFakeS3()
		store := NewS3StoreWithClient(fake, "bucket")

		if err := store.Save(ctx, "pl", testSnapshot("1", "2")); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if _, ok := fake.objects["pl.json"]; !ok {
			t.Fatal("expected object pl.json in bucket")
		}

		got, err := store.Load(ctx, "pl")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got.Tracks) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(got.Tracks))
		}
	})

	t.Run("Access Denied", func(t *testing.T) {
		fake := newFakeS3()
		fake.getErr = &apiError{code: "AccessDenied"}
		store := NewS3StoreWithClient(fake, "bucket")

		_, err := store.Load(ctx, "pl")
		if !errors.Is(err, shared.ErrStorePermission) {
			t.Errorf("expected ErrStorePermission, got %v", err)
		}
	})

	t.Run("Failed Save Leaves Object Intact", func(t *testing.T) {
		fake := newFakeS3()
		store := NewS3StoreWithClient(fake, "bucket")

		if err := store.Save(ctx, "pl", testSnapshot("1")); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		fake.putErr = &apiError{code: "InternalError"}
		if err := store.Save(ctx, "pl", testSnapshot("1", "2")); !errors.Is(err, shared.ErrStoreIO) {
			t.Fatalf("expected ErrStoreIO, got %v", err)
		}

		fake.getErr = nil
		got, err := store.Load(ctx, "pl")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got.Tracks) != 1 {
			t.Errorf("expected previous snapshot with 1 track, got %d", len(got.Tracks))
		}
	})
}
