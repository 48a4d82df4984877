package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Client is the subset of the aws-sdk-go-v2 S3 API the store uses.
// *s3.Client satisfies it; tests substitute a fake.
type S3Client interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

const s3ExpiryMetaKey = "graft-expires-at"

// S3Store persists sessions as objects under a key prefix. It suits
// deployments that already live on object storage and can tolerate
// S3 latency on resume. The expiry deadline rides in object metadata
// and is enforced on Load; S3 lifecycle rules can reap leftovers.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
	ttl    time.Duration
}

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithS3Prefix sets the object key prefix. Default: "sessions/".
func WithS3Prefix(prefix string) S3Option {
	return func(s *S3Store) { s.prefix = prefix }
}

// WithS3TTL sets the session lifetime. Zero disables expiry.
func WithS3TTL(ttl time.Duration) S3Option {
	return func(s *S3Store) { s.ttl = ttl }
}

// NewS3Store creates a store over the given client and bucket.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := session.NewS3Store(s3.NewFromConfig(cfg), "my-bucket")
func NewS3Store(client S3Client, bucket string, opts ...S3Option) *S3Store {
	store := &S3Store{
		client: client,
		bucket: bucket,
		prefix: "sessions/",
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *S3Store) key(id string) string {
	return s.prefix + id
}

func (s *S3Store) expiryMeta() map[string]string {
	if s.ttl <= 0 {
		return nil
	}
	return map[string]string{
		s3ExpiryMetaKey: time.Now().Add(s.ttl).UTC().Format(time.RFC3339),
	}
}

// Save uploads the snapshot, stamping the expiry deadline in object
// metadata.
func (s *S3Store) Save(ctx context.Context, state *State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}
	return s.put(ctx, state.ID, data)
}

func (s *S3Store) put(ctx context.Context, id string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata:    s.expiryMeta(),
	})
	if err != nil {
		return fmt.Errorf("session: s3 put: %w", err)
	}
	return nil
}

// Load downloads and decodes a snapshot, treating expired objects as
// missing.
func (s *S3Store) Load(ctx context.Context, id string) (*State, error) {
	data, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return DecodeState(data)
}

func (s *S3Store) get(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: s3 get: %w", err)
	}
	defer out.Body.Close()

	if s.metaExpired(out.Metadata) {
		// Best effort; lifecycle rules are the backstop.
		s.Delete(ctx, id)
		return nil, ErrNotFound
	}

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("session: s3 read: %w", err)
	}
	return data, nil
}

func (s *S3Store) metaExpired(meta map[string]string) bool {
	raw, ok := meta[s3ExpiryMetaKey]
	if !ok {
		return false
	}
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return time.Now().After(deadline)
}

// Delete removes a session object. Deleting a missing object is not
// an error in S3 either.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("session: s3 delete: %w", err)
	}
	return nil
}

// Touch rewrites the object with fresh expiry metadata. S3 metadata
// is immutable in place, so this costs a download and an upload.
func (s *S3Store) Touch(ctx context.Context, id string) error {
	data, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	return s.put(ctx, id, data)
}

// Close is a no-op; the caller owns the client.
func (s *S3Store) Close() error {
	return nil
}
