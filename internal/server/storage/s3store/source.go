package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	"github.com/sethvargo/go-retry"
)

// API is the subset of *s3.Client used by Source.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

const (
	defaultMaxResumes  = 3
	defaultResumeDelay = 100 * time.Millisecond
	maxResumeDelay     = 2 * time.Second
)

type Source struct {
	api        API
	logger     logging.Logger
	maxResumes uint64
	baseDelay  time.Duration
}

func New(api API, logger logging.Logger) *Source {
	return &Source{
		api:        api,
		logger:     logging.OrNop(logger).With("module", "s3store"),
		maxResumes: defaultMaxResumes,
		baseDelay:  defaultResumeDelay,
	}
}

func (s *Source) backoff() retry.Backoff {
	b := retry.NewExponential(s.baseDelay)
	b = retry.WithCappedDuration(maxResumeDelay, b)
	return retry.WithMaxRetries(s.maxResumes, b)
}

// OpenRange issues a ranged GetObject. If the body fails mid-stream the
// returned reader reissues the request from the first byte not yet read.
func (s *Source) OpenRange(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error) {
	if length == 0 {
		if _, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}); err != nil {
			return nil, mapErr(err)
		}
		return io.NopCloser(strings.NewReader("")), nil
	}

	body, err := s.get(ctx, bucket, key, offset, length)
	if err != nil {
		return nil, err
	}
	return &rangeReader{
		ctx:    ctx,
		src:    s,
		bucket: bucket,
		key:    key,
		next:   offset,
		end:    offset + length,
		body:   body,
	}, nil
}

// Delete removes the object. S3 deletes are idempotent, so existence is
// checked first to report a missing object.
func (s *Source) Delete(ctx context.Context, bucket, key string) error {
	if _, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}); err != nil {
		return mapErr(err)
	}
	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}); err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *Source) get(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+length-1)),
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return out.Body, nil
}

func mapErr(err error) error {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return fmt.Errorf("%w: %v", common.ErrFileNotFoundInStorage, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %v", common.ErrFileNotFoundInStorage, err)
		case "InvalidRange":
			return fmt.Errorf("%w: %v", io.ErrUnexpectedEOF, err)
		}
	}
	return err
}

type rangeReader struct {
	ctx     context.Context
	src     *Source
	bucket  string
	key     string
	next    int64
	end     int64
	body    io.ReadCloser
	resumes uint64
}

func (r *rangeReader) Read(p []byte) (int, error) {
	if r.next >= r.end {
		return 0, io.EOF
	}
	if rem := r.end - r.next; int64(len(p)) > rem {
		p = p[:rem]
	}

	n, err := r.body.Read(p)
	r.next += int64(n)
	if err == nil || r.next >= r.end {
		return n, nil
	}

	if ctxErr := r.ctx.Err(); ctxErr != nil {
		return n, ctxErr
	}
	if r.resumes >= r.src.maxResumes {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return n, err
	}
	if rerr := r.resume(err); rerr != nil {
		return n, rerr
	}
	return n, nil
}

func (r *rangeReader) resume(cause error) error {
	r.resumes++
	r.body.Close()
	r.body = io.NopCloser(strings.NewReader(""))

	r.src.logger.Warn(r.ctx, "resuming ranged read", "bucket", r.bucket, "key", r.key, "offset", r.next, "error", cause)

	return retry.Do(r.ctx, r.src.backoff(), func(ctx context.Context) error {
		body, err := r.src.get(ctx, r.bucket, r.key, r.next, r.end-r.next)
		if err != nil {
			if errors.Is(err, common.ErrFileNotFoundInStorage) || common.IsCancellation(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		r.body = body
		return nil
	})
}

func (r *rangeReader) Close() error {
	return r.body.Close()
}
