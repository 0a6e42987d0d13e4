package s3store

import (
	"context"
	"fmt"
	"mime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return pc.PresignGetObject(ctx, in, optFns...)
}

// Presigner issues time-limited GET links to stored objects.
type Presigner struct {
	pc *s3.PresignClient
}

func NewPresigner(c *s3.Client) *Presigner {
	return &Presigner{pc: s3.NewPresignClient(c)}
}

// PresignGet returns a URL that downloads the object as an attachment named
// filename until ttl passes.
func (p *Presigner) PresignGet(ctx context.Context, bucket, key, filename string, ttl time.Duration) (string, error) {
	in := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		in.ResponseContentDisposition = aws.String(mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	}

	req, err := presignGetObject(p.pc, ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}
