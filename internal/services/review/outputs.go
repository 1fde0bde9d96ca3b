package review

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3OutputReader fetches A2I answer documents from the flow definition's
// configured output bucket
type s3OutputReader struct {
	client *s3.Client
}

func (r *s3OutputReader) ReadOutput(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read review output %s: %w", uri, err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func parseS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	if trimmed == uri {
		return "", "", fmt.Errorf("not an s3 URI: %s", uri)
	}
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed s3 URI: %s", uri)
	}
	return bucket, key, nil
}
