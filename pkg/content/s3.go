package content

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/frontpage/internal/config"
)

// S3API is the subset of the S3 client S3Source uses.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads content from <bucket>/<prefix><kind dir>/*.md.
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source creates a source over client.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds an S3 client from config. Without static keys the
// client makes anonymous requests, which suits public buckets.
func NewS3Client(cfg config.S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
		Credentials:  aws.AnonymousCredentials{},
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		key, secret := cfg.AccessKeyID, cfg.SecretAccessKey
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     key,
					SecretAccessKey: secret,
					Source:          "frontpage config",
				}, nil
			}))
	}
	return s3.New(opts)
}

// List pages through the kind's prefix and downloads each markdown object.
func (s *S3Source) List(ctx context.Context, kind Kind) ([]RawDoc, error) {
	prefix := s.prefix + kind.Dir() + "/"
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var docs []RawDoc
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, prefix)
			// Skip nested "directories".
			if strings.Contains(name, "/") || !isMarkdown(name) {
				continue
			}
			data, err := s.get(ctx, key)
			if err != nil {
				return nil, err
			}
			docs = append(docs, RawDoc{
				Name:    path.Base(key),
				Data:    data,
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}
	return docs, nil
}

func (s *S3Source) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
