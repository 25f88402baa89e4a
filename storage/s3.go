package storage

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string // S3 compatible services, empty for AWS
	AccessKey string
	SecretKey string
	Prefix    string
	PublicURL string // e.g. CDN in front of the bucket
}

// S3Host stores images as objects in a bucket, the delete reference is the object key
type S3Host struct {
	options  S3Options
	s3Client s3iface.S3API
}

func NewS3Host(options S3Options) (*S3Host, error) {
	cfg := &aws.Config{
		Region: aws.String(options.Region),
	}
	if options.Endpoint != "" {
		cfg.Endpoint = aws.String(options.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	if options.AccessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(options.AccessKey, options.SecretKey, "")
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return NewS3HostWithClient(options, s3.New(sess)), nil
}

func NewS3HostWithClient(options S3Options, client s3iface.S3API) *S3Host {
	if options.PublicURL == "" {
		endpoint := "https://" + options.Bucket + ".s3." + options.Region + ".amazonaws.com"
		if options.Endpoint != "" {
			endpoint = strings.TrimRight(options.Endpoint, "/") + "/" + options.Bucket
		}
		options.PublicURL = endpoint
	}
	options.PublicURL = strings.TrimRight(options.PublicURL, "/")
	options.Prefix = strings.Trim(options.Prefix, "/")
	return &S3Host{options: options, s3Client: client}
}

func (s *S3Host) remotePath(name string) string {
	if s.options.Prefix == "" {
		return name
	}
	return s.options.Prefix + "/" + name
}

func (s *S3Host) Upload(ctx context.Context, name, contentType string, reader io.Reader) (Uploaded, error) {
	// PutObject needs a seekable body
	body, ok := reader.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(reader)
		if err != nil {
			return Uploaded{}, err
		}
		body = bytes.NewReader(data)
	}
	key := s.remotePath(objectName(name, contentType))
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.options.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return Uploaded{}, err
	}
	return Uploaded{URL: s.options.PublicURL + "/" + key, DeleteURL: key}, nil
}

func (s *S3Host) Delete(ctx context.Context, deleteRef string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.options.Bucket),
		Key:    aws.String(deleteRef),
	})
	return err
}
