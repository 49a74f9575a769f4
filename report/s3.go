package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/pomkit/pom-test-harness/framework/helpers"
	"github.com/pomkit/pom-test-harness/framework/webtest"
)

// S3Attacher uploads attachments to an S3 bucket. Locations are reported as s3://bucket/key.
type S3Attacher struct {
	client s3iface.S3API
	bucket string
	prefix string
	seq    sequence
}

type s3Options struct {
	endpoint    string
	credentials *credentials.Credentials
	prefix      string
}

type S3Option helpers.ConfigOption[s3Options]

type s3OptionFunc func(*s3Options) error

func (f s3OptionFunc) Configure(o *s3Options) error { return f(o) }

// WithS3Endpoint sends requests to a custom endpoint using path-style addressing, as S3-compatible
// stores require.
func WithS3Endpoint(endpoint string) S3Option {
	return s3OptionFunc(func(o *s3Options) error {
		o.endpoint = endpoint
		return nil
	})
}

// WithS3Credentials uses fixed credentials instead of the default provider chain.
func WithS3Credentials(accessKey, secretKey string) S3Option {
	return s3OptionFunc(func(o *s3Options) error {
		o.credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
		return nil
	})
}

// WithS3Prefix puts every key under prefix.
func WithS3Prefix(prefix string) S3Option {
	return s3OptionFunc(func(o *s3Options) error {
		o.prefix = strings.Trim(prefix, "/")
		return nil
	})
}

func NewS3Attacher(bucket, region string, options ...S3Option) (*S3Attacher, error) {
	var o s3Options
	if err := helpers.ApplyOptions[s3Options, S3Option](&o, options...); err != nil {
		return nil, err
	}
	cfg := aws.NewConfig().WithRegion(region)
	if o.endpoint != "" {
		cfg = cfg.WithEndpoint(o.endpoint).WithS3ForcePathStyle(true)
	}
	if o.credentials != nil {
		cfg = cfg.WithCredentials(o.credentials)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return NewS3AttacherWithClient(s3.New(sess), bucket, o.prefix), nil
}

func NewS3AttacherWithClient(client s3iface.S3API, bucket, prefix string) *S3Attacher {
	return &S3Attacher{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (a *S3Attacher) Attach(id webtest.TestID, name, mimeType string, data []byte) (webtest.Attachment, error) {
	key := objectName(id, name, mimeType, a.seq.next(id, name))
	if a.prefix != "" {
		key = a.prefix + "/" + key
	}
	_, err := a.client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return webtest.Attachment{}, fmt.Errorf("uploading %s to bucket %s: %w", key, a.bucket, err)
	}
	return webtest.Attachment{
		Name:     name,
		MimeType: mimeType,
		Location: fmt.Sprintf("s3://%s/%s", a.bucket, key),
		Size:     len(data),
	}, nil
}
