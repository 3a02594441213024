package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/polyfill/pkg/async"
)

// S3Client defines the S3 operations used by S3Provider.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config contains configuration for the S3 catalog backend.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET,required"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	// Endpoint and ForcePathStyle target S3-compatible services such as MinIO.
	Endpoint       string `env:"S3_ENDPOINT"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
	Prefix         string `env:"S3_PREFIX" envDefault:"polyfills/"`
}

// S3Provider stores the catalog as objects:
//
//	<prefix>meta/<name>.json
//	<prefix>raw/<name>.js
//	<prefix>min/<name>.js
//	<prefix>aliases.json
//
// It is safe for concurrent use.
type S3Provider struct {
	client      S3Client
	bucket      string
	prefix      string
	concurrency int
}

// S3Option defines a function that configures S3Provider.
type S3Option func(*s3Options)

type s3Options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3.Options)
	concurrency     int
}

// WithS3Client sets a pre-configured S3 client. Useful for testing with mocks.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3.Options)) S3Option {
	return func(o *s3Options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithUploadConcurrency bounds concurrent PutObject calls during a publish.
func WithUploadConcurrency(n int) S3Option {
	return func(o *s3Options) {
		o.concurrency = n
	}
}

// NewS3Provider creates an S3 backed catalog.
func NewS3Provider(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Provider, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidS3Config
	}

	options := &s3Options{concurrency: 8}
	for _, opt := range opts {
		opt(options)
	}
	if options.concurrency <= 0 {
		options.concurrency = 1
	}

	client := options.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		if options.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
		}
		awsOptions = append(awsOptions, options.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
		}

		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
			for _, opt := range options.s3ClientOptions {
				opt(o)
			}
		})
	}

	prefix := strings.TrimPrefix(cfg.Prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &S3Provider{
		client:      client,
		bucket:      cfg.Bucket,
		prefix:      prefix,
		concurrency: options.concurrency,
	}, nil
}

func (p *S3Provider) metaKey(name string) string { return p.prefix + "meta/" + name + ".json" }

func (p *S3Provider) sourceKey(name string, variant Variant) string {
	return p.prefix + string(variant) + "/" + name + ".js"
}

func (p *S3Provider) aliasesKey() string { return p.prefix + "aliases.json" }

// classifyS3Error converts S3 errors to catalog errors.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Join(ErrBackendFailure, fmt.Errorf("%s: %w", operation, err))
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return ErrNotFound
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return errors.Join(ErrBackendFailure, ErrBucketNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.ErrorCode(); code {
		case "NoSuchKey", "NotFound":
			return ErrNotFound
		case "NoSuchBucket":
			return errors.Join(ErrBackendFailure, ErrBucketNotFound)
		case "AccessDenied":
			return errors.Join(ErrBackendFailure, fmt.Errorf("%w: %s", ErrAccessDenied, operation))
		default:
			return errors.Join(ErrBackendFailure, fmt.Errorf("%s failed (code: %s): %w", operation, code, err))
		}
	}

	return errors.Join(ErrBackendFailure, fmt.Errorf("%s failed: %w", operation, err))
}

func (p *S3Provider) get(ctx context.Context, key string) ([]byte, error) {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get "+key)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Join(ErrBackendFailure, err)
	}
	return data, nil
}

func (p *S3Provider) put(ctx context.Context, key, contentType, body string) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return classifyS3Error(err, "put "+key)
}

func (p *S3Provider) Meta(ctx context.Context, name string) (*Meta, error) {
	if err := validateName(name); err != nil {
		return nil, errors.Join(ErrNotFound, err)
	}
	data, err := p.get(ctx, p.metaKey(name))
	if err != nil {
		return nil, err
	}
	return DecodeMeta(data)
}

func (p *S3Provider) Source(ctx context.Context, name string, variant Variant) (string, error) {
	if !variant.Valid() {
		return "", ErrInvalidVariant
	}
	if err := validateName(name); err != nil {
		return "", errors.Join(ErrNotFound, err)
	}
	data, err := p.get(ctx, p.sourceKey(name, variant))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (p *S3Provider) Aliases(ctx context.Context) (map[string][]string, error) {
	data, err := p.get(ctx, p.aliasesKey())
	if errors.Is(err, ErrNotFound) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeAliases(data)
}

type s3Object struct {
	key, contentType, body string
}

// WriteRecords uploads three objects per record with bounded concurrency.
func (p *S3Provider) WriteRecords(ctx context.Context, records []Record) error {
	objects := make([]s3Object, 0, len(records)*3)
	for _, r := range records {
		if err := validateName(r.Name); err != nil {
			return err
		}
		meta, err := EncodeMeta(r.Meta)
		if err != nil {
			return fmt.Errorf("%w: %s", err, r.Name)
		}
		objects = append(objects,
			s3Object{p.metaKey(r.Name), "application/json", string(meta)},
			s3Object{p.sourceKey(r.Name, VariantRaw), "application/javascript", r.Raw},
			s3Object{p.sourceKey(r.Name, VariantMin), "application/javascript", r.Min},
		)
	}

	return async.ForEach(ctx, p.concurrency, objects, func(ctx context.Context, o s3Object) error {
		return p.put(ctx, o.key, o.contentType, o.body)
	})
}

func (p *S3Provider) WriteAliases(ctx context.Context, aliases map[string][]string) error {
	data, err := json.Marshal(aliases)
	if err != nil {
		return errors.Join(ErrInvalidAliases, err)
	}
	return p.put(ctx, p.aliasesKey(), "application/json", string(data))
}
