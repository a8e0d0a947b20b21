package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectPutter is the part of *s3.Client the upload service uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// UploadOptions configure where uploads go and what is accepted.
type UploadOptions struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BaseEndpoint    string
	PublicURL       string
	MaxBytes        int64
	Folders         []string
}

// NewS3Client builds an S3 client for opts. A custom endpoint switches to
// path-style addressing, which S3-compatible stores expect.
func NewS3Client(ctx context.Context, opts UploadOptions) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// UploadInput is a base64 encoded file destined for one of the allowed folders.
type UploadInput struct {
	File        string
	Folder      string
	Filename    string
	ContentType string
}

type UploadService struct {
	client ObjectPutter
	opts   UploadOptions
	now    func() time.Time
	newID  func() string
}

func NewUploadService(client ObjectPutter, opts UploadOptions) *UploadService {
	return &UploadService{
		client: client,
		opts:   opts,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Upload stores the decoded file and returns its public URL. Input problems
// are validation errors; storage failures wrap common.ErrUpload and are not
// retried.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (string, error) {
	if !slices.Contains(s.opts.Folders, in.Folder) {
		return "", fmt.Errorf("%w: folder %q is not allowed", common.ErrValidation, in.Folder)
	}

	data, err := decodeFile(in.File)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file is empty", common.ErrValidation)
	}
	if s.opts.MaxBytes > 0 && int64(len(data)) > s.opts.MaxBytes {
		return "", fmt.Errorf("%w: file is larger than %d bytes", common.ErrValidation, s.opts.MaxBytes)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = detectContentType(data, in.Filename)
	}

	key := s.objectKey(in.Folder, in.Filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpload, err)
	}

	return s.publicURL(key), nil
}

// decodeFile accepts plain base64 and data URLs.
func decodeFile(file string) ([]byte, error) {
	if strings.HasPrefix(file, "data:") {
		if i := strings.Index(file, ";base64,"); i >= 0 {
			file = file[i+len(";base64,"):]
		}
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(file))
	if err != nil {
		return nil, fmt.Errorf("%w: file is not valid base64", common.ErrValidation)
	}
	return data, nil
}

func detectContentType(data []byte, filename string) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// objectKey builds <folder>/<yyyy>/<mm>/<dd>/<uuid>-<name>.
func (s *UploadService) objectKey(folder, filename string) string {
	d := s.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s-%s", folder, d.Year(), d.Month(), d.Day(), s.newID(), sanitizeFilename(filename))
}

const maxFilenameLength = 100

// sanitizeFilename keeps letters, digits, dots, dashes and underscores.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if len(out) > maxFilenameLength {
		out = out[len(out)-maxFilenameLength:]
	}
	if out == "" {
		return "file"
	}
	return out
}

func (s *UploadService) publicURL(key string) string {
	switch {
	case s.opts.PublicURL != "":
		return strings.TrimRight(s.opts.PublicURL, "/") + "/" + key
	case s.opts.BaseEndpoint != "":
		return strings.TrimRight(s.opts.BaseEndpoint, "/") + "/" + s.opts.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
	}
}
