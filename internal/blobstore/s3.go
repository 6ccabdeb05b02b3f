// Package blobstore реализует объектное хранилище PDF-файлов поверх
// S3-совместимого API (AWS S3, MinIO, Cloudflare R2). Загрузка возвращает
// публичный URL, по которому файл отдается студентам.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/magabrotheeeer/study-notes-market/internal/config"
)

// Store инкапсулирует S3-клиент и параметры бакета.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// New создает Store на основе конфигурации объектного хранилища.
func New(ctx context.Context, cfg config.S3Storage) (*Store, error) {
	const op = "blobstore.New"

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%s: bucket is not configured", op)
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	// Статические ключи нужны для MinIO / R2; для AWS годится и цепочка по умолчанию.
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // обязательно для MinIO
		})
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Store{
		client:  s3.NewFromConfig(awsCfg, clientOpts...),
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// Upload загружает объект и возвращает его публичный URL.
func (s *Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	const op = "blobstore.Upload"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.URL(key), nil
}

// Delete удаляет объект по его публичному URL.
// URL, не принадлежащий этому хранилищу, считается ошибкой вызывающей стороны.
func (s *Store) Delete(ctx context.Context, url string) error {
	const op = "blobstore.Delete"
	key, err := KeyFromURL(s.baseURL, url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// URL возвращает публичный URL объекта по его ключу.
func (s *Store) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL извлекает ключ объекта из публичного URL.
func KeyFromURL(baseURL, url string) (string, error) {
	prefix := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q does not belong to storage %q", url, baseURL)
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", fmt.Errorf("url %q has empty object key", url)
	}
	return key, nil
}
