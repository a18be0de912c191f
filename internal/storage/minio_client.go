package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pagedraft/internal/config"

	"github.com/google/uuid"
)

// Storage - хранилище файлов (изображения постов и аватары пользователей)
type Storage interface {
	UploadFile(ctx context.Context, collection, recordID, fileName string, file io.Reader, size int64) (string, error)
	DeleteFile(ctx context.Context, objectName string) error
	FileURL(collection, recordID, fileName string) string
}

type MinIOClient struct {
	client *minio.Client
	config *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания bucket: %w", err)
		}
	}

	return &MinIOClient{client: client, config: cfg}, nil
}

// UploadFile кладет файл в bucket под имя <collection>/<recordID>/<uuid><ext>
// и возвращает имя объекта. Тип содержимого определяется по первым байтам файла.
func (m *MinIOClient) UploadFile(ctx context.Context, collection, recordID, fileName string, file io.Reader, size int64) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	head = head[:n]

	contentType := mimetype.Detect(head).String()

	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = mimetype.Detect(head).Extension()
	}

	objectName := fmt.Sprintf("%s/%s/%s%s", collection, recordID, uuid.New().String(), fileExt)

	reader := io.MultiReader(bytes.NewReader(head), file)

	_, err = m.client.PutObject(ctx, m.config.MinIO.BucketName, objectName, reader, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"record-id":         recordID,
				"uploaded-at":       time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return objectName, nil
}

func (m *MinIOClient) DeleteFile(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.MinIO.BucketName, objectName,
		minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}

// FileURL возвращает публичный URL файла записи или пустую строку, если файла нет.
func (m *MinIOClient) FileURL(collection, recordID, fileName string) string {
	if fileName == "" || recordID == "" {
		return ""
	}

	// Имя может быть уже полным именем объекта
	if strings.HasPrefix(fileName, collection+"/") {
		return fmt.Sprintf("%s/%s/%s", m.config.MinIO.PublicURL, m.config.MinIO.BucketName, fileName)
	}

	return fmt.Sprintf("%s/%s/%s/%s/%s", m.config.MinIO.PublicURL, m.config.MinIO.BucketName, collection, recordID, fileName)
}
