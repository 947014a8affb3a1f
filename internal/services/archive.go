package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MailArchiveService stores the rendered HTML of sent mail jobs in an S3
// bucket so dispatched content can be audited after the fact.
type MailArchiveService struct {
	client     *s3.Client
	bucketName string
	logger     *logger.Logger
}

func NewMailArchiveService(bucketName, endpoint, region, accessKey, secretKey string) (*MailArchiveService, error) {
	log := logger.New("mail_archive")

	if accessKey == "" || secretKey == "" {
		return nil, log.Error("archive credentials are empty", fmt.Errorf("accessKey or secretKey is empty"))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, log.Error("unable to load SDK config", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	// Verify credentials before accepting the service
	if _, err := client.HeadBucket(context.TODO(), &s3.HeadBucketInput{Bucket: aws.String(bucketName)}); err != nil {
		return nil, log.Error("failed to verify archive bucket", err)
	}

	log.Success("mail archive initialized on bucket %s", bucketName)

	return &MailArchiveService{
		client:     client,
		bucketName: bucketName,
		logger:     log,
	}, nil
}

// ArchiveSentMail uploads the job's rendered HTML and returns the object
// key. Implements tasks.Archiver.
func (s *MailArchiveService) ArchiveSentMail(ctx context.Context, job *models.MailJob) (string, error) {
	key := fmt.Sprintf("mail/%s/%s/%s.html", job.ActionID, time.Now().Format("2006-01"), job.ID)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(job.HTML)),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive mail %s: %w", job.ID, err)
	}

	s.logger.Info("archived mail %s at %s", job.ID, key)
	return key, nil
}
