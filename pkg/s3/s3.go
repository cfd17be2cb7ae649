package s3

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const presignTTL = 15 * time.Minute

type ItfS3 interface {
	PresignUrl(fileUrl string) (string, error)
	PresignUrls(fileUrls []string) []string
}

type s3Client struct {
	client     *s3.S3
	bucketName string
}

func New() (ItfS3, error) {
	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	return &s3Client{
		client:     s3.New(sess),
		bucketName: os.Getenv("AWS_BUCKET_NAME"),
	}, nil
}

// PresignUrl returns a short-lived GET url for a stored listing image.
func (s *s3Client) PresignUrl(fileUrl string) (string, error) {
	key := extractKeyFromS3Url(fileUrl)

	decodedKey, err := url.QueryUnescape(key)
	if err != nil {
		return "", fmt.Errorf("failed to decode S3 key: %w", err)
	}

	_, err = s.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(decodedKey),
	})
	if err != nil {
		return "", fmt.Errorf("file does not exist: %w", err)
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(decodedKey),
	})

	urlStr, err := req.Presign(presignTTL)
	if err != nil {
		return "", err
	}

	return urlStr, nil
}

// PresignUrls presigns every bucket image and passes other urls through.
// Images that cannot be presigned are dropped.
func (s *s3Client) PresignUrls(fileUrls []string) []string {
	out := make([]string, 0, len(fileUrls))
	for _, u := range fileUrls {
		if !IsBucketUrl(u) {
			out = append(out, u)
			continue
		}
		signed, err := s.PresignUrl(u)
		if err != nil {
			continue
		}
		out = append(out, signed)
	}
	return out
}

// IsBucketUrl reports whether fileUrl points at an S3 object.
func IsBucketUrl(fileUrl string) bool {
	return strings.Contains(fileUrl, ".amazonaws.com/")
}

func extractKeyFromS3Url(fileUrl string) string {
	parts := strings.Split(fileUrl, ".com/")
	if len(parts) > 1 {
		return parts[1]
	}
	return fileUrl
}

func newSession() (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	})

	if err != nil {
		return nil, err
	}

	return sess, nil
}
