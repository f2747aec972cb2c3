package storage

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gallery/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Storage struct {
	bucket   string
	prefix   string // key prefix inside the bucket, may be empty
	s3Client *s3.S3
}

// NewS3Storage takes "bucket" or "bucket/prefix" (the s3:// scheme already
// stripped by FromRoot).
func NewS3Storage(root string) API {
	bucket, prefix := root, ""
	if i := strings.IndexByte(root, '/'); i >= 0 {
		bucket, prefix = root[:i], strings.Trim(root[i+1:], "/")
	}
	awsConfig := aws.Config{
		Region: aws.String(config.S3_REGION),
	}
	if config.S3_ACCESS_KEY != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.S3_ACCESS_KEY, config.S3_SECRET_KEY, "")
	}
	if config.S3_ENDPOINT != "" {
		awsConfig.Endpoint = aws.String(config.S3_ENDPOINT)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess := session.Must(session.NewSession(&awsConfig))
	return &S3Storage{
		bucket:   bucket,
		prefix:   prefix,
		s3Client: s3.New(sess),
	}
}

func (s *S3Storage) remoteKey(path string) string {
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

// GetFullPath returns a local temp path in case of S3
func (s *S3Storage) GetFullPath(path string) string {
	return config.TMP_DIR + "/" + strings.ReplaceAll(path, "/", "_")
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	// Buffer so we can report the stored size
	buf := bytes.Buffer{}
	size, err := io.Copy(&buf, reader)
	if err != nil {
		return 0, err
	}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: &s.bucket,
		Key:    aws.String(s.remoteKey(path)),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	return size, err
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(s.remoteKey(path)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

func (s *S3Storage) Delete(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(s.remoteKey(path)),
	})
	// The temp copy may or may not exist
	_ = os.Remove(s.GetFullPath(path))
	return err
}

func (s *S3Storage) ListMatching(prefix string) ([]string, error) {
	resp, err := s.s3Client.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: aws.String(s.remoteKey(prefix)),
	})
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, obj := range resp.Contents {
		key := aws.StringValue(obj.Key)
		if s.prefix != "" {
			key = strings.TrimPrefix(key, s.prefix+"/")
		}
		names = append(names, key)
	}
	return names, nil
}

func (s *S3Storage) ModTime(path string) (time.Time, error) {
	resp, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(s.remoteKey(path)),
	})
	if err != nil {
		return time.Time{}, err
	}
	return aws.TimeValue(resp.LastModified), nil
}

func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(s.remoteKey(path)),
	})
	if err != nil {
		http.NotFound(writer, request)
		return
	}
	defer resp.Body.Close()
	if resp.ContentType != nil {
		writer.Header().Set("content-type", *resp.ContentType)
	}
	_, _ = io.Copy(writer, resp.Body)
}

func (s *S3Storage) GetFreeSpace() uint64 {
	return 0 // Not meaningful for S3
}
