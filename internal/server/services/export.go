package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DefaultExportURLValidity is used when the config leaves it unset.
const DefaultExportURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Bundle is the exported document.
type Bundle struct {
	ExportedAt time.Time             `json:"exported_at"`
	User       *models.User          `json:"user"`
	Profile    *BundleProfile        `json:"profile,omitempty"`
	Journal    []models.JournalEntry `json:"journal"`
	Moods      []models.MoodEntry    `json:"moods"`
}

// BundleProfile exports the profile through the view matching the path that
// last wrote it.
type BundleProfile struct {
	SlotContext models.SlotContext       `json:"slot_context"`
	Nutrition   *models.NutritionProfile `json:"nutrition,omitempty"`
	Wellness    *models.WellnessProfile  `json:"wellness,omitempty"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	timeout     storeTimeout
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: m,
		config:      cfg,
		timeout:     newStoreTimeout(cfg.DatabaseTimeout),
		now:         time.Now,
	}
}

// ExportKey returns a fresh object key under the user's dated prefix.
func ExportKey(userID int64, d time.Time) string {
	d = d.UTC()
	return fmt.Sprintf("exports/%d/%04d/%02d/%02d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) getClients(ctx context.Context) (*s3.Client, *s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, newS3PresignClient(client), nil
}

// Collect gathers everything stored for the user.
func (s *ExportService) Collect(ctx context.Context, userID int64) (*Bundle, error) {
	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	b := &Bundle{ExportedAt: s.now().UTC(), User: user}

	p, err := s.repomanager.Profiles(s.db).GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, common.ErrorNotFound):
	case err != nil:
		return nil, err
	default:
		bp := &BundleProfile{SlotContext: p.SlotContext, UpdatedAt: p.UpdatedAt}
		if p.SlotContext == models.SlotContextWellness {
			w := p.Wellness()
			bp.Wellness = &w
		} else {
			n := p.Nutrition()
			bp.Nutrition = &n
		}
		b.Profile = bp
	}

	if b.Journal, err = s.repomanager.Journals(s.db).ListByUser(ctx, userID, 0); err != nil {
		return nil, err
	}
	if b.Moods, err = s.repomanager.Moods(s.db).ListByUser(ctx, userID, 0); err != nil {
		return nil, err
	}
	return b, nil
}

// Export uploads the user's bundle and returns a presigned download URL.
func (s *ExportService) Export(ctx context.Context, userID int64) (*ExportResult, error) {
	bundle, err := s.Collect(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	client, presignClient, err := s.getClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("error configuring object storage: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ExportKey(userID, bundle.ExportedAt)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	validity := s.config.ExportURLValidityDuration
	if validity <= 0 {
		validity = DefaultExportURLValidity
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(validity))
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &ExportResult{Key: key, URL: req.URL, ExpiresAt: s.now().UTC().Add(validity)}, nil
}
