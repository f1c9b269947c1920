package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
)

// BackupService exports guild progression data as JSON snapshots to an
// S3-compatible Spaces bucket.
type BackupService struct {
	client  *s3.Client
	bucket  string
	region  string
	members repositories.MemberRepository
	quests  repositories.QuestRepository
}

func NewBackupService(spacesKey, spacesSecret, region, bucket string, members repositories.MemberRepository, quests repositories.QuestRepository) (*BackupService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	return &BackupService{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		region:  region,
		members: members,
		quests:  quests,
	}, nil
}

// GuildSnapshot is the exported backup document for one guild.
type GuildSnapshot struct {
	GuildID    string                `json:"guild_id"`
	ExportedAt time.Time             `json:"exported_at"`
	Members    []*models.Member      `json:"members"`
	Quests     []*models.MemberQuest `json:"quests"`
}

// ExportGuild snapshots one guild's members and quests and uploads the
// document to backups/<guild>/<timestamp>.json. Returns the object key.
func (s *BackupService) ExportGuild(ctx context.Context, guildID string, now time.Time) (string, error) {
	members, err := s.members.GetByGuild(ctx, guildID)
	if err != nil {
		return "", err
	}
	quests, err := s.quests.GetByGuild(ctx, guildID)
	if err != nil {
		return "", err
	}

	snapshot := GuildSnapshot{
		GuildID:    guildID,
		ExportedAt: now.UTC(),
		Members:    members,
		Quests:     quests,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot for guild %s: %w", guildID, err)
	}

	key := fmt.Sprintf("backups/%s/%s.json", guildID, now.UTC().Format("20060102-150405"))
	contentType := "application/json"
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	slog.Info("Guild backup exported",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID),
		slog.String("key", key),
		slog.Int("members", len(members)))
	return key, nil
}

// ExportAll backs up every known guild, a few concurrently. The first
// failure cancels the remaining uploads.
func (s *BackupService) ExportAll(ctx context.Context, now time.Time) error {
	guildIDs, err := s.members.GuildIDs(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, guildID := range guildIDs {
		guildID := guildID
		g.Go(func() error {
			_, err := s.ExportGuild(ctx, guildID, now)
			return err
		})
	}
	return g.Wait()
}
