package repos

import (
  "context"
  "errors"

  "gorm.io/gorm"

  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type AudioTrackRepo interface {
  Create(ctx context.Context, tx *gorm.DB, track *types.AudioTrack) (*types.AudioTrack, error)
  GetByContentKey(ctx context.Context, tx *gorm.DB, key string) (*types.AudioTrack, error)
}

type audioTrackRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAudioTrackRepo(db *gorm.DB, baseLog *logger.Logger) AudioTrackRepo {
  return &audioTrackRepo{db: db, log: baseLog.With("repo", "AudioTrackRepo")}
}

func (r *audioTrackRepo) Create(ctx context.Context, tx *gorm.DB, track *types.AudioTrack) (*types.AudioTrack, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(track).Error; err != nil {
    return nil, err
  }
  return track, nil
}

// GetByContentKey returns nil, nil when no track exists for key.
func (r *audioTrackRepo) GetByContentKey(ctx context.Context, tx *gorm.DB, key string) (*types.AudioTrack, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var track types.AudioTrack
  err := transaction.WithContext(ctx).Where("content_key = ?", key).First(&track).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &track, nil
}
