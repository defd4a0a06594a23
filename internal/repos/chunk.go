package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type ChunkRepo interface {
  Create(ctx context.Context, tx *gorm.DB, chunks []*types.Chunk) ([]*types.Chunk, error)
  GetByDocumentID(ctx context.Context, tx *gorm.DB, docID uuid.UUID) ([]*types.Chunk, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chunk, error)
}

type chunkRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChunkRepo(db *gorm.DB, baseLog *logger.Logger) ChunkRepo {
  return &chunkRepo{db: db, log: baseLog.With("repo", "ChunkRepo")}
}

func (r *chunkRepo) Create(ctx context.Context, tx *gorm.DB, chunks []*types.Chunk) ([]*types.Chunk, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(chunks) == 0 {
    return []*types.Chunk{}, nil
  }

  // Keep batches small because Text can be large
  const batchSize = 100

  if err := transaction.WithContext(ctx).CreateInBatches(chunks, batchSize).Error; err != nil {
    return nil, err
  }
  return chunks, nil
}

func (r *chunkRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, docID uuid.UUID) ([]*types.Chunk, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Chunk
  if err := transaction.WithContext(ctx).
    Where("document_id = ?", docID).
    Order(`"index" ASC`).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *chunkRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chunk, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var c types.Chunk
  if err := transaction.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
    return nil, err
  }
  return &c, nil
}
