package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type DocumentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error)
}

type documentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
  return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
    return nil, err
  }
  return doc, nil
}

func (r *documentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var doc types.Document
  if err := transaction.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
    return nil, err
  }
  return &doc, nil
}
