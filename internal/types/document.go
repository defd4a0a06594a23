package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// Document is one uploaded source file after extraction. Immutable after creation.
type Document struct {
  ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  SourceName     string         `gorm:"column:source_name" json:"source_name"`
  SourceFormat   string         `gorm:"column:source_format;not null" json:"source_format"`
  ProcessingMode string         `gorm:"column:processing_mode;not null" json:"processing_mode"`
  Heading        string         `gorm:"column:heading" json:"heading"`
  Paragraphs     datatypes.JSON `gorm:"type:jsonb;column:paragraphs" json:"paragraphs"`
  Equations      datatypes.JSON `gorm:"type:jsonb;column:equations" json:"equations"`
  ExtractedText  string         `gorm:"column:extracted_text;not null" json:"extracted_text"`
  Confidence     float64        `gorm:"column:confidence;not null" json:"confidence_score"`
  CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
}

func (Document) TableName() string { return "document" }
