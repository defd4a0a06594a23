package types

import (
  "time"

  "github.com/google/uuid"
)

// Chunk is a topic-coherent slice of a Document. Created by the segmenter,
// read-only downstream.
type Chunk struct {
  ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  DocumentID    uuid.UUID `gorm:"type:uuid;index" json:"document_id"`
  Document      *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
  Index         int       `gorm:"column:index;not null" json:"index"`
  Text          string    `gorm:"column:text;not null" json:"text"`
  Topic         string    `gorm:"column:topic" json:"topic"`
  Confidence    float64   `gorm:"column:confidence;not null" json:"confidence"`
  LowConfidence bool      `gorm:"column:low_confidence;not null" json:"low_confidence"`
  CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (Chunk) TableName() string { return "chunk" }

// TopicGroup is one labeled cluster of chunks in a segmentation response.
type TopicGroup struct {
  TopicName  string  `json:"topic_name"`
  Chunks     []Chunk `json:"chunks"`
  Confidence float64 `json:"confidence_score"`
}
