package types

import (
  "time"

  "github.com/google/uuid"
)

// AudioTrack records one rendered voice track. Key is content-derived so
// repeated renders of the same text+voice resolve to the same artifact.
type AudioTrack struct {
  ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  ContentKey      string    `gorm:"column:content_key;uniqueIndex;not null" json:"content_key"`
  Voice           string    `gorm:"column:voice;not null" json:"voice"`
  ObjectKey       string    `gorm:"column:object_key;not null" json:"object_key"`
  URL             string    `gorm:"column:url;not null" json:"audio_url"`
  DurationSeconds float64   `gorm:"column:duration_seconds" json:"duration_seconds"`
  WordCount       int       `gorm:"column:word_count" json:"word_count"`
  CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (AudioTrack) TableName() string { return "audio_track" }
