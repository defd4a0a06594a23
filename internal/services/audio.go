package services

import (
  "context"
  "crypto/sha256"
  "encoding/hex"
  "fmt"
  "strings"
  "time"

  texttospeech "cloud.google.com/go/texttospeech/apiv1"
  "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
  "github.com/google/uuid"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  redisclient "github.com/lumenlearn/lumen-backend/internal/clients/redis"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/repos"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

// secondsPerWord drives the duration estimate for narration at a slow,
// study-friendly speaking rate.
const secondsPerWord = 0.5

const audioCacheTTL = 24 * time.Hour

type AudioService interface {
  Synthesize(ctx context.Context, text string, voice types.VoiceType) (*types.AudioTrack, error)
  Close() error
}

type audioService struct {
  log    *logger.Logger
  tts    *texttospeech.Client
  bucket BucketService
  tracks repos.AudioTrackRepo
  cache  redisclient.Cache
}

// NewAudioService wires text-to-speech against the artifact bucket. The
// cache and the TTS client are both optional: without credentials the
// service still records duration metadata, it just cannot render audio.
func NewAudioService(log *logger.Logger, bucket BucketService, tracks repos.AudioTrackRepo, cache redisclient.Cache) (AudioService, error) {
  slog := log.With("service", "AudioService")

  client, err := texttospeech.NewClient(context.Background())
  if err != nil {
    slog.Warn("Text-to-speech client init failed, synthesis disabled", "error", err)
    client = nil
  }

  return &audioService{
    log:    slog,
    tts:    client,
    bucket: bucket,
    tracks: tracks,
    cache:  cache,
  }, nil
}

func (s *audioService) Close() error {
  if s.tts != nil {
    return s.tts.Close()
  }
  return nil
}

// contentKey identifies one rendition: same text plus same voice.
func contentKey(text string, voice types.VoiceType) string {
  sum := sha256.Sum256([]byte(string(voice) + "\x00" + text))
  return hex.EncodeToString(sum[:])
}

// Synthesize returns the narration track for text, reusing any earlier
// rendition with the same content key.
func (s *audioService) Synthesize(ctx context.Context, text string, voice types.VoiceType) (*types.AudioTrack, error) {
  text = strings.TrimSpace(text)
  if text == "" {
    return nil, apperr.New(apperr.KindBadRequest, "text required")
  }
  if voice == "" {
    voice = types.VoiceFemale
  }

  key := contentKey(text, voice)

  if s.cache != nil {
    var cached types.AudioTrack
    if hit, err := s.cache.GetJSON(ctx, "audio:"+key, &cached); err == nil && hit {
      return &cached, nil
    }
  }
  if s.tracks != nil {
    if existing, err := s.tracks.GetByContentKey(ctx, nil, key); err == nil && existing != nil {
      s.cacheTrack(ctx, key, existing)
      return existing, nil
    }
  }

  words := countWords(text)
  track := &types.AudioTrack{
    ID:              uuid.New(),
    ContentKey:      key,
    Voice:           string(voice),
    WordCount:       words,
    DurationSeconds: float64(words) * secondsPerWord,
  }

  if s.tts != nil && s.bucket != nil {
    audio, err := s.render(ctx, text, voice)
    if err != nil {
      return nil, apperr.Wrap(apperr.KindInternal, err)
    }
    objectKey := fmt.Sprintf("audio/%s.mp3", key)
    if err := s.bucket.UploadBytes(ctx, objectKey, audio, "audio/mpeg"); err != nil {
      return nil, apperr.Wrap(apperr.KindInternal, err)
    }
    track.ObjectKey = objectKey
    track.URL = s.bucket.GetPublicURL(objectKey)
  }

  if s.tracks != nil {
    if _, err := s.tracks.Create(ctx, nil, track); err != nil {
      return nil, apperr.Wrap(apperr.KindInternal, err)
    }
  }
  s.cacheTrack(ctx, key, track)

  s.log.Info("Audio synthesized",
    "content_key", key,
    "voice", voice,
    "words", words,
    "duration_seconds", track.DurationSeconds,
  )
  return track, nil
}

func (s *audioService) cacheTrack(ctx context.Context, key string, track *types.AudioTrack) {
  if s.cache == nil {
    return
  }
  if err := s.cache.SetJSON(ctx, "audio:"+key, track, audioCacheTTL); err != nil {
    s.log.Warn("Audio cache write failed", "error", err)
  }
}

func voiceParams(voice types.VoiceType) (*texttospeechpb.VoiceSelectionParams, float64) {
  switch voice {
  case types.VoiceMale:
    return &texttospeechpb.VoiceSelectionParams{
      LanguageCode: "en-US",
      Name:         "en-US-Neural2-D",
      SsmlGender:   texttospeechpb.SsmlVoiceGender_MALE,
    }, 0
  case types.VoiceChild:
    // No dedicated child voice; raise pitch on a female voice.
    return &texttospeechpb.VoiceSelectionParams{
      LanguageCode: "en-US",
      Name:         "en-US-Neural2-F",
      SsmlGender:   texttospeechpb.SsmlVoiceGender_FEMALE,
    }, 4.0
  default:
    return &texttospeechpb.VoiceSelectionParams{
      LanguageCode: "en-US",
      Name:         "en-US-Neural2-F",
      SsmlGender:   texttospeechpb.SsmlVoiceGender_FEMALE,
    }, 0
  }
}

func synthesisRequest(text string, voice types.VoiceType) *texttospeechpb.SynthesizeSpeechRequest {
  params, pitch := voiceParams(voice)
  return &texttospeechpb.SynthesizeSpeechRequest{
    Input: &texttospeechpb.SynthesisInput{
      InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
    },
    Voice: params,
    AudioConfig: &texttospeechpb.AudioConfig{
      AudioEncoding: texttospeechpb.AudioEncoding_MP3,
      SpeakingRate:  0.9,
      Pitch:         pitch,
    },
  }
}

func (s *audioService) render(ctx context.Context, text string, voice types.VoiceType) ([]byte, error) {
  ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
  defer cancel()

  resp, err := s.tts.SynthesizeSpeech(ctx, synthesisRequest(text, voice))
  if err != nil {
    return nil, fmt.Errorf("synthesize speech: %w", err)
  }
  return resp.AudioContent, nil
}
