package services

import (
	"testing"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/lumenlearn/lumen-backend/internal/types"
)

func TestContentKeyDependsOnVoiceAndText(t *testing.T) {
	a := contentKey("hello world", types.VoiceFemale)
	if a != contentKey("hello world", types.VoiceFemale) {
		t.Fatal("content key should be deterministic")
	}
	if a == contentKey("hello world", types.VoiceMale) {
		t.Fatal("different voices should produce different keys")
	}
	if a == contentKey("hello there", types.VoiceFemale) {
		t.Fatal("different texts should produce different keys")
	}
}

func TestSynthesisRequest(t *testing.T) {
	req := synthesisRequest("Plants grow.", types.VoiceChild)

	if got := req.AudioConfig.AudioEncoding; got != texttospeechpb.AudioEncoding_MP3 {
		t.Fatalf("AudioEncoding=%v, want MP3", got)
	}
	if req.AudioConfig.SpeakingRate != 0.9 {
		t.Fatalf("SpeakingRate=%v, want 0.9", req.AudioConfig.SpeakingRate)
	}
	if req.AudioConfig.Pitch != 4.0 {
		t.Fatalf("child voice pitch=%v, want 4.0", req.AudioConfig.Pitch)
	}
	if req.Voice.Name != "en-US-Neural2-F" {
		t.Fatalf("child voice name=%q, want en-US-Neural2-F", req.Voice.Name)
	}
	if got := req.Input.GetText(); got != "Plants grow." {
		t.Fatalf("input text=%q", got)
	}
}

func TestVoiceParams(t *testing.T) {
	male, pitch := voiceParams(types.VoiceMale)
	if male.Name != "en-US-Neural2-D" || male.SsmlGender != texttospeechpb.SsmlVoiceGender_MALE || pitch != 0 {
		t.Fatalf("male params=%+v pitch=%v", male, pitch)
	}
	def, pitch := voiceParams(types.VoiceType("unknown"))
	if def.SsmlGender != texttospeechpb.SsmlVoiceGender_FEMALE || pitch != 0 {
		t.Fatalf("default params=%+v pitch=%v", def, pitch)
	}
}
