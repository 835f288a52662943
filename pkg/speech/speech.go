// Package speech turns tutor replies into spoken audio. One voice at a
// time: a new utterance always replaces the one still playing. Synthesis
// or playback trouble is logged and swallowed; the dashboard keeps working
// silently without a voice.
package speech

import (
	"context"
	"strings"
)

// Options tune one utterance.
type Options struct {
	// Lang is the BCP-47 target, e.g. "ar-EG".
	Lang   string
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultOptions returns the voice settings tuned for the young audience:
// Egyptian Arabic, slightly faster and higher than neutral.
func DefaultOptions() Options {
	return Options{
		Lang:   "ar-EG",
		Rate:   1.02,
		Pitch:  1.05,
		Volume: 1,
	}
}

// Voice describes one synthesizer voice.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// Synthesizer renders text to an audio file on disk and reports the
// container format ("mp3", "wav").
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice, outputPath string, opts Options) (string, error)
	Voices(ctx context.Context) ([]Voice, error)
}

// Speaker is the voice channel the rest of the app talks to.
type Speaker interface {
	// Speak queues the text for synthesis and playback, replacing any
	// utterance still in flight. Never returns an error; failures are
	// logged and the call degrades to silence.
	Speak(ctx context.Context, text string, opts Options)
	// Cancel stops the in-flight utterance, if any.
	Cancel()
}

// PickVoice chooses the voice for a language target: exact match first,
// then any voice of the same primary language, then the first available.
func PickVoice(voices []Voice, lang string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	for _, v := range voices {
		if strings.EqualFold(v.Language, lang) {
			return v, true
		}
	}
	primary := lang
	if i := strings.IndexByte(lang, '-'); i > 0 {
		primary = lang[:i]
	}
	for _, v := range voices {
		if strings.EqualFold(v.Language, primary) ||
			strings.HasPrefix(strings.ToLower(v.Language), strings.ToLower(primary)+"-") {
			return v, true
		}
	}
	return voices[0], true
}
