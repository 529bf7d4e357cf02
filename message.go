package main

import "fmt"

const (
	MsgAssetsUnavailable = "The emotion model could not be loaded, so detection is disabled. Make sure the model and labels files are in place and restart the service."

	MsgUndecodableAudio = "We couldn't read that audio. Please upload a WAV, MP3 or FLAC clip of recorded speech and try again."
)

var emotionMessages = map[string]string{
	"angry":    "The clip sounds angry. Raised intensity and a hard vocal edge dominate the recording.",
	"disgust":  "The clip sounds disgusted. The voice carries a strained, rejecting tone.",
	"fear":     "The clip sounds fearful. The voice is tense with an unsteady pitch.",
	"happy":    "The clip sounds happy. The voice is bright with lively intonation.",
	"neutral":  "The clip sounds neutral. No strong emotional coloring stands out.",
	"sad":      "The clip sounds sad. The voice is low in energy with a falling intonation.",
	"surprise": "The clip sounds surprised. Sudden pitch jumps mark the recording.",
}

func emotionMessage(label string) string {
	if msg, ok := emotionMessages[label]; ok {
		return msg
	}
	return fmt.Sprintf("Detected emotion: %s.", label)
}
