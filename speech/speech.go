package speech

import "context"

// Synthesizer turns text into audio bytes. Encoding and storage of the audio
// are the caller's concern.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
