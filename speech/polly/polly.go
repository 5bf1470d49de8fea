package polly

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
)

// Polly rejects SynthesizeSpeech inputs over 3000 billed characters.
const maxTextLength = 3000

type PollySynthesizer struct {
	client *polly.Client
	voice  types.VoiceId
}

func NewPollySynthesizer(ctx context.Context, devMode bool, voice string) (*PollySynthesizer, error) {
	var cfg aws.Config
	var err error

	if devMode {
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion("us-east-1"),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("dummy", "dummy", ""),
			),
		)
	} else {
		cfg, err = config.LoadDefaultConfig(ctx)
	}
	if err != nil {
		return nil, err
	}

	if voice == "" {
		voice = string(types.VoiceIdJoanna)
	}

	return &PollySynthesizer{
		client: polly.NewFromConfig(cfg),
		voice:  types.VoiceId(voice),
	}, nil
}

func (s *PollySynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, errors.New("no text to synthesize")
	}
	if len(text) > maxTextLength {
		text = text[:maxTextLength]
	}

	resp, err := s.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		OutputFormat: types.OutputFormatMp3,
		VoiceId:      s.voice,
		Engine:       types.EngineNeural,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.AudioStream.Close()

	audio, err := io.ReadAll(resp.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("reading audio stream: %w", err)
	}

	return audio, nil
}
