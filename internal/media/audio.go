package media

import (
	"context"
	"fmt"
	"sync"

	"chitchat/internal/domain"
)

// Recorder captures audio from the local device.
type Recorder interface {
	Start(ctx context.Context) error
	// Stop ends the capture and yields the recorded resource.
	Stop(ctx context.Context) (*Resource, error)
}

// Player plays back a remote audio clip.
type Player interface {
	Play(ctx context.Context, url string) error
	Stop(ctx context.Context) error
}

type sessionState int

const (
	stateIdle sessionState = iota
	stateRecording
	statePlaying
)

// AudioSession serializes access to the local audio device. The device is an
// exclusive resource: at most one capture or playback is active per client.
// Starting a recording while the session is busy is rejected outright;
// starting playback stops any prior clip first.
type AudioSession struct {
	mu       sync.Mutex
	state    sessionState
	recorder Recorder
	player   Player
}

func NewAudioSession(recorder Recorder, player Player) *AudioSession {
	return &AudioSession{recorder: recorder, player: player}
}

// StartRecording begins audio capture. Returns domain.ErrCaptureBusy unless
// the session is idle.
func (s *AudioSession) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateIdle {
		return domain.ErrCaptureBusy
	}
	if err := s.recorder.Start(ctx); err != nil {
		return fmt.Errorf("start recorder: %w", err)
	}
	s.state = stateRecording
	return nil
}

// StopRecording ends the capture and returns the recorded resource.
func (s *AudioSession) StopRecording(ctx context.Context) (*Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateRecording {
		return nil, domain.ErrNotRecording
	}
	res, err := s.recorder.Stop(ctx)
	s.state = stateIdle
	if err != nil {
		return nil, fmt.Errorf("stop recorder: %w", err)
	}
	return res, nil
}

// StartPlayback plays the clip at url, stopping any currently playing clip
// first. Rejected while a recording is in progress.
func (s *AudioSession) StartPlayback(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateRecording {
		return domain.ErrCaptureBusy
	}
	if s.state == statePlaying {
		if err := s.player.Stop(ctx); err != nil {
			return fmt.Errorf("stop prior playback: %w", err)
		}
		s.state = stateIdle
	}
	if err := s.player.Play(ctx, url); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	s.state = statePlaying
	return nil
}

// StopPlayback stops the currently playing clip.
func (s *AudioSession) StopPlayback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != statePlaying {
		return domain.ErrNotPlaying
	}
	if err := s.player.Stop(ctx); err != nil {
		return fmt.Errorf("stop playback: %w", err)
	}
	s.state = stateIdle
	return nil
}
