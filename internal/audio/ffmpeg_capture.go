// Package audio captures microphone input through an ffmpeg subprocess.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"voicenote/internal/domain"
	"voicenote/internal/ports"
)

const readChunkSize = 4096

// FFMPEGCapture records microphone audio as a WAV stream over ffmpeg's
// stdout, buffering chunks until the session is stopped.
type FFMPEGCapture struct {
	command string
}

var _ ports.AudioCapture = (*FFMPEGCapture)(nil)

func NewFFMPEGCapture(command string) *FFMPEGCapture {
	if command == "" {
		command = "ffmpeg"
	}
	return &FFMPEGCapture{command: command}
}

func (c *FFMPEGCapture) Start(ctx context.Context, cfg ports.AudioConfig) (ports.CaptureSession, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "wav",
		"-",
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to start %s: %v", domain.ErrMicrophoneDenied, c.command, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	// ffmpeg exits immediately when the input device is missing or access
	// is refused.
	select {
	case <-waitErr:
		return nil, fmt.Errorf("%w: %s", domain.ErrMicrophoneDenied, trimmed(stderr.String()))
	case <-time.After(250 * time.Millisecond):
	}

	session := &captureSession{
		stdout:   stdout,
		stderr:   &stderr,
		process:  cmd.Process,
		waitErr:  waitErr,
		readDone: make(chan struct{}),
	}
	go session.readLoop()

	return session, nil
}

type captureSession struct {
	stdout  io.ReadCloser
	stderr  *bytes.Buffer
	process *os.Process
	waitErr <-chan error

	readDone chan struct{}

	mu     sync.Mutex
	chunks [][]byte
	paused bool

	stopOnce sync.Once
	artifact domain.AudioArtifact
	stopErr  error
}

func (s *captureSession) readLoop() {
	defer close(s.readDone)

	buf := make([]byte, readChunkSize)
	for {
		n, err := s.stdout.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			s.mu.Lock()
			s.chunks = append(s.chunks, chunk)
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Pause suspends the capture process. No-op when already paused.
func (s *captureSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused || s.process == nil {
		return nil
	}
	if err := s.process.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("failed to pause capture: %w", err)
	}
	s.paused = true
	return nil
}

// Resume continues a paused capture. No-op when not paused.
func (s *captureSession) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused || s.process == nil {
		return nil
	}
	if err := s.process.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("failed to resume capture: %w", err)
	}
	s.paused = false
	return nil
}

// Stop finishes the capture and concatenates all buffered chunks in arrival
// order. Safe to call on a session that never produced audio; the artifact
// is then empty.
func (s *captureSession) Stop() (domain.AudioArtifact, error) {
	s.stopOnce.Do(func() {
		// A stopped process cannot handle the interrupt below.
		_ = s.Resume()

		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-s.waitErr:
			if ok {
				s.stopErr = normalizeStopErr(err)
			}
		case <-time.After(1200 * time.Millisecond):
			if s.process != nil {
				_ = s.process.Kill()
			}
			err, ok := <-s.waitErr
			if ok {
				s.stopErr = normalizeStopErr(err)
			}
		}

		<-s.readDone
		if closeErr := s.stdout.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			if s.stopErr == nil {
				s.stopErr = closeErr
			}
		}

		if s.stopErr != nil && s.stderr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, trimmed(s.stderr.String()))
		}

		s.mu.Lock()
		total := 0
		for _, chunk := range s.chunks {
			total += len(chunk)
		}
		data := make([]byte, 0, total)
		for _, chunk := range s.chunks {
			data = append(data, chunk...)
		}
		s.chunks = nil
		s.mu.Unlock()

		s.artifact = domain.AudioArtifact{Data: data, MIMEType: "audio/wav", Extension: "wav"}
	})

	return s.artifact, s.stopErr
}

func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimmed(input string) string {
	if input == "" {
		return input
	}
	return string(bytes.TrimSpace([]byte(input)))
}
