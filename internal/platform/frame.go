package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/radar/internal/storage"
)

// Frame is the panel's last position and size.
type Frame struct {
	X, Y          int
	Width, Height int
}

func (f Frame) String() string {
	return fmt.Sprintf("%d %d %d %d", f.X, f.Y, f.Width, f.Height)
}

func ParseFrame(raw string) (Frame, error) {
	var f Frame
	if _, err := fmt.Sscanf(raw, "%d %d %d %d", &f.X, &f.Y, &f.Width, &f.Height); err != nil {
		return Frame{}, fmt.Errorf("parse frame %q: %w", raw, err)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return Frame{}, fmt.Errorf("parse frame %q: non-positive size", raw)
	}
	return f, nil
}

// FrameStore persists the panel frame in the app_state table.
type FrameStore struct {
	state storage.StateRepository
}

func NewFrameStore(state storage.StateRepository) *FrameStore {
	return &FrameStore{state: state}
}

// Load returns the saved frame. ok is false when nothing usable is stored.
func (s *FrameStore) Load(ctx context.Context) (Frame, bool, error) {
	raw, err := s.state.GetState(ctx, storage.StatePanelFrame)
	if errors.Is(err, storage.ErrNotFound) {
		return Frame{}, false, nil
	}
	if err != nil {
		return Frame{}, false, fmt.Errorf("load panel frame: %w", err)
	}
	f, err := ParseFrame(raw)
	if err != nil {
		return Frame{}, false, nil
	}
	return f, true, nil
}

func (s *FrameStore) Save(ctx context.Context, f Frame) error {
	if err := s.state.SetState(ctx, storage.StatePanelFrame, f.String()); err != nil {
		return fmt.Errorf("save panel frame: %w", err)
	}
	return nil
}

// Reset forgets the saved frame so the panel reopens at its default place.
func (s *FrameStore) Reset(ctx context.Context) error {
	if err := s.state.DeleteState(ctx, storage.StatePanelFrame); err != nil {
		return fmt.Errorf("reset panel frame: %w", err)
	}
	return nil
}
