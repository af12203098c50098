package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"user-api/internal/models"
)

type flusher interface {
	Flush()
}

// StreamAllUsers writes every user as one JSON object per line, fetching,
// encoding and flushing a row at a time. The store cursor is released when
// the rows run out, a write fails or ctx is cancelled.
func (s *UserService) StreamAllUsers(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)
	f, canFlush := w.(flusher)

	err := s.store.StreamUsers(ctx, func(u models.User) error {
		if err := enc.Encode(models.StreamedUser{ID: u.ID, Name: u.Name, Email: u.Email}); err != nil {
			return err
		}
		if canFlush {
			f.Flush()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("stream users: %w", err)
	}
	return nil
}
