package cache

import (
	"context"
	"time"
)

// Void is the null cache: writes are accepted and dropped, reads always miss.
type Void struct{}

func (Void) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

func (Void) GetByFile(context.Context, string, string) ([]byte, error) { return nil, ErrCacheMiss }

func (Void) Timestamp(context.Context, string) (time.Time, error) { return time.Time{}, ErrCacheMiss }

func (Void) Set(context.Context, string, []byte, time.Duration) error { return nil }
