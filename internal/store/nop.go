package store

import "time"

// NopStore is a no-op store used when the caller wants raw aggregation with
// no memory between runs. Every listing appears new on each call.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Known() (map[string]struct{}, error)  { return nil, nil }
func (s *NopStore) MarkSeen(url string) error            { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }
