// Copyright (c) 2025 BVK Chaitanya

package gobs

// KeyValue is a single database item in a backup stream.
type KeyValue struct {
	Key   string
	Value []byte
}
