package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/tailored-agentic-units/coach/memory"
)

const (
	filePrefix = "interview_log_case"
	fileSuffix = ".json"
)

// FileSink writes each record as an indented JSON document under the
// transcripts namespace, named interview_log_case{N}.json with N one past
// the highest existing case number.
type FileSink struct {
	store memory.Store
	mu    sync.Mutex
}

func NewFileSink(store memory.Store) *FileSink {
	return &FileSink{store: store}
}

func (f *FileSink) Write(ctx context.Context, r Record) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key, err := f.nextKey(ctx)
	if err != nil {
		return "", err
	}
	if err := f.store.Save(ctx, memory.Entry{Key: key, Value: data}); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return key, nil
}

// Load reads back a record written by Write.
func (f *FileSink) Load(ctx context.Context, key string) (Record, error) {
	entries, err := f.store.Load(ctx, key)
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(entries[0].Value, &r); err != nil {
		return Record{}, fmt.Errorf("failed to decode transcript %s: %w", key, err)
	}
	return r, nil
}

func (f *FileSink) nextKey(ctx context.Context) (string, error) {
	keys, err := f.store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list transcripts: %w", err)
	}

	highest := 0
	for _, key := range memory.WithPrefix(keys, memory.NamespaceTranscripts) {
		if n, ok := CaseNumber(key); ok && n > highest {
			highest = n
		}
	}
	return memory.Key(memory.NamespaceTranscripts, CaseName(highest+1)), nil
}

// CaseName returns the file name for case n.
func CaseName(n int) string {
	return filePrefix + strconv.Itoa(n) + fileSuffix
}

// CaseNumber extracts N from a key ending in interview_log_case{N}.json.
func CaseNumber(key string) (int, bool) {
	name := path.Base(key)
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
