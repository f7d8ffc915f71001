package jobstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"job-tracker/internal/models"
)

// FileStore is a MemoryStore mirrored to a JSON-lines file, one record per
// line. The file is rewritten atomically after every successful write.
type FileStore struct {
	*MemoryStore
	path string
}

// OpenFileStore loads path (a missing file is an empty store) and returns a
// store that keeps it in sync.
func OpenFileStore(path string, opts ...Option) (*FileStore, error) {
	jobs, err := readJobsFile(path)
	if err != nil {
		return nil, err
	}

	mem := NewMemoryStore(opts...)
	for _, job := range jobs {
		mem.jobs[job.ID] = job
	}

	fs := &FileStore{MemoryStore: mem, path: path}
	mem.persist = fs.write
	return fs, nil
}

func (fs *FileStore) Path() string { return fs.path }

func readJobsFile(path string) ([]models.Job, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, storeFailure("open", err)
	}

	var jobs []models.Job
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var job models.Job
		if err := json.Unmarshal(raw, &job); err != nil {
			return nil, storeFailure("open", fmt.Errorf("%s line %d: %v", path, line, err))
		}
		if job.ID == "" {
			return nil, storeFailure("open", fmt.Errorf("%s line %d: record has no id", path, line))
		}
		jobs = append(jobs, job)
	}
	if err := scanner.Err(); err != nil {
		return nil, storeFailure("open", err)
	}
	return jobs, nil
}

// write replaces the file with the given records, ordered by creation so
// the file reads as an append log.
func (fs *FileStore) write(jobs map[string]models.Job) error {
	ordered := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		ordered = append(ordered, job)
	}
	slices.SortFunc(ordered, func(a, b models.Job) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, job := range ordered {
		if err := enc.Encode(job); err != nil {
			return fmt.Errorf("encode job %s: %w", job.ID, err)
		}
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		return fmt.Errorf("replace %s: %w", fs.path, err)
	}
	return nil
}
