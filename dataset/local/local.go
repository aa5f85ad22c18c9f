//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package local provides a local file storage backend for benchmark
// datasets. Splits are stored as JSONL files (one Example per line) below a
// base directory; the nested SQuAD JSON layout is supported for ingesting
// extractive QA corpora.
//
// On disk, answer offsets follow the upstream corpus convention of counting
// code points (the files are typically produced by Python tooling). The
// in-memory model uses byte offsets, so loading and saving convert at the
// boundary.
package local

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nordeval/nordeval/dataset"
)

const (
	defaultTempFileSuffix = ".tmp"
	defaultDirPermission  = 0o755
	defaultFilePermission = 0o644

	// maxLineSize bounds a single JSONL line; QA contexts can be long.
	maxLineSize = 16 * 1024 * 1024
)

// Store reads and writes dataset splits below a base directory. Each
// dataset lives in its own subdirectory holding train.jsonl, val.jsonl and
// test.jsonl (anywhere below the dataset directory; discovery uses glob
// patterns).
type Store struct {
	mu      sync.RWMutex
	baseDir string
}

// New creates a store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Load reads the splits of the named dataset. The train and test splits
// must exist; a missing validation split yields an empty slice.
func (s *Store) Load(name string) (*dataset.Splits, error) {
	if name == "" {
		return nil, errors.New("dataset name is empty")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	root := filepath.Join(s.baseDir, name)
	splits := &dataset.Splits{Name: name}

	var err error
	if splits.Train, err = s.loadSplit(root, "train"); err != nil {
		return nil, fmt.Errorf("load train split of %s: %w", name, err)
	}
	if splits.Val, err = s.loadSplit(root, "val"); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load val split of %s: %w", name, err)
		}
		splits.Val = nil
	}
	if splits.Test, err = s.loadSplit(root, "test"); err != nil {
		return nil, fmt.Errorf("load test split of %s: %w", name, err)
	}
	return splits, nil
}

// Save writes the splits of the named dataset, one JSONL file per
// non-empty split, replacing any previous content atomically.
func (s *Store) Save(name string, splits *dataset.Splits) error {
	if name == "" {
		return errors.New("dataset name is empty")
	}
	if splits == nil {
		return errors.New("splits is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	root := filepath.Join(s.baseDir, name)
	for _, part := range []struct {
		split    string
		examples []dataset.Example
	}{
		{"train", splits.Train},
		{"val", splits.Val},
		{"test", splits.Test},
	} {
		if len(part.examples) == 0 {
			continue
		}
		if err := s.storeSplit(root, part.split, part.examples); err != nil {
			return fmt.Errorf("save %s split of %s: %w", part.split, name, err)
		}
	}
	return nil
}

// loadSplit locates and decodes one split file. os.ErrNotExist is wrapped
// when no file matches.
func (s *Store) loadSplit(root, split string) ([]dataset.Example, error) {
	pattern := filepath.Join(root, "**", split+".jsonl")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no %s.jsonl below %s: %w", split, root, os.ErrNotExist)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous %s split, %d files match %s", split, len(matches), pattern)
	}
	return readJSONL(matches[0])
}

// storeSplit writes one split file via a temp file plus rename.
func (s *Store) storeSplit(root, split string, examples []dataset.Example) error {
	if err := os.MkdirAll(root, defaultDirPermission); err != nil {
		return fmt.Errorf("mkdir all %s: %w", root, err)
	}
	path := filepath.Join(root, split+".jsonl")
	tmp := path + defaultTempFileSuffix
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFilePermission)
	if err != nil {
		return fmt.Errorf("open file %s: %w", tmp, err)
	}
	encoder := json.NewEncoder(file)
	for i := range examples {
		if err := encoder.Encode(toFileExample(examples[i])); err != nil {
			file.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode line %d of %s: %w", i+1, tmp, err)
		}
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename file %s to %s: %w", tmp, path, err)
	}
	return nil
}

// readJSONL decodes one Example per non-blank line.
func readJSONL(path string) ([]dataset.Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	defer file.Close()

	var examples []dataset.Example
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ex dataset.Example
		if err := json.Unmarshal(raw, &ex); err != nil {
			return nil, fmt.Errorf("unmarshal %s line %d: %w", path, line, err)
		}
		if err := toByteOffsets(&ex); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file %s: %w", path, err)
	}
	return examples, nil
}

// LoadSQuAD reads a file in the nested SQuAD JSON layout (data ->
// paragraphs -> qas) and flattens it into QA examples.
func LoadSQuAD(path string) ([]dataset.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	var file squadFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal file %s: %w", path, err)
	}

	var examples []dataset.Example
	for di, doc := range file.Data {
		for pi, paragraph := range doc.Paragraphs {
			for qi, qa := range paragraph.QAs {
				ex := dataset.Example{
					ID:       qa.ID,
					Question: qa.Question,
					Context:  paragraph.Context,
				}
				if ex.ID == "" {
					ex.ID = fmt.Sprintf("%s-%d-%d-%d", titleOrDefault(doc.Title), di, pi, qi)
				}
				for _, ans := range qa.Answers {
					ex.Answers = append(ex.Answers, dataset.AnswerSpan{
						Start: ans.AnswerStart,
						Text:  ans.Text,
					})
				}
				if err := toByteOffsets(&ex); err != nil {
					return nil, fmt.Errorf("%s question %s: %w", path, ex.ID, err)
				}
				examples = append(examples, ex)
			}
		}
	}
	return examples, nil
}

// squadFile mirrors the nested SQuAD JSON layout.
type squadFile struct {
	Version string `json:"version"`
	Data    []struct {
		Title      string `json:"title"`
		Paragraphs []struct {
			Context string `json:"context"`
			QAs     []struct {
				ID       string `json:"id"`
				Question string `json:"question"`
				Answers  []struct {
					Text        string `json:"text"`
					AnswerStart int    `json:"answer_start"`
				} `json:"answers"`
			} `json:"qas"`
		} `json:"paragraphs"`
	} `json:"data"`
}

func titleOrDefault(title string) string {
	if title != "" {
		return title
	}
	return "squad"
}

// toByteOffsets converts answer starts from code-point to byte offsets.
func toByteOffsets(ex *dataset.Example) error {
	for i := range ex.Answers {
		off, err := byteOffset(ex.Context, ex.Answers[i].Start)
		if err != nil {
			return fmt.Errorf("answer %d: %w", i, err)
		}
		ex.Answers[i].Start = off
	}
	return nil
}

// toFileExample converts answer starts back to code-point offsets for
// writing.
func toFileExample(ex dataset.Example) dataset.Example {
	if len(ex.Answers) == 0 {
		return ex
	}
	answers := make([]dataset.AnswerSpan, len(ex.Answers))
	copy(answers, ex.Answers)
	for i := range answers {
		answers[i].Start = runeOffset(ex.Context, answers[i].Start)
	}
	ex.Answers = answers
	return ex
}

// byteOffset converts a code-point offset into s to a byte offset.
func byteOffset(s string, runeOff int) (int, error) {
	if runeOff < 0 {
		return 0, fmt.Errorf("negative answer offset %d", runeOff)
	}
	count := 0
	for i := range s {
		if count == runeOff {
			return i, nil
		}
		count++
	}
	if count == runeOff {
		return len(s), nil
	}
	return 0, fmt.Errorf("answer offset %d beyond context length %d", runeOff, count)
}

// runeOffset converts a byte offset into s to a code-point offset.
func runeOffset(s string, byteOff int) int {
	if byteOff > len(s) {
		byteOff = len(s)
	}
	return utf8.RuneCountInString(s[:byteOff])
}
