package shell

import (
	"strconv"

	"webshell/pkg/store"
)

const defaultHistSize = 100

func (s *Shell) histSize() int {
	if v, ok := s.Proc.Variables()["HIST_SIZE"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultHistSize
}

// loadHistory reads HIST_FILE (if set) and prepends its lines into the
// in-memory history, once, on the first accepted line. It reports
// whether this call is the one that triggered the load, so the caller
// can skip scheduling a write for that same line: the load is still
// in flight and would be clobbered by a write racing ahead of it.
func (s *Shell) loadHistory() bool {
	if s.histLoaded {
		return false
	}
	s.histLoaded = true
	path, ok := s.Proc.Variables()["HIST_FILE"]
	if !ok || path == "" {
		return false
	}
	s.services.Read(path, func(content string, err error) {
		if err != nil {
			return
		}
		s.Proc.PrependHistory(store.SplitLines(content))
	})
	return true
}

// scheduleHistoryWrite persists the last HIST_SIZE entries to HIST_FILE,
// serializing so only one write is ever in flight; a write requested
// while one is outstanding is coalesced into histDirty and retried
// once the in-flight write resolves.
func (s *Shell) scheduleHistoryWrite() {
	path, ok := s.Proc.Variables()["HIST_FILE"]
	if !ok || path == "" {
		return
	}
	if s.histWriting {
		s.histDirty = true
		return
	}
	s.histWriting = true
	s.persistHistory(path)
}

func (s *Shell) persistHistory(path string) {
	hist := s.Proc.History()
	n := s.histSize()
	if len(hist) > n {
		hist = hist[len(hist)-n:]
	}
	content := store.JoinLines(hist)
	s.services.Write(path, content, func(err error) {
		if err != nil {
			s.logger.Println("history write failed:", err)
		}
		s.histWriting = false
		if s.histDirty {
			s.histDirty = false
			s.scheduleHistoryWrite()
		}
	})
}
