package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

// FileStore хранит оба агрегата в двух JSON-файлах.
// Запись — через временный файл с атомарным rename, чтобы
// оборванная запись не оставляла усечённый документ.
type FileStore struct {
	ticketsPath string
	statusPath  string
	mu          sync.Mutex
}

func NewFileStore(dataDir, ticketsFile, statusFile string) (*FileStore, error) {
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &FileStore{
		ticketsPath: filepath.Join(dataDir, ticketsFile),
		statusPath:  filepath.Join(dataDir, statusFile),
	}, nil
}

func (s *FileStore) LoadTickets() (TicketSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := TicketSnapshot{}
	if !loadDocument(s.ticketsPath, &snapshot) || snapshot == nil {
		snapshot = TicketSnapshot{}
	}
	return snapshot, nil
}

func (s *FileStore) SaveTickets(snapshot TicketSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveDocument(s.ticketsPath, snapshot)
}

func (s *FileStore) LoadStatus() (StatusSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := StatusSnapshot{}
	if !loadDocument(s.statusPath, &snapshot) || snapshot == nil {
		snapshot = StatusSnapshot{}
	}
	return snapshot, nil
}

func (s *FileStore) SaveStatus(snapshot StatusSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveDocument(s.statusPath, snapshot)
}

// loadDocument читает JSON-документ в dst. Отсутствующий или пустой файл —
// норма. Битый документ — предупреждение оператору и false, дальше работаем
// с пустого состояния; файл не чиним.
func loadDocument(path string, dst interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("storage: read %s: %v", path, err)
		}
		return true
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return true
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("storage: warning: %s is corrupted, starting fresh: %v", path, err)
		return false
	}
	return true
}

func saveDocument(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
