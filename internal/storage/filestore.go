// internal/storage/filestore.go
//
// 以單一文字檔保存所有帳戶。
// 採「原子寫入」：先寫入同目錄下的暫存檔並 fsync，再以 rename() 取代原檔。
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore 為 Store 的檔案實作。
type FileStore struct {
	path string
}

// NewFileStore 建立指向 path 的檔案儲存。檔案不需事先存在。
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path 回傳檔案路徑。
func (s *FileStore) Path() string { return s.path }

// Load 讀取並解析整份檔案。檔案不存在時回傳空集合。
func (s *FileStore) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	recs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return recs, nil
}

// Save 將所有紀錄寫入暫存檔後原子替換正式檔案。
// 任一步驟失敗時暫存檔會被移除，原檔保持不變。
func (s *FileStore) Save(records []Record) (err error) {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, records); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
