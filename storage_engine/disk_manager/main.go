// Package diskmanager is the storage engine's only component that talks
// to the filesystem. It exposes the disk manager contract from §6:
// ReadPage/WritePage/GetFileName addressed by (file_id, page_id), plus
// the file-open/close bookkeeping every caller needs to obtain a
// file_id in the first place.
package diskmanager

import (
	"fmt"
	"os"

	"DaemonDB/storage_engine/page"
)

// New constructs an empty disk manager. File ids are assigned starting
// at 1 as files are opened.
func New() *Manager {
	return &Manager{
		files:      make(map[uint32]*FileDescriptor),
		nextFileID: 1,
	}
}

// OpenFile opens or creates filePath and returns the file_id future
// ReadPage/WritePage calls should address it by. Re-opening an
// already-open path returns its existing id.
func (dm *Manager) OpenFile(filePath string) (uint32, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	for id, fd := range dm.files {
		if fd.FilePath == filePath {
			return id, nil
		}
	}

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return 0, fmt.Errorf("disk manager: open %s: %w", filePath, err)
	}

	fileID := dm.nextFileID
	dm.nextFileID++

	dm.files[fileID] = &FileDescriptor{
		FileID:   fileID,
		FilePath: filePath,
		File:     file,
	}

	return fileID, nil
}

// GetFileName returns the backing path for fileID, per the §6 disk
// manager contract.
func (dm *Manager) GetFileName(fileID uint32) (string, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	fd, ok := dm.files[fileID]
	if !ok {
		return "", fmt.Errorf("disk manager: file %d not found", fileID)
	}
	return fd.FilePath, nil
}

// ReadPage reads exactly page.PageSize bytes for (fileID, pageID) into
// buf. Reading a page past the current end of file (e.g. one that was
// allocated in memory but never flushed) zero-fills buf instead of
// failing, since a freshly allocated page has no prior on-disk content.
func (dm *Manager) ReadPage(fileID uint32, pageID int64, buf []byte) error {
	if len(buf) != page.PageSize {
		return fmt.Errorf("disk manager: read buffer must be %d bytes, got %d", page.PageSize, len(buf))
	}

	dm.mu.RLock()
	fd, ok := dm.files[fileID]
	dm.mu.RUnlock()
	if !ok {
		return fmt.Errorf("disk manager: file %d not found", fileID)
	}

	fd.mu.RLock()
	defer fd.mu.RUnlock()
	if fd.File == nil {
		return fmt.Errorf("disk manager: file %d is closed", fileID)
	}

	offset := pageID * int64(page.PageSize)
	n, err := fd.File.ReadAt(buf, offset)
	if err != nil && n == 0 {
		for i := range buf {
			buf[i] = 0
		}
		return nil
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// WritePage writes buf (must be exactly page.PageSize bytes) to
// (fileID, pageID).
func (dm *Manager) WritePage(fileID uint32, pageID int64, buf []byte) error {
	if len(buf) != page.PageSize {
		return fmt.Errorf("disk manager: write buffer must be %d bytes, got %d", page.PageSize, len(buf))
	}

	dm.mu.RLock()
	fd, ok := dm.files[fileID]
	dm.mu.RUnlock()
	if !ok {
		return fmt.Errorf("disk manager: file %d not found", fileID)
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()
	if fd.File == nil {
		return fmt.Errorf("disk manager: file %d is closed", fileID)
	}

	offset := pageID * int64(page.PageSize)
	if _, err := fd.File.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("disk manager: write page %d of file %d: %w", pageID, fileID, err)
	}
	return nil
}

// CloseFile flushes and closes fileID.
func (dm *Manager) CloseFile(fileID uint32) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	fd, ok := dm.files[fileID]
	if !ok {
		return fmt.Errorf("disk manager: file %d not found", fileID)
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()
	if fd.File == nil {
		return nil
	}
	if err := fdatasync(fd.File); err != nil {
		return fmt.Errorf("disk manager: sync before close of file %d: %w", fileID, err)
	}
	if err := fd.File.Close(); err != nil {
		return fmt.Errorf("disk manager: close file %d: %w", fileID, err)
	}
	fd.File = nil
	delete(dm.files, fileID)
	return nil
}

// CloseAll flushes and closes every open file.
func (dm *Manager) CloseAll() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	var lastErr error
	for fileID, fd := range dm.files {
		fd.mu.Lock()
		if fd.File != nil {
			if err := fdatasync(fd.File); err != nil {
				lastErr = err
			}
			if err := fd.File.Close(); err != nil {
				lastErr = err
			}
			fd.File = nil
		}
		fd.mu.Unlock()
		delete(dm.files, fileID)
	}
	return lastErr
}

// Sync flushes every open file's dirty OS buffers to durable storage
// without closing them.
func (dm *Manager) Sync() error {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	for _, fd := range dm.files {
		fd.mu.Lock()
		var err error
		if fd.File != nil {
			err = fdatasync(fd.File)
		}
		fd.mu.Unlock()
		if err != nil {
			return fmt.Errorf("disk manager: sync file %d: %w", fd.FileID, err)
		}
	}
	return nil
}
