// Package backup moves the ledger in and out of the portable JSON export
// document and keeps a rotating set of snapshot files.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage"
)

const timestampLayout = "20060102-150405"

// BackupInfo describes a snapshot file.
type BackupInfo struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
	seq       int
}

// Manager writes snapshots of a store into a backups directory.
type Manager struct {
	backupDir string
	now       func() time.Time
}

// NewManager keeps snapshots in <configDir>/backups.
func NewManager(configDir string) *Manager {
	return &Manager{
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		now:       time.Now,
	}
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup exports the store to a new snapshot file and prunes the
// oldest snapshots beyond constants.MaxBackups.
func (m *Manager) CreateBackup(p storage.Provider) (string, error) {
	return m.createBackup(p, false)
}

func (m *Manager) createBackup(p storage.Provider, skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	doc, err := Export(p)
	if err != nil {
		return "", fmt.Errorf("failed to export ledger: %w", err)
	}

	path, f, err := m.newFile()
	if err != nil {
		return "", err
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to sync backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

// newFile creates a uniquely named snapshot file. Names carry the second and,
// on collision, a sequence number.
func (m *Manager) newFile() (string, *os.File, error) {
	stamp := m.now().Format(timestampLayout)
	for seq := 0; seq <= 100; seq++ {
		name := constants.BackupFilePrefix + stamp
		if seq > 0 {
			name += "-" + strconv.Itoa(seq)
		}
		path := filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			return path, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("failed to create backup file: %w", err)
		}
	}
	return "", nil, fmt.Errorf("failed to generate unique backup filename")
}

// parseName extracts the timestamp and sequence from a snapshot file name.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	seq := 0
	if len(stem) > len(timestampLayout) {
		suffix, ok := strings.CutPrefix(stem[len(timestampLayout):], "-")
		n, err := strconv.Atoi(suffix)
		if !ok || err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
		stem = stem[:len(timestampLayout)]
	}

	ts, err := time.ParseInLocation(timestampLayout, stem, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

// ListBackups returns snapshots newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	slices.SortFunc(backups, func(a, b BackupInfo) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return b.seq - a.seq
	})
	return backups, nil
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for _, old := range backups[min(len(backups), constants.MaxBackups):] {
		if err := os.Remove(old.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", old.Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the store contents with a snapshot.
func (m *Manager) RestoreBackup(p storage.Provider, backupPath string) (ImportReport, error) {
	doc, err := readBackup(backupPath)
	if err != nil {
		return ImportReport{}, err
	}
	return m.Replace(p, doc)
}

// Replace imports doc over the current store contents. The current contents
// are snapshotted first, outside rotation, and restored if the import fails
// partway.
func (m *Manager) Replace(p storage.Provider, doc models.ExportDocument) (ImportReport, error) {
	if doc.Version != constants.ExportVersion {
		return ImportReport{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}
	if err := Validate(doc); err != nil {
		return ImportReport{}, err
	}

	current, err := m.createBackup(p, true)
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to backup current ledger before replace: %w", err)
	}
	logger.Info("Created backup of current ledger", "path", current)

	report, err := Import(p, doc, true)
	if err == nil {
		return report, nil
	}

	logger.Error("Replace failed, restoring previous ledger", "error", err, "backup", current)
	prev, rerr := readBackup(current)
	if rerr == nil {
		_, rerr = Import(p, prev, true)
	}
	if rerr != nil {
		return report, errors.Join(err, fmt.Errorf("%w from %s: %w", ErrRestoreFailed, current, rerr))
	}
	return report, fmt.Errorf("%w: %w", ErrReplaceRolledBack, err)
}

func readBackup(path string) (models.ExportDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ExportDocument{}, fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return doc, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	if err := Validate(doc); err != nil {
		return doc, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	return doc, nil
}
