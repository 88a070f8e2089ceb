package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mrlokans/hanzi/internal/importers"
)

// Auditor writes import logs as JSON files for offline inspection.
type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveImportLog writes the log to <AuditDir>/import-<uuid>.json and returns the file name.
func (a *Auditor) SaveImportLog(log importers.ImportLog) (string, error) {
	if err := os.MkdirAll(a.AuditDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}

	filename := fmt.Sprintf("import-%s.json", uuid.NewString())

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal import log: %w", err)
	}

	if err := os.WriteFile(filepath.Join(a.AuditDir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}
