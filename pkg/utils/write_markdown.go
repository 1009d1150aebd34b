package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteMarkdown writes content to fileName under filePath, creating the
// directory when needed.
func WriteMarkdown(filePath, fileName, content string) error {
	if err := os.MkdirAll(filePath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", filePath, err)
	}

	filePath = filepath.Join(filePath, fileName)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %v", filePath, err)
	}
	return nil
}
