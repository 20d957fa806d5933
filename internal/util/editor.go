package util

import (
	"fmt"
	"os"
	"os/exec"
)

func OpenEditor(filePath string, editor string) error {
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, filePath)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor (%s): %w", filePath, err)
	}
	return nil
}
