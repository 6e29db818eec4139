package editor

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将文档状态输出为 JSON，便于调试或可视化。
func WriteDebugJSON(st State, path string) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
