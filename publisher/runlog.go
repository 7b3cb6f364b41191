package publisher

import (
	"encoding/json"
	"fmt"
	"os"
)

// RunRecord is one line of the append-only publish log.
type RunRecord struct {
	Topic     string        `json:"topic"`
	Result    PublishResult `json:"wp_result"`
	Timestamp int64         `json:"ts"`
}

// AppendRunLog appends one complete JSON line to the publish log. The
// whole line goes out in a single write so interleaved runs cannot tear
// each other's records.
func AppendRunLog(path string, rec RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode run record: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open publish log %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append publish log %s: %w", path, err)
	}
	return nil
}
