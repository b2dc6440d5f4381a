package trainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/fsutil"
)

// Checkpoint file naming.
const (
	checkpointPrefix = "checkpoint-epoch"
	checkpointExt    = ".json"
	// BestCheckpoint is rewritten whenever the monitored value improves.
	BestCheckpoint = "model_best.json"
)

// ErrNoCheckpoint is returned when a resume directory holds no checkpoint.
var ErrNoCheckpoint = errors.New("no checkpoint found")

// Checkpoint is the on-disk training state.
type Checkpoint struct {
	Arch            string                              `json:"arch"`
	OptimizerType   string                              `json:"optimizer_type"`
	Epoch           int                                 `json:"epoch"`
	SessionID       string                              `json:"session_id"`
	Params          map[string][]float64                `json:"params"`
	Optimizers      map[string]component.OptimizerState `json:"optimizers"`
	SchedulerEpochs map[string]int                      `json:"scheduler_epochs"`
	MonitorBest     *float64                            `json:"monitor_best,omitempty"`
	Config          json.RawMessage                     `json:"config,omitempty"`
}

// CheckpointName is the file name of the periodic checkpoint for epoch.
func CheckpointName(epoch int) string {
	return checkpointPrefix + strconv.Itoa(epoch) + checkpointExt
}

func checkpointEpoch(name string) (int, bool) {
	if !strings.HasPrefix(name, checkpointPrefix) || !strings.HasSuffix(name, checkpointExt) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, checkpointPrefix), checkpointExt))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ResolveCheckpoint maps a resume path to a checkpoint file. A directory
// resolves to the periodic checkpoint with the highest epoch in it.
func ResolveCheckpoint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("resume: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	files, err := fsutil.FindFiles(path, func(name string) bool {
		_, ok := checkpointEpoch(name)
		return ok
	})
	if err != nil {
		return "", fmt.Errorf("resume: %w", err)
	}
	latest, latestEpoch := "", -1
	for _, f := range files {
		if filepath.Dir(f) != filepath.Clean(path) {
			continue
		}
		if n, _ := checkpointEpoch(filepath.Base(f)); n > latestEpoch {
			latest, latestEpoch = f, n
		}
	}
	if latest == "" {
		return "", fmt.Errorf("resume: %w in %s", ErrNoCheckpoint, path)
	}
	return latest, nil
}

// LoadCheckpoint reads a checkpoint file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	var ck Checkpoint
	if err := json.Unmarshal(data, &ck); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}
	return &ck, nil
}

// writeCheckpoint replaces dir/name atomically.
func writeCheckpoint(dir, name string, ck *Checkpoint) (string, error) {
	data, err := json.MarshalIndent(ck, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode checkpoint: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("write checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write checkpoint: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("write checkpoint: %w", err)
	}
	return path, nil
}
