package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	domaincfg "contextgraph/domain/config"
)

// ScoringFileConfig is the on-disk shape of a dynamic scoring override file.
// Zero-valued fields keep their defaults.
type ScoringFileConfig struct {
	FocusWeight     float64 `json:"focus_weight"`
	KeywordWeight   float64 `json:"keyword_weight"`
	TypeMatchWeight float64 `json:"type_match_weight"`
	RecencyWeight   float64 `json:"recency_weight"`
	ProximityWeight float64 `json:"proximity_weight"`

	ProximityRange      int `json:"proximity_range"`
	RecencyHalfLifeDays int `json:"recency_half_life_days"`

	PathNodeWeight float64 `json:"path_node_weight"`
	PathEdgeWeight float64 `json:"path_edge_weight"`
}

// ScoringWatcher reloads scoring configuration when the backing file changes.
type ScoringWatcher struct {
	path     string
	logger   *zap.Logger
	onChange func(*domaincfg.ScoringConfig)

	mu      sync.Mutex
	current *domaincfg.ScoringConfig

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewScoringWatcher loads the file at path and begins watching it for
// changes. onChange is invoked with the merged configuration on every
// successful reload, including the initial load.
func NewScoringWatcher(path string, logger *zap.Logger, onChange func(*domaincfg.ScoringConfig)) (*ScoringWatcher, error) {
	w := &ScoringWatcher{
		path:     path,
		logger:   logger,
		onChange: onChange,
		current:  domaincfg.DefaultScoringConfig(),
		done:     make(chan struct{}),
	}

	if err := w.reload(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.watcher = fw

	// Watch the directory so we survive editors that replace the file.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	go w.loop()
	return w, nil
}

// Current returns the most recently loaded configuration.
func (w *ScoringWatcher) Current() *domaincfg.ScoringConfig {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current.Clone()
}

// Close stops the watcher.
func (w *ScoringWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *ScoringWatcher) loop() {
	var debounce *time.Timer
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Editors emit bursts of events on save.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				if err := w.reload(); err != nil {
					w.logger.Warn("scoring config reload failed",
						zap.String("path", w.path),
						zap.Error(err))
				}
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("scoring config watcher error", zap.Error(err))
		}
	}
}

func (w *ScoringWatcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}

	var file ScoringFileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}

	cfg := domaincfg.DefaultScoringConfig()
	if file.FocusWeight > 0 {
		cfg.FocusWeight = file.FocusWeight
	}
	if file.KeywordWeight > 0 {
		cfg.KeywordWeight = file.KeywordWeight
	}
	if file.TypeMatchWeight > 0 {
		cfg.TypeMatchWeight = file.TypeMatchWeight
	}
	if file.RecencyWeight > 0 {
		cfg.RecencyWeight = file.RecencyWeight
	}
	if file.ProximityWeight > 0 {
		cfg.ProximityWeight = file.ProximityWeight
	}
	if file.ProximityRange > 0 {
		cfg.ProximityRange = file.ProximityRange
	}
	if file.RecencyHalfLifeDays > 0 {
		cfg.RecencyHalfLife = time.Duration(file.RecencyHalfLifeDays) * 24 * time.Hour
	}
	if file.PathNodeWeight > 0 && file.PathEdgeWeight > 0 {
		cfg.PathNodeWeight = file.PathNodeWeight
		cfg.PathEdgeWeight = file.PathEdgeWeight
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	w.logger.Info("scoring config loaded", zap.String("path", w.path))
	if w.onChange != nil {
		w.onChange(cfg.Clone())
	}
	return nil
}
