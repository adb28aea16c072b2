package configwatcher

import (
	"context"
	"lingochat_backend/internal/config"
	"lingochat_backend/pkg/logger"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

const debounce = time.Second

// WatchConfig 监听配置文件写入，防抖后重新加载并回调；ctx 结束时退出
func WatchConfig(ctx context.Context, configPath string, reloader ConfigReloader) error {
	watcher, absPath, err := watch(configPath)
	if err != nil {
		return err
	}
	defer watcher.Close()

	return run(ctx, watcher, absPath, debounce, reloader)
}

func watch(configPath string) (*fsnotify.Watcher, string, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, "", err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, "", err
	}

	// 监听目录而非文件，编辑器的原子替换会让文件级 watch 失效
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, "", err
	}
	return watcher, absPath, nil
}

func run(ctx context.Context, watcher *fsnotify.Watcher, absPath string, wait time.Duration, reloader ConfigReloader) error {
	timer := time.NewTimer(wait)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(wait)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(absPath))
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded",
				zap.String("path", absPath),
				zap.String("aiModel", newCfg.AI.Model))
			reloader(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
