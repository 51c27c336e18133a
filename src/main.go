package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"iconforge/src/common"
	"iconforge/src/config"
	"iconforge/src/deployer"
	"iconforge/src/watcher"
)

func main() {
	dirFlag := flag.String("dir", "", "directory holding the source icon and receiving the output (default: the executable's directory)")
	configFlag := flag.String("config", "", "config file (default: <dir>/"+config.FileName+")")
	watchFlag := flag.Bool("watch", false, "keep running and regenerate whenever the source icon changes")
	flag.Parse()

	baseDir, err := resolveBaseDir(*dirFlag)
	if err != nil {
		log.Fatalf("Failed to resolve base directory: %v", err)
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = filepath.Join(baseDir, config.FileName)
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.ApplyEnv(cfg, baseDir); err != nil {
		log.Fatalf("Failed to apply environment: %v", err)
	}

	if !*watchFlag {
		if !run(baseDir, cfg) {
			os.Exit(1)
		}
		return
	}

	if err := watch(baseDir, cfg); err != nil {
		log.Fatalf("Watch mode failed: %v", err)
	}
}

// resolveBaseDir returns dir made absolute, or the directory of the running
// executable when dir is empty.
func resolveBaseDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// run generates (and deploys) the icons once and reports any failure.
// It returns false if the run failed.
func run(baseDir string, cfg *config.Config) bool {
	generator := common.NewGenerator(baseDir, cfg.Icons, nil)

	res, err := generator.Generate()
	if err != nil {
		common.Report(os.Stdout, cfg.Icons.Source, err)
		return false
	}

	outputs := res.Outputs
	if res.FaviconPath != "" {
		outputs = append(outputs, common.Output{Name: filepath.Base(res.FaviconPath), Path: res.FaviconPath})
	}

	if err := deployer.NewDeployer(baseDir, cfg.Deploy.Targets).Deploy(outputs); err != nil {
		log.Printf("Failed to deploy icons: %v", err)
		return false
	}

	return true
}

func watch(baseDir string, cfg *config.Config) error {
	fmt.Println("iconforge - watch mode")
	fmt.Println("======================")

	// Initial generation; a missing source is fine, it may appear later
	run(baseDir, cfg)

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	w, err := watcher.NewWatcher(baseDir, cfg.Icons.Source, debounce)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	log.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			if event.Type == watcher.EventDeleted {
				log.Printf("Source removed, keeping existing icons")
				continue
			}
			run(baseDir, cfg)

		case <-sigChan:
			log.Println("Shutting down...")
			return w.Stop()
		}
	}
}
