package deployer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"iconforge/src/common"
)

// Deployer copies generated icons into the configured target directories
type Deployer struct {
	targets []string
}

// NewDeployer creates a new deployer. Relative targets are resolved against
// baseDir.
func NewDeployer(baseDir string, targets []string) *Deployer {
	resolved := make([]string, 0, len(targets))
	for _, target := range targets {
		if !filepath.IsAbs(target) {
			target = filepath.Join(baseDir, target)
		}
		resolved = append(resolved, target)
	}
	return &Deployer{targets: resolved}
}

// Targets returns the resolved target directories
func (d *Deployer) Targets() []string {
	return d.targets
}

// Deploy copies every output file into every target directory
func (d *Deployer) Deploy(outputs []common.Output) error {
	if len(d.targets) == 0 || len(outputs) == 0 {
		return nil
	}

	log.Printf("📋 Copying %d icon(s) to %d target(s)...", len(outputs), len(d.targets))

	for _, target := range d.targets {
		if err := os.MkdirAll(target, common.DirPerm); err != nil {
			return fmt.Errorf("failed to create target directory %s: %w", target, err)
		}

		for _, output := range outputs {
			if err := copyFile(output.Path, filepath.Join(target, output.Name)); err != nil {
				return fmt.Errorf("failed to copy %s to %s: %w", output.Name, target, err)
			}
		}
		log.Printf("✅ Icons copied to %s", target)
	}

	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return common.WriteFileAtomic(dst, data)
}
