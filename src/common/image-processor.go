package common

// Icon generation from a single source image
//
// 1. Resolve the source (default icon.png) inside the base directory
// 2. Decode it and classify its color mode
// 3. Normalize palette / grayscale / other modes to RGB(A)
// 4. For every distinct size, ascending: Lanczos resize to SxS, write
//    icon-SxS.png next to the source
// 5. Optionally write a favicon.ico

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/disintegration/imaging"
	ico "github.com/sergeymakinen/go-ico"

	// Source formats beyond what imaging registers
	_ "golang.org/x/image/webp"

	"iconforge/src/config"
)

const (
	DirPerm  = 0755
	FilePerm = 0644
)

// Output is one generated icon file
type Output struct {
	Size int
	Name string
	Path string
}

// Result describes a generation run
type Result struct {
	SourcePath  string
	Width       int
	Height      int
	Mode        ColorMode
	Conversions []ColorMode
	Outputs     []Output // in generation order
	FaviconPath string   // empty unless the favicon is enabled
}

// Generator produces square PNG icons from one source image
type Generator struct {
	baseDir string
	cfg     config.IconsConfig
	logger  *log.Logger
}

// NewGenerator creates a generator that reads and writes inside baseDir.
// A nil logger prints progress to stdout.
func NewGenerator(baseDir string, cfg config.IconsConfig, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(os.Stdout, "", 0)
	}
	return &Generator{
		baseDir: baseDir,
		cfg:     cfg,
		logger:  logger,
	}
}

// SourcePath returns the location of the source image inside the base directory
func (g *Generator) SourcePath() string {
	return filepath.Join(g.baseDir, g.cfg.Source)
}

// OutputName returns the file name used for a target size
func OutputName(size int) string {
	return fmt.Sprintf("icon-%dx%d.png", size, size)
}

// NormalizeSizes returns the distinct sizes in ascending order
func NormalizeSizes(sizes []int) []int {
	out := slices.Clone(sizes)
	slices.Sort(out)
	return slices.Compact(out)
}

// Generate runs the whole pipeline. On failure the returned Result still
// lists the files written before the failing size; they are left on disk.
func (g *Generator) Generate() (*Result, error) {
	sourcePath := g.SourcePath()
	res := &Result{SourcePath: sourcePath}

	if _, err := os.Stat(sourcePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, &GenerateError{
				Kind:    KindMissingSource,
				Path:    sourcePath,
				BaseDir: g.baseDir,
				Err:     ErrSourceNotFound,
			}
		}
		return res, g.unexpected(sourcePath, 0, err)
	}

	img, mode, err := DecodeFile(sourcePath)
	if err != nil {
		return res, g.unexpected(sourcePath, 0, err)
	}

	b := img.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()
	res.Mode = mode
	g.logger.Printf("Read '%s', dimensions: %dx%d.", g.cfg.Source, res.Width, res.Height)

	normalized, chain := Normalize(img, mode)
	if len(chain) > 0 {
		g.logger.Printf("Converting source image from mode %s to %s.", describeSource(img, mode), DescribeChain(chain))
	}
	res.Conversions = chain

	for _, size := range NormalizeSizes(g.cfg.Sizes) {
		name := OutputName(size)
		outputPath := filepath.Join(g.baseDir, name)

		g.logger.Printf("Resizing '%s' to %dx%d and saving as '%s'...", g.cfg.Source, size, size, name)

		// Non-square sources are stretched to fill the square
		resized := imaging.Resize(normalized, size, size, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
			return res, g.unexpected(outputPath, size, fmt.Errorf("failed to encode PNG: %w", err))
		}
		if err := WriteFileAtomic(outputPath, buf.Bytes()); err != nil {
			return res, g.unexpected(outputPath, size, err)
		}

		res.Outputs = append(res.Outputs, Output{Size: size, Name: name, Path: outputPath})
		g.logger.Printf("Successfully generated '%s' at '%s'.", name, outputPath)
	}

	if g.cfg.Favicon.Enabled {
		faviconPath, err := g.writeFavicon(normalized)
		if err != nil {
			return res, g.unexpected(faviconPath, 0, err)
		}
		res.FaviconPath = faviconPath
	}

	return res, nil
}

func (g *Generator) writeFavicon(img image.Image) (string, error) {
	size := g.cfg.Favicon.Size
	faviconPath := filepath.Join(g.baseDir, g.cfg.Favicon.Name)

	g.logger.Printf("Writing %dx%d favicon '%s'...", size, size, g.cfg.Favicon.Name)

	var buf bytes.Buffer
	if err := ico.Encode(&buf, imaging.Resize(img, size, size, imaging.Lanczos)); err != nil {
		return faviconPath, fmt.Errorf("failed to encode ICO: %w", err)
	}
	if err := WriteFileAtomic(faviconPath, buf.Bytes()); err != nil {
		return faviconPath, err
	}

	g.logger.Printf("Successfully generated '%s' at '%s'.", g.cfg.Favicon.Name, faviconPath)
	return faviconPath, nil
}

func (g *Generator) unexpected(path string, size int, err error) *GenerateError {
	return &GenerateError{
		Kind:    KindUnexpected,
		Path:    path,
		BaseDir: g.baseDir,
		Size:    size,
		Err:     err,
	}
}

// DecodeFile decodes an image and classifies its color mode
func DecodeFile(path string) (image.Image, ColorMode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ModeOther, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ModeOther, fmt.Errorf("failed to decode image header: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ModeOther, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	return img, Classify(img, cfg.ColorModel), nil
}

// WriteFileAtomic writes data to path via a temporary file + rename so a
// failed write never leaves a truncated file behind. The parent directory
// is created if needed.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
