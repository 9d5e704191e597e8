package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/llehouerou/calliope/internal/logging"
)

// Runner executes planned operations.
type Runner struct {
	// FFmpeg is the transcoder binary, "ffmpeg" when empty.
	FFmpeg string
}

// NewRunner creates a Runner using ffmpeg from PATH.
func NewRunner() *Runner {
	return &Runner{FFmpeg: "ffmpeg"}
}

// Run executes ops in order and stops at the first failure. Destinations
// that already exist are left untouched.
func (r *Runner) Run(ctx context.Context, ops []Operation) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		logging.Debug("sync %d/%d: %s", i+1, len(ops), op)

		var err error
		switch op.Action {
		case ActionTranscode:
			err = r.transcode(ctx, op.Source, op.Dest)
		default:
			err = copyFile(op.Source, op.Dest)
		}
		if err != nil {
			return fmt.Errorf("sync %s: %w", op.Source, err)
		}
	}
	return nil
}

// Print writes the operations one per line instead of running them.
func Print(w io.Writer, ops []Operation) error {
	for _, op := range ops {
		if _, err := fmt.Fprintln(w, op); err != nil {
			return err
		}
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// copyFile copies src to dst, creating parent directories.
func copyFile(src, dst string) error {
	if exists(dst) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}

	if info, err := srcFile.Stat(); err == nil {
		_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	}
	return dstFile.Close()
}

func ffmpegArgs(src, dst string) []string {
	return []string{
		"ffmpeg",
		"-i", src,
		"-codec:a", "libmp3lame",
		"-q:a", "0",
		"-map_metadata", "0",
		"-id3v2_version", "3",
		"-y",
		dst,
	}
}

// transcode converts src to MP3 at dst.
func (r *Runner) transcode(ctx context.Context, src, dst string) error {
	if exists(dst) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	bin := r.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	args := ffmpegArgs(src, dst)[1:]
	output, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("ffmpeg conversion failed: %w\n%s", err, string(output))
	}
	return nil
}
