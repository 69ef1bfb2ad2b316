// Package copier executes a copy plan: creates destination directories,
// copies files with skip-on-exists semantics, and accumulates a structured
// result. One file's failure never aborts the run.
package copier

import (
	"io"
	"os"
	"time"

	"github.com/wjakew/fotofusion-desktop/internal/log"
	"github.com/wjakew/fotofusion-desktop/internal/planner"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// ProgressFunc receives one event per processed item (copied, skipped, or
// failed). The current counter is monotonically increasing.
type ProgressFunc func(types.CopyProgress)

type Copier struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Copier {
	if logger == nil {
		logger = log.Discard()
	}
	return &Copier{logger: logger}
}

// Run executes the plan. The returned result is complete even when every
// item failed; it echoes the capture-time window the plan was built under.
func (c *Copier) Run(plan *planner.Plan, window *types.TimeWindow, onProgress ProgressFunc) types.CopyResult {
	result := types.CopyResult{
		IncludedItems: plan.TotalFiles,
		FoldersCopied: len(plan.Folders),
		StartTime:     time.Now(),
		TimeWindow:    window,
	}

	for _, folder := range plan.Folders {
		if err := os.MkdirAll(folder.Dir, 0755); err != nil {
			// The whole folder fails, but other folders continue.
			result.Errors = append(result.Errors, types.FileError{
				Folder:  string(folder.Key),
				Message: err.Error(),
			})
			for _, file := range folder.Files {
				result.Failed++
				result.Errors = append(result.Errors, types.FileError{
					Path:    file.Item.SourcePath,
					Message: err.Error(),
				})
				c.logger.LogCopy(file.Item.SourcePath, file.DestPath, types.CopyActionFailed, err)
				emit(onProgress, file, plan.TotalFiles, types.CopyActionFailed)
			}
			continue
		}

		for _, file := range folder.Files {
			action := c.copyOne(file, &result)
			c.logger.Progress(file.Sequence, plan.TotalFiles, file.Item.FileName)
			emit(onProgress, file, plan.TotalFiles, action)
		}
	}

	result.EndTime = time.Now()
	return result
}

func (c *Copier) copyOne(file planner.FilePlan, result *types.CopyResult) types.CopyAction {
	if _, err := os.Stat(file.DestPath); err == nil {
		// Never overwrite: an existing destination file is recorded as
		// skipped and the processed counter still advances.
		result.SkippedExists++
		result.Skipped = append(result.Skipped, types.SkippedFile{
			SourcePath:      file.Item.SourcePath,
			DestinationPath: file.DestPath,
		})
		c.logger.LogCopy(file.Item.SourcePath, file.DestPath, types.CopyActionSkipped, nil)
		return types.CopyActionSkipped
	}

	if err := atomicCopy(file.Item.SourcePath, file.DestPath); err != nil {
		result.Failed++
		result.Errors = append(result.Errors, types.FileError{
			Path:    file.Item.SourcePath,
			Message: err.Error(),
		})
		c.logger.LogCopy(file.Item.SourcePath, file.DestPath, types.CopyActionFailed, err)
		return types.CopyActionFailed
	}

	result.Succeeded++
	c.logger.LogCopy(file.Item.SourcePath, file.DestPath, types.CopyActionCopying, nil)
	return types.CopyActionCopying
}

func emit(onProgress ProgressFunc, file planner.FilePlan, total int, action types.CopyAction) {
	if onProgress == nil {
		return
	}
	onProgress(types.CopyProgress{
		Current:         file.Sequence,
		Total:           total,
		Filename:        file.Item.FileName,
		DestinationPath: file.DestPath,
		Action:          action,
	})
}

// atomicCopy writes to a .part file and renames it into place so a failed
// copy never leaves a truncated destination file.
func atomicCopy(src, dest string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	partPath := dest + ".part"
	dstFile, err := os.Create(partPath)
	if err != nil {
		return err
	}

	_, err = io.Copy(dstFile, srcFile)
	if closeErr := dstFile.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partPath)
		return err
	}

	if info, err := srcFile.Stat(); err == nil {
		os.Chtimes(partPath, info.ModTime(), info.ModTime())
	}

	if err := os.Rename(partPath, dest); err != nil {
		os.Remove(partPath)
		return err
	}
	return nil
}
