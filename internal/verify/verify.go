// Package verify re-walks a copy plan against an already completed copy,
// confirming each expected destination file exists and matches by size
// and, optionally, by SHA-256 content hash.
package verify

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wjakew/fotofusion-desktop/internal/planner"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// ProgressFunc receives per-phase verification progress so a host can
// render fine-grained status.
type ProgressFunc func(types.VerifyProgress)

type Verifier struct {
	mode types.VerifyMode
}

func New(mode types.VerifyMode) *Verifier {
	return &Verifier{mode: mode}
}

// Run checks every planned file independently; one failure never aborts
// the run.
func (v *Verifier) Run(plan *planner.Plan, onProgress ProgressFunc) types.VerificationResult {
	result := types.VerificationResult{StartTime: time.Now()}

	for _, folder := range plan.Folders {
		for _, file := range folder.Files {
			v.verifyOne(file, plan.TotalFiles, &result, onProgress)
		}
	}

	result.EndTime = time.Now()
	return result
}

func (v *Verifier) verifyOne(file planner.FilePlan, total int, result *types.VerificationResult, onProgress ProgressFunc) {
	emit(onProgress, file, total, types.PhaseExists)

	destInfo, err := os.Stat(file.DestPath)
	if err != nil {
		result.Missing++
		result.Failed++
		result.Errors = append(result.Errors, types.FileError{
			Path:    file.Item.SourcePath,
			Message: "destination missing: " + file.DestPath,
		})
		emit(onProgress, file, total, types.PhaseVerdict)
		return
	}

	if destInfo.Size() != file.Item.SizeBytes {
		result.SizeMismatch++
		result.Failed++
		result.Errors = append(result.Errors, types.FileError{
			Path: file.Item.SourcePath,
			Message: fmt.Sprintf("size mismatch: expected %d, got %d (%s)",
				file.Item.SizeBytes, destInfo.Size(), file.DestPath),
		})
		emit(onProgress, file, total, types.PhaseVerdict)
		return
	}
	result.SizeMatch++

	if v.mode != types.VerifySizeHash {
		result.Verified++
		emit(onProgress, file, total, types.PhaseVerdict)
		return
	}

	emit(onProgress, file, total, types.PhaseSourceHash)
	srcHash, err := hashFile(file.Item.SourcePath)
	if err != nil {
		result.Failed++
		result.Errors = append(result.Errors, types.FileError{
			Path:    file.Item.SourcePath,
			Message: "failed to hash source: " + err.Error(),
		})
		emit(onProgress, file, total, types.PhaseVerdict)
		return
	}

	emit(onProgress, file, total, types.PhaseDestHash)
	destHash, err := hashFile(file.DestPath)
	if err != nil {
		result.Failed++
		result.Errors = append(result.Errors, types.FileError{
			Path:    file.Item.SourcePath,
			Message: "failed to hash destination: " + err.Error(),
		})
		emit(onProgress, file, total, types.PhaseVerdict)
		return
	}

	if srcHash != destHash {
		result.HashMismatch++
		result.Failed++
		result.Errors = append(result.Errors, types.FileError{
			Path: file.Item.SourcePath,
			Message: fmt.Sprintf("hash mismatch: src=%s dest=%s (%s)",
				srcHash, destHash, file.DestPath),
		})
	} else {
		result.HashMatch++
		result.Verified++
	}
	emit(onProgress, file, total, types.PhaseVerdict)
}

func emit(onProgress ProgressFunc, file planner.FilePlan, total int, phase types.VerifyPhase) {
	if onProgress == nil {
		return
	}
	onProgress(types.VerifyProgress{
		Current:  file.Sequence,
		Total:    total,
		Filename: file.Item.FileName,
		Phase:    phase,
	})
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
