package ops

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/document"
	"github.com/hpungsan/fern/internal/errors"
	"github.com/hpungsan/fern/internal/store"
)

// FixInput contains parameters for the Fix operation.
type FixInput struct {
	NewCategory string // required, must be one of the closed category set
	Filename    string // optional; resolved from the audit log when empty
	UserID      string // used for audit-log resolution and the fix entry
}

// FixOutput contains the result of a successful Fix.
type FixOutput struct {
	Filename    string `json:"filename"`
	OldCategory string `json:"old_category"`
	NewCategory string `json:"new_category"`
	OldPath     string `json:"old_path"`
	NewPath     string `json:"new_path"`
}

// Fix relocates a stored document to a different category and rewrites only
// its category metadata. The write-new/delete-old sequence is not
// transactional; a failure partway returns the underlying error without
// rolling back.
func Fix(d *Deps, input FixInput) (*FixOutput, error) {
	newCategory, ok := document.ParseCategory(input.NewCategory)
	if !ok {
		return nil, errors.NewInvalidCategory(input.NewCategory, document.CategoryNames())
	}

	filename := input.Filename
	if filename == "" {
		last, found := d.Store.LastCaptureByUser(input.UserID)
		if !found {
			return nil, errors.NewNoRecentCapture(input.UserID)
		}
		filename = last
	}

	oldPath, _, found := d.Store.FindDocument(filename)
	if !found {
		return nil, errors.NewNotFound(filename)
	}

	data, err := os.ReadFile(oldPath)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	meta, body := document.Decode(string(data))
	oldCategory := ""
	if s, ok := meta["category"].(string); ok {
		oldCategory = s
	}
	meta["category"] = string(newCategory)

	confidence := 0.0
	if c, ok := meta["confidence"].(float64); ok {
		confidence = c
	}

	newPath, err := d.Store.WriteDocument(d.Store.CategoryDir(newCategory), filename, document.Encode(meta, body))
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if newPath != oldPath {
		if err := d.Store.Remove(oldPath); err != nil {
			// The new copy is already on disk; surface the error as-is.
			return nil, errors.NewInternal(err)
		}
	}

	if err := d.Store.AppendFix(store.FixEntry{
		Time:        time.Now(),
		UserID:      input.UserID,
		OldCategory: document.Category(oldCategory),
		NewCategory: newCategory,
		Confidence:  confidence,
		Filename:    filename,
	}); err != nil {
		return nil, errors.NewInternal(err)
	}

	d.logger().Info("fixed capture category",
		zap.String("file", filename),
		zap.String("old", oldCategory),
		zap.String("new", string(newCategory)))

	return &FixOutput{
		Filename:    filename,
		OldCategory: oldCategory,
		NewCategory: string(newCategory),
		OldPath:     oldPath,
		NewPath:     newPath,
	}, nil
}
