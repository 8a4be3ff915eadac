// Package registry derives the file-management view from the backend's index
// snapshot: the filename list shown to the user and the filename-to-id
// resolution used for deletion.
package registry

import (
	"context"
	"strings"

	"github.com/docfront/docfront/internal/backend"
	"github.com/docfront/docfront/internal/domain"
	"go.uber.org/zap"
)

// Delete summary messages
const (
	msgNoneSelected = "No files selected."
	msgNoneDeleted  = "No files deleted."
)

// View projects index snapshots into UI state.
type View struct {
	client *backend.Client
	logger *zap.Logger
}

// NewView creates a registry view over the given backend client.
func NewView(client *backend.Client, logger *zap.Logger) *View {
	return &View{client: client, logger: logger}
}

// Files returns the raw file listing from a fresh snapshot. Fetch failures
// are logged and collapse to an empty listing; only the mutating calls
// surface errors to the user.
func (v *View) Files(ctx context.Context) []domain.FileRecord {
	info, err := v.client.Info(ctx)
	if err != nil {
		v.logger.Debug("fetching file listing failed", zap.Error(err))
		return []domain.FileRecord{}
	}
	v.logger.Debug("fetched file listing", zap.Int("count", len(info.Files)))
	return info.Files
}

// Filenames returns the display names from a fresh snapshot, empty on fetch
// failure.
func (v *View) Filenames(ctx context.Context) []string {
	files := v.Files(ctx)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	return names
}

// DeleteByFilenames deletes every selected filename, resolving each against a
// fresh snapshot (first match wins on collisions), and returns a
// human-readable summary of what was deleted and what failed.
func (v *View) DeleteByFilenames(ctx context.Context, selected []string) string {
	if len(selected) == 0 {
		return msgNoneSelected
	}

	files := v.Files(ctx)

	var deleted []string
	var errors []string
	for _, name := range selected {
		fileID := ""
		for _, f := range files {
			if f.Filename == name {
				fileID = f.FileID
				break
			}
		}
		if fileID == "" {
			errors = append(errors, name+": Not found")
			continue
		}
		result := v.client.Delete(ctx, fileID)
		if result.IsError() {
			errors = append(errors, name+": "+result.Message)
			continue
		}
		deleted = append(deleted, name)
	}

	msg := ""
	if len(deleted) > 0 {
		msg += "Deleted: " + strings.Join(deleted, ", ") + ". "
	}
	if len(errors) > 0 {
		msg += "Errors: " + strings.Join(errors, "; ")
	}
	if msg == "" {
		return msgNoneDeleted
	}
	return msg
}
