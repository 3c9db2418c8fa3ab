package repository

import (
	"fmt"

	"github.com/okian/lden/internal/domain/model"
)

// Sentinel kinds for project file errors. All of them are configuration
// errors: the file handed to the tool cannot be used as a project.
var (
	ErrUnsupportedFormat = fmt.Errorf("repository: unsupported project file extension: %w", model.ErrConfiguration)
	ErrOpen              = fmt.Errorf("repository: cannot open project: %w", model.ErrConfiguration)
	ErrBadProject        = fmt.Errorf("repository: malformed project: %w", model.ErrConfiguration)
	ErrBadSpectrum       = fmt.Errorf("repository: malformed spectrum: %w", model.ErrConfiguration)
	ErrSave              = fmt.Errorf("repository: cannot save project: %w", model.ErrConfiguration)
)
