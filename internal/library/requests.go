package library

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// LoadRequest names a single recipe file. Force skips the cache.
type LoadRequest struct {
	Path  string `json:"path"`
	Force bool   `json:"force,omitempty"`
}

// Validate ensures a path is present.
func (req LoadRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Path, validation.By(notBlank("library.load.path_required", "path is required"))),
	)
	return wrapValidationError(err, "invalid recipe load request")
}

// DirectoryRequest names a directory of recipes.
type DirectoryRequest struct {
	Dir string `json:"dir"`
}

// Validate ensures a directory is present.
func (req DirectoryRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Dir, validation.By(notBlank("library.directory.dir_required", "directory is required"))),
	)
	return wrapValidationError(err, "invalid recipe directory request")
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}

func wrapValidationError(err error, message string) error {
	if err == nil {
		return nil
	}
	return goerrors.FromOzzoValidation(err, message).WithTextCode(TextCodeRequestInvalid)
}
