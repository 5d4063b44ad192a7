package gltfscene

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrIO               = errors.New("gltfscene: i/o error")
	ErrDocumentParse    = errors.New("gltfscene: malformed document")
	ErrMissingAttribute = errors.New("gltfscene: missing required attribute")
	ErrUnsupportedMode  = errors.New("gltfscene: unsupported draw mode")
	ErrTextureDecode    = errors.New("gltfscene: texture decode failed")
	ErrMalformedIndices = errors.New("gltfscene: malformed index list")
)

// LoadError is returned by every failing load. Kind is one of the Err*
// sentinels and can be matched with errors.Is.
type LoadError struct {
	Kind error
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == e.Kind }

func newLoadError(kind error, format string, args ...interface{}) error {
	return &LoadError{Kind: kind, Err: errors.Errorf(format, args...)}
}

func wrapLoadError(kind error, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return errors.WithMessagef(err, format, args...)
	}
	return &LoadError{Kind: kind, Err: errors.Wrapf(err, format, args...)}
}

// ModeError is returned by the topology accessors of a Model whose draw
// mode does not match the requested primitive kind.
type ModeError struct {
	Mode Mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("gltfscene: wrong draw mode %s", e.Mode)
}

func (e *ModeError) Is(target error) bool { return target == ErrUnsupportedMode }
