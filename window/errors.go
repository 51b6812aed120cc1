package window

import "errors"

var (
	errNoNativeWindow = errors.New("no native window")
	errNoMetalLayer   = errors.New("CAMetalLayer class not found")
)
