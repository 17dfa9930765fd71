package checkpointer

import (
	"fmt"
	"time"
)

// Filename returns a function which always returns filename, so that
// each checkpoint overwrites the last
func Filename(filename string) func() string {
	return func() string { return filename }
}

// FilenameEnumerator returns a function which will return filenames
// with a counter integer suffix. Each time the returned function is
// called, the counter suffix will be one higher than on the previous
// call, starting at start+1. The filename parameter is the full filename
// with its path, while the extension parameter determines the file
// extension.
func FilenameEnumerator(start int, filename, extension string) func() string {
	i := start
	return func() string {
		i++
		return fmt.Sprintf("%v%v%v", filename, i, extension)
	}
}

// FileTimer returns a function which will append to a filename the
// number of nanoseconds since January 1, 1970.
func FileTimer(filename, extension string) func() string {
	return func() string {
		return fmt.Sprintf("%v-%v%v", filename, time.Now().UnixNano(),
			extension)
	}
}
