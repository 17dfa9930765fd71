package checkpointer

import "github.com/pkg/errors"

// nStep implements checkpointing every N episodes
type nStep struct {
	interval int
	object   Serializable // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each serialized object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.bin, file2.bin, ..., fileK.bin), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	//
	// Otherwise, if each serialized object should be saved in a
	// separate file, but the filename does not matter, use the
	// static function FileTimer to generate the required naming
	// function. For example:
	//
	// n := NewNStep(10, object, FileTimer("filename", ".bin"))
	//
	// To overwrite a single file, use Filename.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n episodes
func NewNStep(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n <= 0 {
		return nil, errors.Errorf("newNStep: interval must be positive, "+
			"got %d", n)
	}

	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method if episode is a multiple of the interval
func (n *nStep) Checkpoint(episode int) error {
	if episode%n.interval != 0 {
		return nil
	}

	filename := n.filename()
	if err := n.object.Save(filename); err != nil {
		return errors.Wrapf(err, "checkpoint: episode %d", episode)
	}
	return nil
}
