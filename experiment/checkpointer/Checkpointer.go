// Package checkpointer implements periodic saving of estimators during
// an experiment
package checkpointer

// Serializable is an object that can be saved to a file
type Serializable interface {
	Save(filename string) error
}

// Checkpointer checkpoints/saves serializable objects based on the
// number of episodes an experiment has processed
type Checkpointer interface {
	Checkpoint(episode int) error
}
