package queue

// RegisterMsg is published after a dataset has been registered through the
// API. The worker picks it up to materialize the converted property graph
// in the results key space.
type RegisterMsg struct {
	Message       string `json:"message"`
	DatasetID     string `json:"dataset_id"`
	CorrelationID string `json:"correlation_id"`
	DocumentKey   string `json:"document_key"`
}

// DeleteMsg asks the worker to remove all stored objects for a dataset.
type DeleteMsg struct {
	Message       string `json:"message"`
	DatasetID     string `json:"dataset_id"`
	CorrelationID string `json:"correlation_id"`
}
