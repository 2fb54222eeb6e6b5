package queue

import (
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
)

// ExtractJobMsg asks the worker to (re)extract a notebook's graph from
// all of its documents. DocumentID names the upload that triggered the
// job, used for per-document status tracking; it may be empty for
// re-extraction of the whole notebook.
type ExtractJobMsg struct {
	NotebookID string `json:"notebook_id"`
	DocumentID string `json:"document_id,omitempty"`
}

// LayoutJobMsg asks the worker to run the force layout for a notebook
// and persist the resulting snapshot. A zero Seed keeps the seed of the
// previous snapshot, or falls back to a fresh one.
type LayoutJobMsg struct {
	NotebookID string `json:"notebook_id"`
	Seed       int64  `json:"seed,omitempty"`
}

// DeleteJobMsg asks the worker to remove a notebook's stored objects
// and database rows.
type DeleteJobMsg struct {
	NotebookID string `json:"notebook_id"`
	S3Prefix   string `json:"s3_prefix"`
}

func PublishExtractJob(ch *amqp091.Channel, msg ExtractJobMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return PublishFIFO(ch, ExtractQueue, body)
}

func PublishLayoutJob(ch *amqp091.Channel, msg LayoutJobMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return PublishFIFO(ch, LayoutQueue, body)
}

func PublishDeleteJob(ch *amqp091.Channel, msg DeleteJobMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return PublishFIFO(ch, DeleteQueue, body)
}
