package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"taskflow/internal/models"
)

// ErrFileTooLarge is returned for uploads over the 10 MiB limit. The check
// runs before anything leaves the client.
var ErrFileTooLarge = fmt.Errorf("file exceeds the %d MiB attachment limit", models.MaxAttachmentSize>>20)

// ListFiles returns the attachments on a task in server order. Payloads are
// not included in listings.
func (c *Client) ListFiles(ctx context.Context, taskID string) ([]models.FileAttachment, error) {
	query := url.Values{"task_id": {taskID}}

	var files []models.FileAttachment
	if err := c.get(ctx, "/files", query, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadFile attaches a file to a task. Data is the raw payload; it is
// base64-encoded for transport. Payloads over MaxAttachmentSize are rejected
// locally without a request.
func (c *Client) UploadFile(ctx context.Context, taskID, filename, contentType string, data []byte) (models.FileAttachment, error) {
	if int64(len(data)) > models.MaxAttachmentSize {
		return models.FileAttachment{}, ErrFileTooLarge
	}

	body := map[string]string{
		"task_id":      taskID,
		"filename":     filename,
		"content_type": contentType,
		"file_data":    base64.StdEncoding.EncodeToString(data),
	}

	var file models.FileAttachment
	if err := c.post(ctx, "/files", body, &file); err != nil {
		return models.FileAttachment{}, err
	}
	return file, nil
}

// DeleteFile removes an attachment.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.delete(ctx, "/files/"+fileID)
}
